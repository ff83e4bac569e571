// Package testdata builds synthetic camera frames for tests.
package testdata

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Default frame size, small enough to keep tests fast.
const (
	Width  = 160
	Height = 120
)

// NewFrame returns a BGR frame filled with c and a white marker in the left
// quarter, which makes a horizontal flip observable.
func NewFrame(width, height int, c color.RGBA) *gocv.Mat {
	m := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(float64(c.B), float64(c.G), float64(c.R), 0),
		height, width, gocv.MatTypeCV8UC3,
	)
	marker := image.Rect(0, 0, width/4, height)
	gocv.Rectangle(&m, marker, color.RGBA{R: 255, G: 255, B: 255, A: 255}, -1)
	return &m
}

// Sequence returns n default-sized frames with slowly varying background.
// Release them with CloseAll.
func Sequence(n int) []*gocv.Mat {
	frames := make([]*gocv.Mat, n)
	for i := range frames {
		shade := uint8(32 + (i*8)%192)
		frames[i] = NewFrame(Width, Height, color.RGBA{R: shade, G: shade / 2, B: 64, A: 255})
	}
	return frames
}

// CloseAll releases every frame.
func CloseAll(frames []*gocv.Mat) {
	for _, f := range frames {
		if f != nil {
			f.Close()
		}
	}
}
