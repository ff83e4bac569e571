package display

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/palmdrive/internal/detector"
	"github.com/ayusman/palmdrive/internal/gesture"
)

// Caption layout.
var (
	captionOrigin = image.Pt(10, 50)
	captionFont   = gocv.FontHersheySimplex
)

const (
	captionScale     = 1.0
	captionThickness = 2
)

var (
	colorGas     = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	colorBrake   = color.RGBA{R: 255, G: 0, B: 0, A: 0}
	colorNeutral = color.RGBA{R: 0, G: 255, B: 255, A: 0}

	colorBone  = color.RGBA{R: 255, G: 255, B: 255, A: 0}
	colorJoint = color.RGBA{R: 255, G: 0, B: 0, A: 0}
)

// CaptionColor returns the caption color for s: green for gas, red for brake
// and cyan otherwise.
func CaptionColor(s gesture.State) color.RGBA {
	switch s {
	case gesture.Gas:
		return colorGas
	case gesture.Brake:
		return colorBrake
	default:
		return colorNeutral
	}
}

// CaptionText returns the text drawn for s.
func CaptionText(s gesture.State) string {
	return "Status: " + s.Label()
}

// DrawStatus writes the status caption in the top-left corner of frame.
func DrawStatus(frame *gocv.Mat, s gesture.State) {
	if frame == nil || frame.Empty() {
		return
	}
	gocv.PutText(frame, CaptionText(s), captionOrigin, captionFont, captionScale, CaptionColor(s), captionThickness)
}

// DrawHand draws the hand skeleton over frame. Landmarks are normalized, so
// they are scaled to the frame size first.
func DrawHand(frame *gocv.Mat, h *detector.HandLandmarks) {
	if frame == nil || frame.Empty() || h == nil {
		return
	}

	pts := Project(h, frame.Cols(), frame.Rows())
	for _, c := range detector.Connections {
		gocv.Line(frame, pts[c[0]], pts[c[1]], colorBone, 2)
	}
	for _, p := range pts {
		gocv.Circle(frame, p, 4, colorJoint, -1)
	}
}

// Project converts normalized landmarks to pixel coordinates.
func Project(h *detector.HandLandmarks, width, height int) [detector.NumLandmarks]image.Point {
	var pts [detector.NumLandmarks]image.Point
	for i, p := range h.Points {
		pts[i] = image.Pt(int(p.X*float64(width)), int(p.Y*float64(height)))
	}
	return pts
}
