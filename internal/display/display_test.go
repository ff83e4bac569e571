package display

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/ayusman/palmdrive/internal/detector"
	"github.com/ayusman/palmdrive/internal/gesture"
)

func TestCaptionColor(t *testing.T) {
	tests := []struct {
		state gesture.State
		want  color.RGBA
	}{
		{gesture.Gas, color.RGBA{G: 255}},
		{gesture.Brake, color.RGBA{R: 255}},
		{gesture.Neutral, color.RGBA{G: 255, B: 255}},
		{"", color.RGBA{G: 255, B: 255}},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			assert.Equal(t, tt.want, CaptionColor(tt.state))
		})
	}
}

func TestCaptionText(t *testing.T) {
	assert.Equal(t, "Status: GAS (GO!)", CaptionText(gesture.Gas))
	assert.Equal(t, "Status: BRAKE (STOP)", CaptionText(gesture.Brake))
	assert.Equal(t, "Status: NEUTRAL", CaptionText(gesture.Neutral))
}

func TestIsKey(t *testing.T) {
	assert.True(t, IsKey('q', 'q'))
	assert.True(t, IsKey(0x100000|'q', 'q'))
	assert.False(t, IsKey('w', 'q'))
	assert.False(t, IsKey(NoKey, 'q'))
}

func TestHeadless(t *testing.T) {
	h := NewHeadless()

	assert.Equal(t, NoKey, h.WaitKey(1))

	h.Press('a')
	h.Press('q')
	assert.Equal(t, int('a'), h.WaitKey(1))
	assert.Equal(t, int('q'), h.WaitKey(1))
	assert.Equal(t, NoKey, h.WaitKey(1))

	frame := gocv.NewMatWithSize(10, 10, gocv.MatTypeCV8UC3)
	defer frame.Close()
	h.Show(&frame)
	h.Show(&frame)
	assert.Equal(t, 2, h.Shown())

	require.NoError(t, h.Close())
	assert.True(t, h.Closed())
}

func TestProject(t *testing.T) {
	h := detector.OpenPalmLandmarks()
	pts := Project(&h, 640, 480)

	wrist := h.Points[detector.Wrist]
	assert.Equal(t, image.Pt(int(wrist.X*640), int(wrist.Y*480)), pts[detector.Wrist])
	for i, p := range pts {
		assert.True(t, p.In(image.Rect(0, 0, 641, 481)), "landmark %d out of frame: %v", i, p)
	}
}

func TestDrawHand(t *testing.T) {
	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	h := detector.OpenPalmLandmarks()
	DrawHand(&frame, &h)

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)
	assert.Positive(t, gocv.CountNonZero(gray), "skeleton should draw pixels")
}

func TestDrawHand_NoHand(t *testing.T) {
	frame := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	defer frame.Close()

	DrawHand(&frame, nil)

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)
	assert.Zero(t, gocv.CountNonZero(gray))
}

func TestDrawStatus(t *testing.T) {
	frame := gocv.NewMatWithSize(120, 480, gocv.MatTypeCV8UC3)
	defer frame.Close()

	DrawStatus(&frame, gesture.Brake)

	// Red caption: only the red channel (index 2 in BGR) carries ink.
	channels := gocv.Split(frame)
	defer func() {
		for _, c := range channels {
			c.Close()
		}
	}()
	require.Len(t, channels, 3)
	assert.Zero(t, gocv.CountNonZero(channels[0]))
	assert.Zero(t, gocv.CountNonZero(channels[1]))
	assert.Positive(t, gocv.CountNonZero(channels[2]))
}

func TestDrawStatus_EmptyFrame(t *testing.T) {
	DrawStatus(nil, gesture.Gas)

	empty := gocv.NewMat()
	defer empty.Close()
	DrawStatus(&empty, gesture.Gas)
	assert.True(t, empty.Empty())
}
