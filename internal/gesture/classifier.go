// Package gesture turns hand landmarks into driving gestures.
package gesture

import "github.com/ayusman/palmdrive/internal/detector"

// State is the driving gesture recognized in a single frame.
type State string

const (
	// Gas is an open palm: accelerate.
	Gas State = "GAS"
	// Brake is a closed fist.
	Brake State = "BRAKE"
	// Neutral covers ambiguous hands and frames with no hand at all.
	Neutral State = "NEUTRAL"
)

// Label returns the caption shown in the debug window.
func (s State) Label() string {
	switch s {
	case Gas:
		return "GAS (GO!)"
	case Brake:
		return "BRAKE (STOP)"
	default:
		return "NEUTRAL"
	}
}

// fingers pairs each non-thumb fingertip with its PIP joint.
var fingers = [4][2]int{
	{detector.IndexTip, detector.IndexPIP},
	{detector.MiddleTip, detector.MiddlePIP},
	{detector.RingTip, detector.RingPIP},
	{detector.PinkyTip, detector.PinkyPIP},
}

// CountExtended returns how many of the index, middle, ring and pinky
// fingers are extended. A finger is extended when its tip is higher in the
// image (smaller Y) than its PIP joint. The thumb is never counted.
func CountExtended(h *detector.HandLandmarks) int {
	if h == nil {
		return 0
	}
	n := 0
	for _, f := range fingers {
		if h.Points[f[0]].Y < h.Points[f[1]].Y {
			n++
		}
	}
	return n
}

// Classify maps a hand to a driving state. A nil hand means nothing was
// detected and is Neutral.
func Classify(h *detector.HandLandmarks) State {
	if h == nil {
		return Neutral
	}
	return FromCount(CountExtended(h))
}

// FromCount applies the open/closed thresholds to an extended-finger count.
func FromCount(n int) State {
	switch {
	case n >= 4:
		return Gas
	case n == 0:
		return Brake
	default:
		return Neutral
	}
}
