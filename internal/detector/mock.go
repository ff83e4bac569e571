package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands    []HandLandmarks
	sequence [][]HandLandmarks
	err      error
	calls    int
	closed   bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by every Detect call.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetSequence scripts the result of successive Detect calls. Once the
// sequence is exhausted Detect falls back to the hands set by SetHands.
// A nil entry means no hand in that frame.
func (m *MockDetector) SetSequence(seq [][]HandLandmarks) {
	m.sequence = seq
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.sequence) > 0 {
		next := m.sequence[0]
		m.sequence = m.sequence[1:]
		return next, nil
	}
	return m.hands, nil
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	return m.calls
}

// Closed reports whether Close has been called.
func (m *MockDetector) Closed() bool {
	return m.closed
}

// Close marks the detector closed.
func (m *MockDetector) Close() error {
	m.closed = true
	return nil
}

// FromTipPIP builds a hand whose four finger tips and PIP joints have the
// given vertical coordinates, in index, middle, ring, pinky order. Each pair
// is {tipY, pipY}. All other joints sit in a neutral palm layout.
func FromTipPIP(pairs [4][2]float64) HandLandmarks {
	h := OpenPalmLandmarks()
	tips := [4]int{IndexTip, MiddleTip, RingTip, PinkyTip}
	pips := [4]int{IndexPIP, MiddlePIP, RingPIP, PinkyPIP}
	for i := range pairs {
		h.Points[tips[i]].Y = pairs[i][0]
		h.Points[pips[i]].Y = pairs[i][1]
	}
	return h
}

// ThumbsUpLandmarks returns a preset HandLandmarks representing a thumbs up gesture.
// The thumb is extended upward while other fingers are curled.
func ThumbsUpLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	// Wrist at origin
	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended upward (pointing up, Y decreases going up)
	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.0}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.65, Z: 0.0}
	landmarks.Points[ThumbIP] = Point3D{X: 0.58, Y: 0.50, Z: 0.0}
	landmarks.Points[ThumbTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	// Index finger curled (knuckles close together, tip near palm)
	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.70, Z: -0.02}
	landmarks.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.68, Z: -0.05}
	landmarks.Points[IndexDIP] = Point3D{X: 0.52, Y: 0.70, Z: -0.04}
	landmarks.Points[IndexTip] = Point3D{X: 0.50, Y: 0.72, Z: -0.02}

	// Middle finger curled
	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.68, Z: -0.02}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.66, Z: -0.05}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.47, Y: 0.68, Z: -0.04}
	landmarks.Points[MiddleTip] = Point3D{X: 0.45, Y: 0.70, Z: -0.02}

	// Ring finger curled
	landmarks.Points[RingMCP] = Point3D{X: 0.45, Y: 0.70, Z: -0.02}
	landmarks.Points[RingPIP] = Point3D{X: 0.45, Y: 0.68, Z: -0.05}
	landmarks.Points[RingDIP] = Point3D{X: 0.42, Y: 0.70, Z: -0.04}
	landmarks.Points[RingTip] = Point3D{X: 0.40, Y: 0.72, Z: -0.02}

	// Pinky finger curled
	landmarks.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.72, Z: -0.02}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.40, Y: 0.70, Z: -0.05}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.37, Y: 0.72, Z: -0.04}
	landmarks.Points[PinkyTip] = Point3D{X: 0.35, Y: 0.74, Z: -0.02}

	return landmarks
}

// OpenPalmLandmarks returns a preset HandLandmarks representing an open palm gesture.
// All fingers are extended outward.
func OpenPalmLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	// Wrist at base
	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended to the side
	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	landmarks.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	landmarks.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	// Index finger extended upward
	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	landmarks.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	landmarks.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	landmarks.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	// Middle finger extended upward (slightly longer)
	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	landmarks.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	// Ring finger extended upward
	landmarks.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	landmarks.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	landmarks.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	landmarks.Points[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	// Pinky finger extended upward
	landmarks.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	landmarks.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return landmarks
}

// FistLandmarks returns a preset HandLandmarks representing a closed fist.
// Every fingertip is folded below its PIP joint; the thumb wraps the fingers.
func FistLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.93,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	landmarks.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.76, Z: -0.01}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.60, Y: 0.70, Z: -0.03}
	landmarks.Points[ThumbIP] = Point3D{X: 0.57, Y: 0.66, Z: -0.05}
	landmarks.Points[ThumbTip] = Point3D{X: 0.53, Y: 0.65, Z: -0.06}

	landmarks.Points[IndexMCP] = Point3D{X: 0.56, Y: 0.62, Z: -0.02}
	landmarks.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.57, Z: -0.06}
	landmarks.Points[IndexDIP] = Point3D{X: 0.55, Y: 0.62, Z: -0.07}
	landmarks.Points[IndexTip] = Point3D{X: 0.54, Y: 0.65, Z: -0.05}

	landmarks.Points[MiddleMCP] = Point3D{X: 0.51, Y: 0.61, Z: -0.02}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.51, Y: 0.56, Z: -0.06}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.61, Z: -0.07}
	landmarks.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.64, Z: -0.05}

	landmarks.Points[RingMCP] = Point3D{X: 0.46, Y: 0.62, Z: -0.02}
	landmarks.Points[RingPIP] = Point3D{X: 0.46, Y: 0.58, Z: -0.06}
	landmarks.Points[RingDIP] = Point3D{X: 0.46, Y: 0.62, Z: -0.07}
	landmarks.Points[RingTip] = Point3D{X: 0.46, Y: 0.65, Z: -0.05}

	landmarks.Points[PinkyMCP] = Point3D{X: 0.42, Y: 0.65, Z: -0.02}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.42, Y: 0.61, Z: -0.05}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.42, Y: 0.64, Z: -0.06}
	landmarks.Points[PinkyTip] = Point3D{X: 0.42, Y: 0.67, Z: -0.04}

	return landmarks
}

// PointingLandmarks returns a preset HandLandmarks with only the index
// finger extended.
func PointingLandmarks() HandLandmarks {
	landmarks := FistLandmarks()
	landmarks.Score = 0.91

	landmarks.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.50, Z: 0.0}
	landmarks.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.41, Z: 0.0}
	landmarks.Points[IndexTip] = Point3D{X: 0.58, Y: 0.33, Z: 0.0}

	return landmarks
}
