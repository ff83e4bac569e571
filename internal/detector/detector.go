package detector

import "gocv.io/x/gocv"

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected hand landmarks.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 1).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// Python is the interpreter used to run the MediaPipe service.
	// Empty means a project virtualenv if one is found, otherwise python3.
	Python string

	// Script is the path to mediapipe_service.py. Empty means search the
	// usual locations.
	Script string
}

// DefaultConfig returns a Config tuned for a single steering hand.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.7,
		MinTrackingConf: 0.5,
	}
}

// Primary picks the hand the controller should follow: the highest-scoring
// detection, or nil when no hand is visible.
func Primary(hands []HandLandmarks) *HandLandmarks {
	if len(hands) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(hands); i++ {
		if hands[i].Score > hands[best].Score {
			best = i
		}
	}
	h := hands[best]
	return &h
}
