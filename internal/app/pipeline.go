package app

import (
	"context"
	"fmt"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/palmdrive/internal/actuator"
	"github.com/ayusman/palmdrive/internal/capture"
	"github.com/ayusman/palmdrive/internal/detector"
	"github.com/ayusman/palmdrive/internal/display"
	"github.com/ayusman/palmdrive/internal/gesture"
)

// waitKeyMillis is how long each iteration pumps the window event loop.
const waitKeyMillis = 1

// Summary describes a finished Run.
type Summary struct {
	Reason      ExitReason
	Frames      int
	Transitions int
	Latency     Latency
}

// Run drives the loop until the quit key, cancellation, a camera failure or
// an actuator error. Each iteration:
//
//  1. checks ctx
//  2. reads a frame (a failure ends the loop with ExitCaptureFailed)
//  3. mirrors it if configured
//  4. detects the primary hand, unless paused
//  5. classifies it and applies the state to the keys
//  6. draws the overlay, publishes and shows the frame, and polls the quit key
//
// Both keys are released on every exit path. Only actuator failures are
// returned as errors.
func (a *App) Run(ctx context.Context) (summary Summary, err error) {
	if !a.config.Camera.IsOpen() {
		if err := a.config.Camera.Open(); err != nil {
			return summary, fmt.Errorf("open camera: %w", err)
		}
	}

	jr := a.beginJournal()
	state := actuator.None
	var latencies []float64

	defer func() {
		if rerr := actuator.ReleaseAll(a.config.Actuator, a.config.Keys); rerr != nil {
			a.logger.Error("failed to release keys", "err", rerr)
			if err == nil {
				err = rerr
			}
		}
		a.updateStatus(func(s *Status) {
			s.State = gesture.Neutral
			s.Hand = false
		})

		summary.Latency = computeLatency(latencies)
		jr.finish(summary)

		a.logger.Info("control loop stopped",
			"reason", summary.Reason,
			"frames", summary.Frames,
			"transitions", summary.Transitions,
			"latency_mean", summary.Latency.Mean,
			"latency_stddev", summary.Latency.StdDev,
		)
	}()

	for {
		select {
		case <-ctx.Done():
			summary.Reason = ExitCancelled
			return summary, nil
		default:
		}

		start := time.Now()

		frame, rerr := a.config.Camera.ReadFrame()
		if rerr != nil {
			a.logger.Info("camera stopped delivering frames", "err", rerr)
			summary.Reason = ExitCaptureFailed
			return summary, nil
		}
		summary.Frames++

		next, quit, serr := a.step(frame, state, &summary, jr)
		frame.Close()
		state = next

		latencies = append(latencies, float64(time.Since(start))/float64(time.Millisecond))

		if serr != nil {
			summary.Reason = ExitActuatorFailed
			return summary, serr
		}
		if quit {
			summary.Reason = ExitQuit
			return summary, nil
		}
	}
}

// step handles one frame and returns the applied state and whether the quit
// key was pressed.
func (a *App) step(frame *gocv.Mat, prev actuator.State, summary *Summary, jr *journal) (actuator.State, bool, error) {
	if a.config.Mirror {
		capture.Mirror(frame)
	}

	hand := a.detect(frame)
	next := gesture.Classify(hand)
	fingers := gesture.CountExtended(hand)

	applied, err := actuator.Apply(a.config.Actuator, a.config.Keys, prev, next)
	if applied != prev {
		summary.Transitions++
		t := Transition{
			Seq:     summary.Transitions,
			From:    prev,
			To:      applied,
			Fingers: fingers,
			At:      time.Now(),
		}
		a.logger.Info("gesture changed", "from", t.From, "to", t.To, "fingers", t.Fingers)
		jr.record(t)
		for _, o := range a.observers {
			o.ObserveTransition(t)
		}
	}

	a.updateStatus(func(s *Status) {
		s.State = applied
		s.Fingers = fingers
		s.Hand = hand != nil
		s.Frames = summary.Frames
	})

	if err != nil {
		return applied, false, fmt.Errorf("apply %s: %w", next, err)
	}

	if hand != nil {
		display.DrawHand(frame, hand)
	}
	display.DrawStatus(frame, applied)

	for _, s := range a.sinks {
		s.ObserveFrame(frame)
	}

	a.config.Display.Show(frame)
	key := a.config.Display.WaitKey(waitKeyMillis)

	return applied, display.IsKey(key, a.config.QuitKey), nil
}

// detect returns the primary hand in frame, or nil when detection is paused,
// no hand is visible or the detector failed.
func (a *App) detect(frame *gocv.Mat) *detector.HandLandmarks {
	if !a.IsEnabled() {
		return nil
	}

	hands, err := a.config.Detector.Detect(frame)
	if err != nil {
		a.logger.Debug("dropped frame", "err", err)
		return nil
	}
	return detector.Primary(hands)
}
