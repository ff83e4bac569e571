package gesture

import (
	"testing"

	"github.com/ayusman/palmdrive/internal/detector"
)

func TestCountExtended(t *testing.T) {
	up := [2]float64{0.3, 0.5}
	down := [2]float64{0.6, 0.5}
	level := [2]float64{0.5, 0.5}

	tests := []struct {
		name  string
		pairs [4][2]float64
		want  int
	}{
		{"all up", [4][2]float64{up, up, up, up}, 4},
		{"all down", [4][2]float64{down, down, down, down}, 0},
		{"index only", [4][2]float64{up, down, down, down}, 1},
		{"two up", [4][2]float64{up, up, down, down}, 2},
		{"three up", [4][2]float64{down, up, up, up}, 3},
		{"tip level with joint is not extended", [4][2]float64{level, level, level, level}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := detector.FromTipPIP(tt.pairs)
			if got := CountExtended(&h); got != tt.want {
				t.Errorf("CountExtended() = %d, want %d", got, tt.want)
			}
		})
	}

	t.Run("nil hand", func(t *testing.T) {
		if got := CountExtended(nil); got != 0 {
			t.Errorf("CountExtended(nil) = %d, want 0", got)
		}
	})
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		hand func() detector.HandLandmarks
		want State
	}{
		{
			name: "tips above joints is gas",
			hand: func() detector.HandLandmarks {
				return detector.FromTipPIP([4][2]float64{{0.3, 0.5}, {0.3, 0.5}, {0.3, 0.5}, {0.3, 0.5}})
			},
			want: Gas,
		},
		{
			name: "tips below joints is brake",
			hand: func() detector.HandLandmarks {
				return detector.FromTipPIP([4][2]float64{{0.6, 0.5}, {0.6, 0.5}, {0.6, 0.5}, {0.6, 0.5}})
			},
			want: Brake,
		},
		{
			name: "one finger up is neutral",
			hand: func() detector.HandLandmarks {
				return detector.FromTipPIP([4][2]float64{{0.3, 0.5}, {0.6, 0.5}, {0.6, 0.5}, {0.6, 0.5}})
			},
			want: Neutral,
		},
		{name: "open palm", hand: detector.OpenPalmLandmarks, want: Gas},
		{name: "fist", hand: detector.FistLandmarks, want: Brake},
		{name: "pointing", hand: detector.PointingLandmarks, want: Neutral},
		// The thumb is ignored, so a thumbs up reads as a fist.
		{name: "thumbs up", hand: detector.ThumbsUpLandmarks, want: Brake},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := tt.hand()
			if got := Classify(&h); got != tt.want {
				t.Errorf("Classify() = %s, want %s", got, tt.want)
			}
		})
	}

	t.Run("no hand is neutral", func(t *testing.T) {
		if got := Classify(nil); got != Neutral {
			t.Errorf("Classify(nil) = %s, want %s", got, Neutral)
		}
	})
}

func TestClassify_ThumbDoesNotCount(t *testing.T) {
	h := detector.FromTipPIP([4][2]float64{{0.3, 0.5}, {0.3, 0.5}, {0.3, 0.5}, {0.6, 0.5}})
	// Raise the thumb well above everything else.
	h.Points[detector.ThumbTip].Y = 0.05
	h.Points[detector.ThumbIP].Y = 0.2

	if got := CountExtended(&h); got != 3 {
		t.Errorf("CountExtended() = %d, want 3", got)
	}
	if got := Classify(&h); got != Neutral {
		t.Errorf("Classify() = %s, want %s", got, Neutral)
	}
}

func TestFromCount(t *testing.T) {
	want := map[int]State{0: Brake, 1: Neutral, 2: Neutral, 3: Neutral, 4: Gas, 5: Gas}
	for n, s := range want {
		if got := FromCount(n); got != s {
			t.Errorf("FromCount(%d) = %s, want %s", n, got, s)
		}
	}
}

func TestState_Label(t *testing.T) {
	tests := map[State]string{
		Gas:     "GAS (GO!)",
		Brake:   "BRAKE (STOP)",
		Neutral: "NEUTRAL",
		"":      "NEUTRAL",
	}
	for s, want := range tests {
		if got := s.Label(); got != want {
			t.Errorf("%q.Label() = %q, want %q", s, got, want)
		}
	}
}
