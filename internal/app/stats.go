package app

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// Latency summarizes per-frame processing time.
type Latency struct {
	Samples int
	Mean    time.Duration
	StdDev  time.Duration
	Max     time.Duration
}

// computeLatency summarizes samples given in milliseconds.
func computeLatency(ms []float64) Latency {
	if len(ms) == 0 {
		return Latency{}
	}

	l := Latency{Samples: len(ms)}

	mean, std := stat.MeanStdDev(ms, nil)
	l.Mean = millis(mean)
	if len(ms) > 1 {
		l.StdDev = millis(std)
	}

	peak := ms[0]
	for _, v := range ms[1:] {
		if v > peak {
			peak = v
		}
	}
	l.Max = millis(peak)

	return l
}

func millis(v float64) time.Duration {
	return time.Duration(v * float64(time.Millisecond))
}
