// Package metrics provides a small sliding-window aggregator for throughput
// accounting during training.
package metrics

import "time"

// Window aggregates (sample count, duration) observations over the most
// recent N additions, so reported throughput reflects current speed rather
// than the whole run.
//
// Durations come from the caller; the window never reads the clock itself,
// which keeps it deterministic under test. Not safe for concurrent use.
type Window struct {
	samples []sample
	next    int
	filled  int
}

type sample struct {
	count   int
	elapsed time.Duration
}

// Snapshot is a point-in-time summary of the window.
type Snapshot struct {
	// Count is the total number of samples represented in the window.
	Count int
	// PerSec is the sample throughput over the windowed durations.
	PerSec float64
	// AvgMS is the mean duration per observation in milliseconds.
	AvgMS float64
}

// NewWindow creates a window retaining the last capacity observations.
// Capacities below one fall back to a single-slot window.
func NewWindow(capacity int) *Window {
	if capacity < 1 {
		capacity = 1
	}
	return &Window{samples: make([]sample, capacity)}
}

// Add records that count samples were processed in elapsed time. The oldest
// observation is dropped once the window is full.
func (w *Window) Add(count int, elapsed time.Duration) {
	w.samples[w.next] = sample{count: count, elapsed: elapsed}
	w.next = (w.next + 1) % len(w.samples)
	if w.filled < len(w.samples) {
		w.filled++
	}
}

// Snapshot summarizes the retained observations. An empty window reports
// zeros.
func (w *Window) Snapshot() Snapshot {
	if w.filled == 0 {
		return Snapshot{}
	}

	var count int
	var elapsed time.Duration
	for i := 0; i < w.filled; i++ {
		count += w.samples[i].count
		elapsed += w.samples[i].elapsed
	}

	snap := Snapshot{
		Count: count,
		AvgMS: float64(elapsed) / float64(time.Millisecond) / float64(w.filled),
	}
	if elapsed > 0 {
		snap.PerSec = float64(count) / elapsed.Seconds()
	}
	return snap
}

// Reset discards all observations.
func (w *Window) Reset() {
	w.next = 0
	w.filled = 0
}
