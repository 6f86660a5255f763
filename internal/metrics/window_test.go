package metrics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/affine-ml/affine/internal/metrics"
)

func TestWindow_Empty(t *testing.T) {
	w := metrics.NewWindow(4)

	snap := w.Snapshot()
	assert.Equal(t, 0, snap.Count)
	assert.Equal(t, 0.0, snap.PerSec)
	assert.Equal(t, 0.0, snap.AvgMS)
}

func TestWindow_SingleObservation(t *testing.T) {
	w := metrics.NewWindow(4)
	w.Add(300, 500*time.Millisecond)

	snap := w.Snapshot()
	assert.Equal(t, 300, snap.Count)
	assert.InDelta(t, 600.0, snap.PerSec, 1e-9)
	assert.InDelta(t, 500.0, snap.AvgMS, 1e-9)
}

func TestWindow_AveragesAcrossObservations(t *testing.T) {
	w := metrics.NewWindow(4)
	w.Add(100, 100*time.Millisecond)
	w.Add(100, 300*time.Millisecond)

	snap := w.Snapshot()
	assert.Equal(t, 200, snap.Count)
	// 200 samples over 0.4s.
	assert.InDelta(t, 500.0, snap.PerSec, 1e-9)
	assert.InDelta(t, 200.0, snap.AvgMS, 1e-9)
}

func TestWindow_DropsOldestWhenFull(t *testing.T) {
	w := metrics.NewWindow(2)
	w.Add(1000, time.Second)
	w.Add(10, 100*time.Millisecond)
	w.Add(10, 100*time.Millisecond)

	// The 1000-sample observation has been evicted.
	snap := w.Snapshot()
	assert.Equal(t, 20, snap.Count)
	assert.InDelta(t, 100.0, snap.PerSec, 1e-9)
}

func TestWindow_CapacityFloor(t *testing.T) {
	w := metrics.NewWindow(0)
	w.Add(5, 50*time.Millisecond)
	w.Add(7, 70*time.Millisecond)

	// Capacity clamps to one slot, so only the last observation survives.
	snap := w.Snapshot()
	assert.Equal(t, 7, snap.Count)
	assert.InDelta(t, 70.0, snap.AvgMS, 1e-9)
}

func TestWindow_Reset(t *testing.T) {
	w := metrics.NewWindow(4)
	w.Add(100, time.Second)
	w.Reset()

	assert.Equal(t, metrics.Snapshot{}, w.Snapshot())

	w.Add(10, 100*time.Millisecond)
	assert.Equal(t, 10, w.Snapshot().Count)
}

func TestWindow_ZeroDuration(t *testing.T) {
	w := metrics.NewWindow(2)
	w.Add(10, 0)

	// No elapsed time means throughput is undefined; report zero, not Inf.
	snap := w.Snapshot()
	assert.Equal(t, 10, snap.Count)
	assert.Equal(t, 0.0, snap.PerSec)
}
