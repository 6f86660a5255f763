package train

// History holds the loss reported at the end of each epoch, in training
// order. Fit returns one per run.
type History struct {
	losses []float64
}

func (h *History) record(loss float64) {
	h.losses = append(h.losses, loss)
}

// Len returns the number of recorded epochs.
func (h *History) Len() int {
	return len(h.losses)
}

// Losses returns a copy of the per-epoch losses.
func (h *History) Losses() []float64 {
	out := make([]float64, len(h.losses))
	copy(out, h.losses)
	return out
}

// Initial returns the loss after the first epoch. Panics if the history is
// empty.
func (h *History) Initial() float64 {
	return h.losses[0]
}

// Final returns the loss after the last epoch. Panics if the history is
// empty.
func (h *History) Final() float64 {
	return h.losses[len(h.losses)-1]
}

// NonIncreasing reports whether each epoch's loss is at most the previous
// epoch's loss plus slack. A small slack absorbs float32 round-off on runs
// that are monotone in exact arithmetic.
func (h *History) NonIncreasing(slack float64) bool {
	for i := 1; i < len(h.losses); i++ {
		if h.losses[i] > h.losses[i-1]+slack {
			return false
		}
	}
	return true
}
