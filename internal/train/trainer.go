// Package train runs the synchronous training loop: forward pass, loss,
// backward pass, optimizer step, once per epoch over a full batch.
//
// The loop is deliberately single-threaded. Scaling out happens by running
// one process per device under an external launcher (see the launch
// package), never by spreading epochs across goroutines.
package train

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/affine-ml/affine/internal/autodiff"
	"github.com/affine-ml/affine/internal/dataset"
	"github.com/affine-ml/affine/internal/metrics"
	"github.com/affine-ml/affine/internal/nn"
	"github.com/affine-ml/affine/internal/optim"
)

// ErrNotIdle is returned by Fit when the trainer has already run. Call
// Reset to train again.
var ErrNotIdle = errors.New("trainer is not idle")

// Phase is the lifecycle state of a Trainer.
type Phase int

const (
	// PhaseIdle means the trainer has not run yet; Fit may be called.
	PhaseIdle Phase = iota
	// PhaseRunning means Fit is executing epochs.
	PhaseRunning
	// PhaseDone means Fit completed; Reset returns the trainer to idle.
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseDone:
		return "done"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// throughputWindow is how many recent epochs feed the samples/sec figure.
const throughputWindow = 16

// Config controls a training run.
type Config struct {
	// Epochs is the number of full passes over the batch. Required, > 0.
	Epochs int

	// LogEvery emits a progress line every N epochs. The final epoch is
	// always logged; zero disables the intermediate lines.
	LogEvery int

	// Logger receives progress lines. Defaults to slog.Default().
	Logger *slog.Logger
}

// Trainer owns one training run over a dataset batch. It is single-use:
// after Fit completes the trainer reports PhaseDone and refuses further
// runs until Reset.
//
// The trainer drives the gradient tape but delegates the actual gradient
// computation to the autodiff backend and the parameter updates to the
// optimizer; it never touches parameter data itself.
type Trainer[B autodiff.BackwardCapable] struct {
	model     nn.Module[B]
	loss      nn.Loss[B]
	optimizer optim.Optimizer
	backend   B
	cfg       Config

	phase  Phase
	window *metrics.Window
	logger *slog.Logger
}

// NewTrainer wires a model, loss, and optimizer into a training loop. All
// collaborators are injected; the trainer reads no global state.
func NewTrainer[B autodiff.BackwardCapable](model nn.Module[B], loss nn.Loss[B], optimizer optim.Optimizer, backend B, cfg Config) (*Trainer[B], error) {
	if model == nil {
		return nil, errors.New("train: model is nil")
	}
	if loss == nil {
		return nil, errors.New("train: loss is nil")
	}
	if optimizer == nil {
		return nil, errors.New("train: optimizer is nil")
	}
	if cfg.Epochs <= 0 {
		return nil, fmt.Errorf("train: epochs must be positive, got %d", cfg.Epochs)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Trainer[B]{
		model:     model,
		loss:      loss,
		optimizer: optimizer,
		backend:   backend,
		cfg:       cfg,
		phase:     PhaseIdle,
		window:    metrics.NewWindow(throughputWindow),
		logger:    logger,
	}, nil
}

// Phase reports where the trainer is in its lifecycle.
func (t *Trainer[B]) Phase() Phase {
	return t.phase
}

// Fit runs the configured number of epochs over batch and returns the
// per-epoch loss history. Each epoch clears accumulated gradients and the
// tape, runs the forward pass and loss with recording on, backpropagates,
// and applies one optimizer step.
//
// Fit blocks until all epochs complete. A shape mismatch between the batch
// and the model panics: it is a configuration error, not a runtime
// condition to recover from.
func (t *Trainer[B]) Fit(batch *dataset.Batch[B]) (*History, error) {
	if t.phase != PhaseIdle {
		return nil, fmt.Errorf("%w: phase is %s", ErrNotIdle, t.phase)
	}
	if batch == nil {
		return nil, errors.New("train: batch is nil")
	}

	t.phase = PhaseRunning

	tape := t.backend.GetTape()
	tape.StartRecording()
	defer tape.StopRecording()

	history := &History{losses: make([]float64, 0, t.cfg.Epochs)}

	for epoch := 1; epoch <= t.cfg.Epochs; epoch++ {
		start := time.Now()

		t.optimizer.ZeroGrad()
		tape.Clear()

		predictions := t.model.Forward(batch.Inputs)
		epochLoss := t.loss.Forward(predictions, batch.Targets)

		grads := autodiff.Backward(epochLoss, t.backend)
		t.optimizer.Step(grads)

		lossValue := float64(epochLoss.Item())
		history.record(lossValue)
		t.window.Add(batch.Len(), time.Since(start))

		if t.shouldLog(epoch) {
			t.logger.Info("epoch complete",
				"epoch", epoch,
				"epochs", t.cfg.Epochs,
				"loss", lossValue,
				"samples_per_sec", t.window.Snapshot().PerSec,
			)
		}
	}

	tape.Clear()
	t.phase = PhaseDone
	return history, nil
}

func (t *Trainer[B]) shouldLog(epoch int) bool {
	if epoch == t.cfg.Epochs {
		return true
	}
	return t.cfg.LogEvery > 0 && epoch%t.cfg.LogEvery == 0
}

// Reset rearms a finished trainer so Fit can run again, for example after
// lowering the learning rate. Model parameters and optimizer state keep the
// values the previous run left them with.
func (t *Trainer[B]) Reset() {
	if t.phase == PhaseDone {
		t.phase = PhaseIdle
	}
}
