// Copyright 2025 The Affine Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package train provides the training loop and evaluation for affine models.
//
// A Trainer owns one full-batch gradient-descent run: it drives the
// forward pass, backward pass and optimizer step for a fixed number of
// epochs, collecting the per-epoch loss into a History.
//
// Example:
//
//	import (
//	    "github.com/affine-ml/affine/autodiff"
//	    "github.com/affine-ml/affine/backend/cpu"
//	    "github.com/affine-ml/affine/nn"
//	    "github.com/affine-ml/affine/optim"
//	    "github.com/affine-ml/affine/train"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//	    model := nn.NewLinear(1, 1, backend)
//	    loss := nn.NewMSELoss[*autodiff.Backend[*cpu.Backend]]()
//	    optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.1}, backend)
//
//	    trainer, err := train.NewTrainer(model, loss, optimizer, backend, train.Config{
//	        Epochs:   20,
//	        LogEvery: 5,
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    history, err := trainer.Fit(batch)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Printf("loss %.4f -> %.4f\n", history.Initial(), history.Final())
//	}
package train

import (
	"github.com/affine-ml/affine/internal/autodiff"
	"github.com/affine-ml/affine/internal/dataset"
	"github.com/affine-ml/affine/internal/nn"
	"github.com/affine-ml/affine/internal/optim"
	"github.com/affine-ml/affine/internal/train"
)

// ErrNotIdle is returned by Fit when the trainer has already run. Call
// Reset after a completed run to rearm it.
var ErrNotIdle = train.ErrNotIdle

// Phase is the lifecycle state of a Trainer: idle, running, done.
type Phase = train.Phase

// Trainer lifecycle phases.
const (
	PhaseIdle    = train.PhaseIdle
	PhaseRunning = train.PhaseRunning
	PhaseDone    = train.PhaseDone
)

// Config controls a training run.
type Config = train.Config

// Trainer drives full-batch gradient descent over a fixed number of epochs.
type Trainer[B autodiff.BackwardCapable] = train.Trainer[B]

// NewTrainer creates a trainer from a model, a loss, an optimizer and the
// backend they share. Returns an error when any component is nil or the
// config asks for no epochs.
func NewTrainer[B autodiff.BackwardCapable](model nn.Module[B], loss nn.Loss[B], optimizer optim.Optimizer, backend B, cfg Config) (*Trainer[B], error) {
	return train.NewTrainer(model, loss, optimizer, backend, cfg)
}

// History is the per-epoch loss trace of a completed run.
type History = train.History

// Evaluate computes the loss of a model on a batch without touching
// gradients: recording is suspended for the duration and restored after.
func Evaluate[B autodiff.BackwardCapable](model nn.Module[B], batch *dataset.Batch[B], loss nn.Loss[B], backend B) (float64, error) {
	return train.Evaluate(model, batch, loss, backend)
}
