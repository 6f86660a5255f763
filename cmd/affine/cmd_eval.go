package main

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/affine-ml/affine/autodiff"
	"github.com/affine-ml/affine/backend/cpu"
	"github.com/affine-ml/affine/backend/webgpu"
	"github.com/affine-ml/affine/dataset"
	"github.com/affine-ml/affine/internal/config"
	"github.com/affine-ml/affine/nn"
	"github.com/affine-ml/affine/train"
)

func runEval(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = evalSeed
	}
	if flags.Changed("device") {
		cfg.Device = evalDevice
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := buildLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	switch cfg.Device {
	case "gpu":
		gpu, err := webgpu.New()
		if err != nil {
			return fmt.Errorf("device gpu requested: %w", err)
		}
		defer gpu.Release()
		return evalOn(cfg, evalModelPath, autodiff.New(gpu), logger)
	default:
		return evalOn(cfg, evalModelPath, autodiff.New(cpu.New()), logger)
	}
}

// evalOn loads a saved model and measures its loss against a freshly
// generated batch. The batch is seeded independently of training, so the
// reported figure is generalization, not memorization.
func evalOn[B autodiff.BackwardCapable](cfg config.TrainConfig, path string, backend B, logger *slog.Logger) error {
	model := nn.NewLinear(cfg.Model.Inputs, cfg.Model.Outputs, backend)
	header, err := nn.Load(path, backend, model)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	logger.Info("model loaded",
		"path", path,
		"type", header.ModelType,
		"created_at", header.CreatedAt,
		"affine_version", header.AffineVersion)
	if header.Training != nil {
		logger.Info("training provenance",
			"epochs", header.Training.Epochs,
			"final_loss", header.Training.FinalLoss,
			"optimizer", header.Training.Optimizer)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	batch, err := dataset.Linear(dataset.LinearConfig{
		SampleCount: cfg.Data.Samples,
		NoiseLevel:  cfg.Data.Noise,
		Slope:       cfg.Data.Slope,
		Bias:        cfg.Data.Bias,
	}, rng, backend)
	if err != nil {
		return err
	}

	loss, err := train.Evaluate(model, batch, lossByName[B](cfg.Loss), backend)
	if err != nil {
		return err
	}
	logger.Info("evaluation complete", "loss", loss, "samples", batch.Len(), "objective", cfg.Loss)
	fmt.Printf("loss: %.6f\n", loss)
	return nil
}
