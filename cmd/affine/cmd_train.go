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
	"github.com/affine-ml/affine/internal/checkpoint"
	"github.com/affine-ml/affine/internal/config"
	"github.com/affine-ml/affine/nn"
	"github.com/affine-ml/affine/optim"
	"github.com/affine-ml/affine/train"
)

// trainLogEvery throttles the trainer's per-epoch progress lines.
const trainLogEvery = 5

// fitTolerance is how close the recovered coefficients must land for the
// fixed-bias verification to pass. Generous enough for noisy data, tight
// enough to catch a run that never converged.
const fitTolerance = 0.1

func runTrain(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}
	applyTrainFlags(cmd, &cfg)
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
		logger.Info("using gpu backend", "adapter", gpu.Adapter().Name)
		return trainOn(cfg, autodiff.New(gpu), logger)
	default:
		return trainOn(cfg, autodiff.New(cpu.New()), logger)
	}
}

// applyTrainFlags writes flag values over cfg, but only for flags the user
// actually set.
func applyTrainFlags(cmd *cobra.Command, cfg *config.TrainConfig) {
	flags := cmd.Flags()
	if flags.Changed("epochs") {
		cfg.Epochs = trainEpochs
	}
	if flags.Changed("lr") {
		cfg.Optim.LR = trainLR
	}
	if flags.Changed("optimizer") {
		cfg.Optim.Name = trainOptimizer
	}
	if flags.Changed("loss") {
		cfg.Loss = trainLoss
	}
	if flags.Changed("seed") {
		cfg.Seed = trainSeed
	}
	if flags.Changed("device") {
		cfg.Device = trainDevice
	}
	if flags.Changed("samples") {
		cfg.Data.Samples = trainSamples
	}
	if flags.Changed("noise") {
		cfg.Data.Noise = trainNoise
	}
	if flags.Changed("slope") {
		cfg.Data.Slope = trainSlope
	}
	if flags.Changed("bias") {
		cfg.Data.Bias = trainBias
	}
	if flags.Changed("holdout") {
		cfg.Holdout = trainHoldout
	}
	if flags.Changed("fixed-bias") {
		v := trainFixedBias
		cfg.Model.FixedBias = &v
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
}

// trainOn runs the full training pipeline on an already-constructed backend:
// generate data, split, fit, evaluate the holdout, verify the fixed-bias
// exercise, and optionally save the result.
func trainOn[B autodiff.BackwardCapable](cfg config.TrainConfig, backend B, logger *slog.Logger) error {
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

	trainBatch := batch
	var holdout *dataset.Batch[B]
	if cfg.Holdout > 0 {
		trainBatch, holdout, err = batch.Split(1 - cfg.Holdout)
		if err != nil {
			return err
		}
	}
	logger.Info("dataset ready",
		"train_samples", trainBatch.Len(),
		"holdout_samples", batch.Len()-trainBatch.Len(),
		"slope", cfg.Data.Slope,
		"bias", cfg.Data.Bias,
		"noise", cfg.Data.Noise)

	var model *nn.Linear[B]
	if cfg.Model.FixedBias != nil {
		model = nn.NewLinearFixedBias(cfg.Model.Inputs, cfg.Model.Outputs, float32(*cfg.Model.FixedBias), backend)
	} else {
		model = nn.NewLinear(cfg.Model.Inputs, cfg.Model.Outputs, backend)
	}

	trainer, err := train.NewTrainer(model, lossByName[B](cfg.Loss), optimizerByName(cfg, model, backend), backend, train.Config{
		Epochs:   cfg.Epochs,
		LogEvery: trainLogEvery,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	history, err := trainer.Fit(trainBatch)
	if err != nil {
		return err
	}
	logger.Info("training complete",
		"epochs", history.Len(),
		"initial_loss", history.Initial(),
		"final_loss", history.Final())

	if holdout != nil {
		holdoutLoss, err := train.Evaluate(model, holdout, lossByName[B](cfg.Loss), backend)
		if err != nil {
			return err
		}
		logger.Info("holdout evaluation", "loss", holdoutLoss, "samples", holdout.Len())
	}

	if cfg.Model.FixedBias != nil && cfg.Model.Inputs == 1 && cfg.Model.Outputs == 1 {
		err := nn.VerifyAffineFit(model, float32(cfg.Data.Slope), float32(*cfg.Model.FixedBias), fitTolerance)
		if err != nil {
			return fmt.Errorf("fixed-bias fit verification failed: %w", err)
		}
		logger.Info("fixed-bias fit verified",
			"weight", cfg.Data.Slope,
			"bias", *cfg.Model.FixedBias,
			"tolerance", fitTolerance)
	}

	if trainSavePath != "" {
		if err := saveModel(trainSavePath, model, cfg, history); err != nil {
			return err
		}
		logger.Info("model saved", "path", trainSavePath)
	}
	return nil
}

// saveModel writes the trained parameters with full training provenance in
// the header, which `affine eval` reports back when loading.
func saveModel[B autodiff.BackwardCapable](path string, model *nn.Linear[B], cfg config.TrainConfig, history *train.History) error {
	writer, err := checkpoint.NewWriter(path)
	if err != nil {
		return err
	}
	defer writer.Close()

	return writer.WriteStateDictHeader(model.StateDict(), checkpoint.Header{
		ModelType: "Linear",
		Metadata: map[string]string{
			"device": cfg.Device,
			"seed":   fmt.Sprint(cfg.Seed),
		},
		Training: &checkpoint.TrainingMeta{
			Epochs:    cfg.Epochs,
			FinalLoss: history.Final(),
			Optimizer: cfg.Optim.Name,
		},
	})
}

func lossByName[B autodiff.BackwardCapable](name string) nn.Loss[B] {
	if name == "l1" {
		return nn.NewL1Loss[B]()
	}
	return nn.NewMSELoss[B]()
}

func optimizerByName[B autodiff.BackwardCapable](cfg config.TrainConfig, model *nn.Linear[B], backend B) optim.Optimizer {
	if cfg.Optim.Name == "adam" {
		return optim.NewAdam(model.Parameters(), optim.AdamConfig{
			LR:    float32(cfg.Optim.LR),
			Betas: [2]float32{float32(cfg.Optim.Beta1), float32(cfg.Optim.Beta2)},
			Eps:   float32(cfg.Optim.Eps),
		}, backend)
	}
	return optim.NewSGD(model.Parameters(), optim.SGDConfig{
		LR:       float32(cfg.Optim.LR),
		Momentum: float32(cfg.Optim.Momentum),
	}, backend)
}
