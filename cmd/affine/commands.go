package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/affine-ml/affine/internal/config"
	"github.com/affine-ml/affine/internal/logging"
)

// Command-line flags. A flag left at its zero value defers to the config
// file, which in turn defers to config.Default(); overrides are detected
// through cobra's Changed, not by comparing against zero.
var (
	configPath string
	logLevel   string
	logJSON    bool

	trainEpochs    int
	trainLR        float64
	trainOptimizer string
	trainLoss      string
	trainSeed      int64
	trainDevice    string
	trainSamples   int
	trainNoise     float64
	trainSlope     float64
	trainBias      float64
	trainHoldout   float64
	trainFixedBias float64
	trainSavePath  string

	evalModelPath string
	evalSeed      int64
	evalDevice    string

	launchProcs int
	launchEntry string
	launchPrint bool
)

var (
	rootCmd = &cobra.Command{
		Use:   "affine",
		Short: "Train and run linear models on CPU and GPU",
		Long: `affine trains small linear models against generated datasets, on the
local CPU backend or on a WebGPU adapter, and launches per-device training
workers on cluster allocations.`,
		SilenceUsage: true,
	}

	trainCmd = &cobra.Command{
		Use:   "train",
		Short: "Fit a linear model to a generated dataset",
		Args:  cobra.NoArgs,
		RunE:  runTrain, // defined in cmd_train.go
	}

	evalCmd = &cobra.Command{
		Use:   "eval",
		Short: "Evaluate a saved model on freshly generated data",
		Args:  cobra.NoArgs,
		RunE:  runEval, // defined in cmd_eval.go
	}

	launchCmd = &cobra.Command{
		Use:   "launch [-- worker args]",
		Short: "Spawn per-device training workers from a scheduler allocation",
		Args:  cobra.ArbitraryArgs,
		RunE:  runLaunch, // defined in cmd_launch.go
	}

	devicesCmd = &cobra.Command{
		Use:   "devices",
		Short: "List the compute devices this binary can use",
		Args:  cobra.NoArgs,
		RunE:  runDevices, // defined in cmd_devices.go
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the affine version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("affine %s\n", version)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML run configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit logs as JSON lines")

	trainCmd.Flags().IntVar(&trainEpochs, "epochs", 0, "number of training epochs")
	trainCmd.Flags().Float64Var(&trainLR, "lr", 0, "optimizer learning rate")
	trainCmd.Flags().StringVar(&trainOptimizer, "optimizer", "", "optimizer: sgd or adam")
	trainCmd.Flags().StringVar(&trainLoss, "loss", "", "training objective: mse or l1")
	trainCmd.Flags().Int64Var(&trainSeed, "seed", 0, "random seed for data generation")
	trainCmd.Flags().StringVar(&trainDevice, "device", "", "compute device: cpu or gpu")
	trainCmd.Flags().IntVar(&trainSamples, "samples", 0, "number of generated samples")
	trainCmd.Flags().Float64Var(&trainNoise, "noise", 0, "gaussian noise level on the targets")
	trainCmd.Flags().Float64Var(&trainSlope, "slope", 0, "true slope of the generated line")
	trainCmd.Flags().Float64Var(&trainBias, "bias", 0, "true bias of the generated line")
	trainCmd.Flags().Float64Var(&trainHoldout, "holdout", 0, "fraction of samples held out for evaluation")
	trainCmd.Flags().Float64Var(&trainFixedBias, "fixed-bias", 0, "pin the model bias to this constant")
	trainCmd.Flags().StringVar(&trainSavePath, "save", "", "write the trained model to this path")

	evalCmd.Flags().StringVar(&evalModelPath, "model", "", "path to a saved .affine model")
	evalCmd.Flags().Int64Var(&evalSeed, "seed", 0, "random seed for the evaluation batch")
	evalCmd.Flags().StringVar(&evalDevice, "device", "", "compute device: cpu or gpu")
	_ = evalCmd.MarkFlagRequired("model")

	launchCmd.Flags().IntVar(&launchProcs, "nproc-per-node", 0, "workers per node; 0 means one per allocated device")
	launchCmd.Flags().StringVar(&launchEntry, "entry", "", "worker entry point; defaults to this binary")
	launchCmd.Flags().BoolVar(&launchPrint, "print", false, "print the worker command line instead of running it")

	rootCmd.AddCommand(trainCmd, evalCmd, launchCmd, devicesCmd, versionCmd)
}

// loadRunConfig reads the --config file when given, otherwise starts from
// the defaults. Flag overrides are applied by the individual commands.
func loadRunConfig() (config.TrainConfig, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

// buildLogger constructs the command's logger. The --log-level flag wins
// over the config file's level.
func buildLogger(cfgLevel string) (*slog.Logger, error) {
	level := cfgLevel
	if logLevel != "" {
		level = logLevel
	}
	return logging.New(logging.Config{Level: level, JSON: logJSON})
}
