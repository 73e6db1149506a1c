package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries state shared by every subcommand.
type app struct {
	verbose bool
	logger  *zap.Logger
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "sgwb",
		Short: "Cosmic-string gravitational-wave background inference against PTA limits",
		Long: `sgwb computes the stochastic gravitational-wave background from a
cosmic-string loop network and samples the posterior over the string tension
Gμ and the reconnection probability P given pulsar-timing upper limits and an
optional LISA forecast.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.logger != nil {
				return nil
			}
			config := zap.NewProductionConfig()
			if a.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug-level logging (per-step sampler progress)")

	root.AddCommand(
		runCmd(a),
		sweepCmd(a),
		omegaCmd(),
		convertCmd(),
		resultsCmd(),
	)
	return root
}
