package cmd

import (
	"context"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/staffsim/staffsim/sim/optimize"
	"github.com/staffsim/staffsim/sim/trace"
)

// optimizeCmd searches for the schedule with the highest cumulative revenue
var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Search for the revenue-maximizing staffing schedule",
	Run: func(cmd *cobra.Command, args []string) {
		in, err := loadInputs(scenarioPath, fidelity)
		if err != nil {
			logrus.Fatalf("Failed to load scenario: %v", err)
		}
		cfg := in.optimizerConfig(cmd)
		if err := runOptimization(cmd.Context(), os.Stdout, in, cfg, !noProgress); err != nil {
			logrus.Fatalf("Optimization failed: %v", err)
		}
	},
}

func runOptimization(ctx context.Context, w io.Writer, in *inputs, cfg optimize.Config, progress bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if progress {
		bar := progressbar.Default(int64(cfg.Generations+1), "optimizing")
		cfg.OnGeneration = func(trace.GenerationRecord) {
			_ = bar.Add(1)
		}
	}
	opt, err := optimize.New(in.model, cfg)
	if err != nil {
		return err
	}
	res, err := opt.Run(ctx)
	if err != nil {
		return err
	}
	return printOptimization(w, res)
}
