package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/staffsim/staffsim/sim/sensitivity"
)

// sensitivityCmd perturbs every model constant and ranks their impact
var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity",
	Short: "Rank model constants by their impact on the outcome",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSensitivity(os.Stdout, scenarioPath, fidelity, outcome, factor, trajectories); err != nil {
			logrus.Fatalf("Sensitivity analysis failed: %v", err)
		}
	},
}

func runSensitivity(w io.Writer, path, fidelityFlag, outcomeName string, f float64, withTrajectories bool) error {
	if !sensitivity.IsValidOutcome(outcomeName) {
		return fmt.Errorf("unknown outcome %q; valid: revenue, clv", outcomeName)
	}
	if f <= 0 || f >= 1 {
		return fmt.Errorf("factor must be in (0, 1), got %v", f)
	}
	in, err := loadInputs(path, fidelityFlag)
	if err != nil {
		return err
	}
	if err := in.requireSchedule(); err != nil {
		return err
	}

	opts := sensitivity.Options{Factor: f, Outcome: sensitivity.Outcome(outcomeName), Sim: in.opts}
	report, err := sensitivity.Analyze(in.model, in.schedule, opts)
	if err != nil {
		return err
	}
	if err := printImpactReport(w, report); err != nil {
		return err
	}
	if !withTrajectories {
		return nil
	}
	trs, err := sensitivity.Trajectories(in.model, in.schedule, opts)
	if err != nil {
		return err
	}
	return printTrajectories(w, trs)
}
