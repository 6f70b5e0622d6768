package cmd

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/staffsim/staffsim/sim"
)

// runCmd simulates the scenario's schedule and prints the monthly trajectory
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate a staffing schedule",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSimulation(os.Stdout, scenarioPath, fidelity, showCLV); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
	},
}

func runSimulation(w io.Writer, path, fidelityFlag string, withCLV bool) error {
	in, err := loadInputs(path, fidelityFlag)
	if err != nil {
		return err
	}
	if err := in.requireSchedule(); err != nil {
		return err
	}
	opts := in.opts
	opts.ComputeCLV = withCLV

	logrus.Infof("Simulating %d months (fidelity=%q)", len(in.schedule), opts.Fidelity)
	res, err := sim.Simulate(in.model, in.schedule, opts)
	if err != nil {
		return err
	}
	return printSimulation(w, in.schedule, res, withCLV)
}
