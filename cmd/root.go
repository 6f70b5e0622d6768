package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Shared CLI flags
	scenarioPath string // YAML scenario file
	logLevel     string // Log verbosity level
	fidelity     string // Simulation fidelity, overrides the scenario

	// sensitivity flags
	outcome      string  // Outcome compared against the baseline
	factor       float64 // Relative perturbation per direction
	trajectories bool    // Also print per-month series for each constant

	// optimize flags
	seed        int64 // Seed for the optimizer, overrides the scenario
	generations int   // Generations after the initial population
	population  int   // Individuals per generation
	workers     int   // Fitness evaluation goroutines
	noProgress  bool  // Suppress the progress bar

	// run flags
	showCLV bool // Include monthly customer lifetime value
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "staffsim",
	Short: "Staffing allocation simulator and optimizer for a subscription business",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&scenarioPath, "scenario", "", "Path to a YAML scenario file (model overrides, schedule, optimizer settings)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&fidelity, "fidelity", "", "Simulation fidelity: cohort (default) or aggregate")

	runCmd.Flags().BoolVar(&showCLV, "clv", false, "Compute monthly customer lifetime value")

	sensitivityCmd.Flags().StringVar(&outcome, "outcome", "revenue", "Outcome to compare: revenue or clv")
	sensitivityCmd.Flags().Float64Var(&factor, "factor", 0.1, "Relative perturbation applied in each direction")
	sensitivityCmd.Flags().BoolVar(&trajectories, "trajectories", false, "Print per-month series for every constant")

	optimizeCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for the optimizer (overrides the scenario)")
	optimizeCmd.Flags().IntVar(&generations, "generations", 50, "Generations after the initial population")
	optimizeCmd.Flags().IntVar(&population, "population", 300, "Individuals per generation")
	optimizeCmd.Flags().IntVar(&workers, "workers", 0, "Fitness evaluation goroutines (0 = number of CPUs)")
	optimizeCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Suppress the progress bar")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sensitivityCmd)
	rootCmd.AddCommand(optimizeCmd)
}
