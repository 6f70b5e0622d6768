package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/staffsim/staffsim/sim"
	"github.com/staffsim/staffsim/sim/optimize"
)

// inputs is everything a subcommand needs, resolved from the scenario file
// and the command-line overrides.
type inputs struct {
	model    sim.Config
	schedule sim.Schedule
	opts     sim.Options
	scenario *sim.Scenario
}

// loadInputs reads the scenario at path (if any) and applies the fidelity
// flag. Without a scenario the default model is used with an empty schedule.
func loadInputs(path, fidelityFlag string) (*inputs, error) {
	sc := &sim.Scenario{}
	if path != "" {
		loaded, err := sim.LoadScenario(path)
		if err != nil {
			return nil, err
		}
		sc = loaded
	}
	if fidelityFlag != "" {
		sc.Fidelity = fidelityFlag
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	schedule, err := sc.AllocationSchedule()
	if err != nil {
		return nil, err
	}
	return &inputs{
		model:    sc.Config(),
		schedule: schedule,
		opts:     sim.Options{Fidelity: sim.Fidelity(sc.Fidelity)},
		scenario: sc,
	}, nil
}

// requireSchedule rejects an empty schedule for commands that evaluate one.
func (in *inputs) requireSchedule() error {
	if len(in.schedule) == 0 {
		return fmt.Errorf("no schedule: pass --scenario with a non-empty schedule")
	}
	return nil
}

// optimizerConfig layers the scenario's optimizer settings and then any
// explicitly set flags over optimize.DefaultConfig. A scenario schedule
// becomes the baseline; its length sets Months unless months is given.
func (in *inputs) optimizerConfig(cmd *cobra.Command) optimize.Config {
	cfg := optimize.DefaultConfig()
	o := in.scenario.Optimizer

	if len(in.schedule) > 0 {
		cfg.Months = len(in.schedule)
	}
	setInt(&cfg.Months, o.Months)
	setInt(&cfg.TotalHeadcount, o.TotalHeadcount)
	setInt(&cfg.PopulationSize, o.PopulationSize)
	setInt(&cfg.Generations, o.Generations)
	setFloat(&cfg.CrossoverProb, o.CrossoverProb)
	setFloat(&cfg.MutationProb, o.MutationProb)
	setFloat(&cfg.GeneMutationProb, o.GeneMutationProb)
	setInt(&cfg.TournamentSize, o.TournamentSize)
	setInt(&cfg.EliteCount, o.EliteCount)
	if o.Seed != nil {
		cfg.Seed = *o.Seed
	}

	// CLI flags win over the scenario only when set explicitly.
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("generations") {
		cfg.Generations = generations
	}
	if cmd.Flags().Changed("population") {
		cfg.PopulationSize = population
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}

	if len(in.schedule) == cfg.Months {
		cfg.Baseline = in.schedule
	}
	cfg.Sim = in.opts
	return cfg
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
