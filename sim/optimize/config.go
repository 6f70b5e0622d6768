package optimize

import (
	"fmt"
	"runtime"

	"github.com/staffsim/staffsim/sim"
	"github.com/staffsim/staffsim/sim/trace"
)

// Config controls an optimizer run. Zero values are not defaults; start from
// DefaultConfig and override.
type Config struct {
	Months           int     // schedule length (genes per individual)
	TotalHeadcount   int     // per-month headcount budget
	PopulationSize   int     // individuals per generation
	Generations      int     // generations after the initial one
	CrossoverProb    float64 // probability a mating pair is crossed
	MutationProb     float64 // probability an individual is mutated
	GeneMutationProb float64 // per-month probability inside a mutation
	TournamentSize   int
	EliteCount       int // best individuals carried unchanged into the next generation
	Workers          int // fitness evaluation goroutines; 0 means runtime.NumCPU
	Seed             int64

	// Baseline, when set, is repaired onto the budget and seeded as individual 0.
	// Its fitness is the reference for Result.Improvement.
	Baseline sim.Schedule

	Sim sim.Options

	// OnGeneration is called from the coordinating goroutine after each
	// generation is evaluated.
	OnGeneration func(trace.GenerationRecord)
}

// DefaultConfig returns the documented optimizer defaults.
func DefaultConfig() Config {
	return Config{
		Months:           24,
		TotalHeadcount:   20,
		PopulationSize:   300,
		Generations:      50,
		CrossoverProb:    0.7,
		MutationProb:     0.2,
		GeneMutationProb: 0.05,
		TournamentSize:   3,
		EliteCount:       1,
		Workers:          runtime.NumCPU(),
		Seed:             42,
	}
}

// Validate returns an error naming the first invalid field.
func (c Config) Validate() error {
	if c.Months < 1 {
		return fmt.Errorf("months must be >= 1, got %d", c.Months)
	}
	if c.TotalHeadcount < 0 {
		return fmt.Errorf("total_headcount must be >= 0, got %d", c.TotalHeadcount)
	}
	if c.PopulationSize < 2 {
		return fmt.Errorf("population_size must be >= 2, got %d", c.PopulationSize)
	}
	if c.Generations < 0 {
		return fmt.Errorf("generations must be >= 0, got %d", c.Generations)
	}
	probs := []struct {
		name string
		p    float64
	}{
		{"crossover_prob", c.CrossoverProb},
		{"mutation_prob", c.MutationProb},
		{"gene_mutation_prob", c.GeneMutationProb},
	}
	for _, pr := range probs {
		if !(pr.p >= 0 && pr.p <= 1) {
			return fmt.Errorf("%s must be in [0, 1], got %v", pr.name, pr.p)
		}
	}
	if c.TournamentSize < 1 {
		return fmt.Errorf("tournament_size must be >= 1, got %d", c.TournamentSize)
	}
	if c.EliteCount < 0 || c.EliteCount >= c.PopulationSize {
		return fmt.Errorf("elite_count must be in [0, population_size), got %d", c.EliteCount)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.Baseline != nil && len(c.Baseline) != c.Months {
		return fmt.Errorf("baseline has %d months, want %d", len(c.Baseline), c.Months)
	}
	if !sim.IsValidFidelity(string(c.Sim.Fidelity)) {
		return fmt.Errorf("unknown fidelity %q; valid: cohort, aggregate", c.Sim.Fidelity)
	}
	return nil
}

func (c Config) workers() int {
	if c.Workers == 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}
