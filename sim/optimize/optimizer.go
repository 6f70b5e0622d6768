// Package optimize searches for the staffing schedule that maximizes cumulative
// revenue under a fixed monthly headcount budget.
//
// The search is generational: tournament selection, two-point crossover over
// whole months, and mutations that either reorder months or move one person
// between roles inside a month. Every operator keeps each month on budget, and
// every offspring is checked against the budget before evaluation; any month
// found off budget is repaired, never evaluated as is.
//
// Fitness evaluation runs on a bounded worker pool with one barrier per
// generation. All randomness is drawn on the coordinating goroutine from a
// sim.PartitionedRNG, so a run is reproducible from its seed regardless of the
// worker count.
package optimize

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/staffsim/staffsim/sim"
	"github.com/staffsim/staffsim/sim/trace"
)

// Result is the outcome of Run.
type Result struct {
	RunID           string
	Best            sim.Schedule
	BestFitness     float64
	BaselineFitness float64 // Config.Baseline fitness, or the best of generation 0 without one
	Improvement     float64 // BestFitness - BaselineFitness
	Population      []sim.Schedule
	Trace           *trace.OptimizationTrace
}

// Optimizer runs a generational search. Each Run starts from the configured
// seed, so repeated runs return the same schedules.
type Optimizer struct {
	model sim.Config
	cfg   Config
}

// New validates both configurations and returns an Optimizer.
func New(model sim.Config, cfg Config) (*Optimizer, error) {
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("optimizer: %w", err)
	}
	if cfg.Baseline != nil {
		if err := cfg.Baseline.Validate(); err != nil {
			return nil, fmt.Errorf("baseline: %w", err)
		}
	}
	return &Optimizer{model: model, cfg: cfg}, nil
}

// population is the coordinating goroutine's view of one generation.
// valid[i] is false when genes[i] changed since fitness[i] was computed.
type population struct {
	genes   []sim.Schedule
	fitness []float64
	valid   []bool
}

// Run executes the search. ctx is checked between generations.
func (o *Optimizer) Run(ctx context.Context) (*Result, error) {
	cfg := o.cfg
	runID := uuid.New().String()
	log := logrus.WithField("run", runID)

	rng := sim.NewPartitionedRNG(sim.NewSearchKey(cfg.Seed))
	popRNG := rng.ForSubsystem(sim.SubsystemPopulation)
	selRNG := rng.ForSubsystem(sim.SubsystemSelection)
	varRNG := rng.ForSubsystem(sim.SubsystemVariation)

	pool := newWorkerPool(cfg.workers(), o.model, cfg.Sim)
	tr := trace.NewOptimizationTrace(runID)

	log.Infof("optimizer: population=%d generations=%d months=%d headcount=%d seed=%d workers=%d",
		cfg.PopulationSize, cfg.Generations, cfg.Months, cfg.TotalHeadcount, cfg.Seed, pool.numWorkers)

	pop := population{
		genes:   make([]sim.Schedule, cfg.PopulationSize),
		fitness: make([]float64, cfg.PopulationSize),
		valid:   make([]bool, cfg.PopulationSize),
	}
	repairs := 0
	for i := range pop.genes {
		if i == 0 && cfg.Baseline != nil {
			pop.genes[i] = cfg.Baseline.Clone()
			repairs += enforceBudget(pop.genes[i], cfg.TotalHeadcount)
			continue
		}
		pop.genes[i] = randomSchedule(popRNG, cfg.Months, cfg.TotalHeadcount)
	}

	evals, err := o.evaluate(pool, &pop, 0)
	if err != nil {
		return nil, err
	}
	rec := stats(pop, 0, evals, repairs)
	o.record(tr, log, rec)

	baselineFitness := rec.Best
	if cfg.Baseline != nil {
		baselineFitness = pop.fitness[0]
	}
	bestIdx := argmax(pop.fitness)
	best := pop.genes[bestIdx].Clone()
	bestFitness := pop.fitness[bestIdx]

	for g := 1; g <= cfg.Generations; g++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generation %d: %w", g, err)
		}

		elites := o.elites(pop)

		// Selection and variation.
		picks := tournament(selRNG, pop.fitness, cfg.PopulationSize, cfg.TournamentSize)
		next := population{
			genes:   make([]sim.Schedule, len(picks)),
			fitness: make([]float64, len(picks)),
			valid:   make([]bool, len(picks)),
		}
		for i, p := range picks {
			next.genes[i] = pop.genes[p].Clone()
			next.fitness[i] = pop.fitness[p]
			next.valid[i] = true
		}
		for i := 1; i < len(next.genes); i += 2 {
			if varRNG.Float64() < cfg.CrossoverProb {
				crossTwoPoint(varRNG, next.genes[i-1], next.genes[i])
				next.valid[i-1], next.valid[i] = false, false
			}
		}
		for i := range next.genes {
			if varRNG.Float64() < cfg.MutationProb {
				mutate(varRNG, next.genes[i], cfg.GeneMutationProb)
				next.valid[i] = false
			}
		}

		repairs := 0
		for i := range next.genes {
			if !next.valid[i] {
				repairs += enforceBudget(next.genes[i], cfg.TotalHeadcount)
			}
		}
		if repairs > 0 {
			log.Warnf("optimizer: generation %d repaired %d months onto the headcount budget", g, repairs)
		}

		evals, err := o.evaluate(pool, &next, g)
		if err != nil {
			return nil, err
		}
		replaceWorst(&next, elites)
		o.record(tr, log, stats(next, g, evals, repairs))

		pop = next
		if i := argmax(pop.fitness); pop.fitness[i] > bestFitness {
			best = pop.genes[i].Clone()
			bestFitness = pop.fitness[i]
		}
	}

	log.Infof("optimizer: best=%.2f baseline=%.2f improvement=%.2f", bestFitness, baselineFitness, bestFitness-baselineFitness)

	return &Result{
		RunID:           runID,
		Best:            best,
		BestFitness:     bestFitness,
		BaselineFitness: baselineFitness,
		Improvement:     bestFitness - baselineFitness,
		Population:      pop.genes,
		Trace:           tr,
	}, nil
}

// evaluate computes fitness for every individual whose genes changed and
// returns how many it evaluated.
func (o *Optimizer) evaluate(pool *workerPool, pop *population, generation int) (int, error) {
	jobs := make([]jobItem, 0, len(pop.genes))
	for i, s := range pop.genes {
		if !pop.valid[i] {
			jobs = append(jobs, jobItem{schedule: s, index: i})
		}
	}
	if err := pool.evaluate(generation, jobs, pop.fitness); err != nil {
		return 0, err
	}
	for _, j := range jobs {
		pop.valid[j.index] = true
	}
	return len(jobs), nil
}

func stats(pop population, generation, evaluations, repairs int) trace.GenerationRecord {
	return trace.GenerationRecord{
		Generation:  generation,
		Best:        floats.Max(pop.fitness),
		Mean:        stat.Mean(pop.fitness, nil),
		Worst:       floats.Min(pop.fitness),
		Evaluations: evaluations,
		Repairs:     repairs,
	}
}

func (o *Optimizer) record(tr *trace.OptimizationTrace, log *logrus.Entry, rec trace.GenerationRecord) {
	tr.Record(rec)
	log.Debugf("optimizer: generation %d best=%.2f mean=%.2f worst=%.2f evals=%d",
		rec.Generation, rec.Best, rec.Mean, rec.Worst, rec.Evaluations)
	if o.cfg.OnGeneration != nil {
		o.cfg.OnGeneration(rec)
	}
}

type elite struct {
	genes   sim.Schedule
	fitness float64
}

// elites returns copies of the EliteCount fittest individuals, fittest first.
func (o *Optimizer) elites(pop population) []elite {
	idx := rankDescending(pop.fitness)
	out := make([]elite, 0, o.cfg.EliteCount)
	for _, i := range idx[:o.cfg.EliteCount] {
		out = append(out, elite{genes: pop.genes[i].Clone(), fitness: pop.fitness[i]})
	}
	return out
}

// replaceWorst overwrites the least fit individuals of pop with elites.
func replaceWorst(pop *population, elites []elite) {
	if len(elites) == 0 {
		return
	}
	idx := rankDescending(pop.fitness)
	worst := idx[len(idx)-len(elites):]
	for k, i := range worst {
		e := elites[len(elites)-1-k]
		pop.genes[i] = e.genes
		pop.fitness[i] = e.fitness
		pop.valid[i] = true
	}
}

// rankDescending returns indices ordered by fitness, highest first; equal
// fitness keeps index order.
func rankDescending(fitness []float64) []int {
	idx := make([]int, len(fitness))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return fitness[idx[a]] > fitness[idx[b]] })
	return idx
}

// argmax returns the first index of the highest value.
func argmax(v []float64) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}
