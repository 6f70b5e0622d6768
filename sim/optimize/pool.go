package optimize

import (
	"fmt"
	"sync"

	"github.com/staffsim/staffsim/sim"
)

// EvaluationError reports a simulation failure for one candidate.
type EvaluationError struct {
	Generation int
	Candidate  int // index in the population
	Err        error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("generation %d candidate %d: %v", e.Generation, e.Candidate, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

// workerPool evaluates schedule fitness in parallel. The model Config is
// passed by value to every simulation, so workers share no mutable state.
type workerPool struct {
	numWorkers int
	model      sim.Config
	opts       sim.Options
}

func newWorkerPool(numWorkers int, model sim.Config, opts sim.Options) *workerPool {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	return &workerPool{numWorkers: numWorkers, model: model, opts: opts}
}

type jobItem struct {
	schedule sim.Schedule
	index    int
}

type resultItem struct {
	fitness float64
	err     error
	index   int
}

// evaluate computes cumulative revenue for each job and writes it to
// fitness[job.index]. It returns only after every job has finished. When
// several candidates fail, the error for the lowest index is returned.
func (wp *workerPool) evaluate(generation int, jobs []jobItem, fitness []float64) error {
	if len(jobs) == 0 {
		return nil
	}

	jobCh := make(chan jobItem, len(jobs))
	results := make(chan resultItem, len(jobs))

	var wg sync.WaitGroup
	n := min(wp.numWorkers, len(jobs))
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wp.worker(jobCh, results)
		}()
	}

	for _, j := range jobs {
		jobCh <- j
	}
	close(jobCh)

	wg.Wait()
	close(results)

	var firstErr *resultItem
	for r := range results {
		if r.err != nil {
			if firstErr == nil || r.index < firstErr.index {
				failed := r
				firstErr = &failed
			}
			continue
		}
		fitness[r.index] = r.fitness
	}
	if firstErr != nil {
		return &EvaluationError{Generation: generation, Candidate: firstErr.index, Err: firstErr.err}
	}
	return nil
}

func (wp *workerPool) worker(jobs <-chan jobItem, results chan<- resultItem) {
	for job := range jobs {
		res, err := sim.Simulate(wp.model, job.schedule, wp.opts)
		if err != nil {
			results <- resultItem{index: job.index, err: err}
			continue
		}
		results <- resultItem{index: job.index, fitness: res.CumulativeRevenue}
	}
}
