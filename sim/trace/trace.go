// Package trace records the per-generation progress of an allocation optimizer run.
// This package has no dependencies on sim/ or sim/optimize/: it stores pure data types.
package trace

// GenerationRecord captures the fitness distribution of one evaluated generation.
type GenerationRecord struct {
	Generation  int
	Best        float64
	Mean        float64
	Worst       float64
	Evaluations int // fitness evaluations performed in this generation
	Repairs     int // offspring repaired onto the headcount budget before evaluation
}

// OptimizationTrace collects generation records during an optimizer run.
type OptimizationTrace struct {
	RunID       string
	Generations []GenerationRecord
}

// NewOptimizationTrace creates an OptimizationTrace ready for recording.
func NewOptimizationTrace(runID string) *OptimizationTrace {
	return &OptimizationTrace{
		RunID:       runID,
		Generations: make([]GenerationRecord, 0),
	}
}

// Record appends a generation record.
func (ot *OptimizationTrace) Record(record GenerationRecord) {
	ot.Generations = append(ot.Generations, record)
}

// Len returns the number of recorded generations. Safe on a nil trace.
func (ot *OptimizationTrace) Len() int {
	if ot == nil {
		return 0
	}
	return len(ot.Generations)
}
