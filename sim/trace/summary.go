package trace

import "gonum.org/v1/gonum/stat"

// TraceSummary aggregates statistics from an OptimizationTrace.
type TraceSummary struct {
	Generations      int
	FirstBest        float64 // best fitness of generation 0
	FinalBest        float64 // best fitness of the last generation
	Improvement      float64 // FinalBest - FirstBest
	MeanOfMeans      float64
	TotalEvaluations int
	TotalRepairs     int
	StalledFor       int // trailing generations without a new best
}

// Summarize computes aggregate statistics from an OptimizationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(ot *OptimizationTrace) *TraceSummary {
	summary := &TraceSummary{}
	if ot.Len() == 0 {
		return summary
	}

	gens := ot.Generations
	summary.Generations = len(gens)
	summary.FirstBest = gens[0].Best
	summary.FinalBest = gens[len(gens)-1].Best
	summary.Improvement = summary.FinalBest - summary.FirstBest

	means := make([]float64, len(gens))
	best := gens[0].Best
	lastImproved := 0
	for i, g := range gens {
		means[i] = g.Mean
		summary.TotalEvaluations += g.Evaluations
		summary.TotalRepairs += g.Repairs
		if g.Best > best {
			best = g.Best
			lastImproved = i
		}
	}
	summary.MeanOfMeans = stat.Mean(means, nil)
	summary.StalledFor = len(gens) - 1 - lastImproved

	return summary
}
