package sensitivity

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/staffsim/staffsim/sim"
)

// Trajectory holds the monthly series for one constant at baseline and at both
// perturbations. It is the data contract for chart renderers, which draw one
// chart per constant.
type Trajectory struct {
	Constant  string
	Outcome   Outcome
	Baseline  []float64
	Increased []float64
	Decreased []float64
}

// Totals returns the sums of the baseline, increased and decreased series.
func (t Trajectory) Totals() (baseline, increased, decreased float64) {
	return floats.Sum(t.Baseline), floats.Sum(t.Increased), floats.Sum(t.Decreased)
}

// Trajectories returns one Trajectory per constant in sim.ConstantNames order.
// The series are monthly revenue, or monthly CLV for OutcomeMeanCLV.
func Trajectories(cfg sim.Config, schedule sim.Schedule, opts Options) ([]Trajectory, error) {
	outcome, factor, err := opts.resolve()
	if err != nil {
		return nil, err
	}

	base, err := sim.Simulate(cfg, schedule, opts.simOptions())
	if err != nil {
		return nil, fmt.Errorf("baseline: %w", err)
	}
	baseline := seriesOf(base, outcome)

	out := make([]Trajectory, 0, len(sim.ConstantNames()))
	for _, name := range sim.ConstantNames() {
		original, err := cfg.Constant(name)
		if err != nil {
			return nil, err
		}
		tr := Trajectory{Constant: name, Outcome: outcome, Baseline: append([]float64(nil), baseline...)}
		if tr.Increased, err = series(cfg, schedule, opts, outcome, name, Increase, original*(1+factor)); err != nil {
			return nil, err
		}
		if tr.Decreased, err = series(cfg, schedule, opts, outcome, name, Decrease, original*(1-factor)); err != nil {
			return nil, err
		}
		out = append(out, tr)
	}
	return out, nil
}

func series(cfg sim.Config, schedule sim.Schedule, opts Options, outcome Outcome, name string, dir Direction, value float64) ([]float64, error) {
	perturbed, err := cfg.WithConstant(name, value)
	if err != nil {
		return nil, err
	}
	res, err := sim.Simulate(perturbed, schedule, opts.simOptions())
	if err != nil {
		return nil, &PerturbationError{Constant: name, Direction: dir, Value: value, Err: err}
	}
	return seriesOf(res, outcome), nil
}

func seriesOf(res *sim.Result, outcome Outcome) []float64 {
	if outcome == OutcomeMeanCLV {
		return res.CLV
	}
	return res.Revenue
}
