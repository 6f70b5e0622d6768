// Package sensitivity measures how strongly each model constant drives the
// simulated outcome by perturbing it up and down by a fixed relative factor.
//
// Every perturbation is evaluated on a private copy of the Config built with
// sim.Config.WithConstant, so perturbations never compose and the caller's
// Config is never modified. Analyses are safe to run concurrently with each
// other and with optimizer fitness evaluation.
package sensitivity

import (
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/staffsim/staffsim/sim"
)

// DefaultFactor is the relative perturbation applied in each direction.
const DefaultFactor = 0.1

// Outcome selects the scalar an analysis compares against the baseline.
type Outcome string

const (
	// OutcomeCumulativeRevenue compares total revenue over the schedule.
	OutcomeCumulativeRevenue Outcome = "revenue"
	// OutcomeMeanCLV compares the mean of the monthly customer lifetime values.
	OutcomeMeanCLV Outcome = "clv"
)

var validOutcomes = map[Outcome]bool{
	OutcomeCumulativeRevenue: true,
	OutcomeMeanCLV:           true,
	"":                       true, // empty defaults to revenue
}

// IsValidOutcome reports whether name is a recognized outcome.
func IsValidOutcome(name string) bool {
	return validOutcomes[Outcome(name)]
}

// Direction is the sign of a perturbation.
type Direction string

const (
	Increase Direction = "increase"
	Decrease Direction = "decrease"
)

// Options controls an analysis.
type Options struct {
	Factor  float64 // relative perturbation; 0 means DefaultFactor
	Outcome Outcome
	Sim     sim.Options
}

// resolve validates o and returns the outcome and factor to use. A factor must
// lie in (0, 1): outside it the increase and decrease directions swap or the
// decreased value crosses zero.
func (o Options) resolve() (Outcome, float64, error) {
	if !validOutcomes[o.Outcome] {
		return "", 0, fmt.Errorf("unknown outcome %q; valid: revenue, clv", o.Outcome)
	}
	outcome := o.Outcome
	if outcome == "" {
		outcome = OutcomeCumulativeRevenue
	}
	factor := o.Factor
	if factor == 0 {
		factor = DefaultFactor
	}
	if !(factor > 0 && factor < 1) {
		return "", 0, fmt.Errorf("factor must be in (0, 1), got %v", o.Factor)
	}
	return outcome, factor, nil
}

func (o Options) simOptions() sim.Options {
	opts := o.Sim
	if o.Outcome == OutcomeMeanCLV {
		opts.ComputeCLV = true
	}
	return opts
}

// Perturbation is one evaluated direction for one constant.
type Perturbation struct {
	Direction     Direction
	Value         float64 // perturbed constant value
	Outcome       float64 // outcome under the perturbed Config
	Delta         float64 // Outcome - baseline
	PercentChange float64 // Delta / baseline * 100; 0 when the baseline is 0
}

// Impact summarizes both perturbations of one constant.
type Impact struct {
	Constant      string
	OriginalValue float64
	Increased     Perturbation
	Decreased     Perturbation
	Score         float64 // mean absolute outcome delta of the two perturbations
}

// ImpactReport is the result of Analyze.
type ImpactReport struct {
	Outcome       Outcome
	Factor        float64
	Baseline      float64
	Impacts       []Impact // in sim.ConstantNames order
	MostImpactful string
}

// PerturbationError identifies the constant and direction whose simulation failed.
type PerturbationError struct {
	Constant  string
	Direction Direction
	Value     float64
	Err       error
}

func (e *PerturbationError) Error() string {
	return fmt.Sprintf("%s %s to %v: %v", e.Direction, e.Constant, e.Value, e.Err)
}

func (e *PerturbationError) Unwrap() error {
	return e.Err
}

// Analyze perturbs each constant of cfg by ±Factor with schedule held fixed and
// reports the outcome change. Constants are visited in sim.ConstantNames order;
// MostImpactful is the highest Score, ties going to the earlier constant.
func Analyze(cfg sim.Config, schedule sim.Schedule, opts Options) (*ImpactReport, error) {
	outcome, factor, err := opts.resolve()
	if err != nil {
		return nil, err
	}

	base, err := sim.Simulate(cfg, schedule, opts.simOptions())
	if err != nil {
		return nil, fmt.Errorf("baseline: %w", err)
	}
	baseline := outcomeOf(base, outcome)

	report := &ImpactReport{
		Outcome:  outcome,
		Factor:   factor,
		Baseline: baseline,
	}

	best := -1.0
	for _, name := range sim.ConstantNames() {
		original, err := cfg.Constant(name)
		if err != nil {
			return nil, err
		}
		impact := Impact{Constant: name, OriginalValue: original}

		impact.Increased, err = evaluate(cfg, schedule, opts, name, Increase, original*(1+factor), baseline)
		if err != nil {
			return nil, err
		}
		impact.Decreased, err = evaluate(cfg, schedule, opts, name, Decrease, original*(1-factor), baseline)
		if err != nil {
			return nil, err
		}
		impact.Score = stat.Mean([]float64{math.Abs(impact.Increased.Delta), math.Abs(impact.Decreased.Delta)}, nil)

		logrus.Debugf("sensitivity: %s original=%v increase=%.2f (%.2f%%) decrease=%.2f (%.2f%%) impact=%.2f",
			name, original, impact.Increased.Outcome, impact.Increased.PercentChange,
			impact.Decreased.Outcome, impact.Decreased.PercentChange, impact.Score)

		if impact.Score > best {
			best = impact.Score
			report.MostImpactful = name
		}
		report.Impacts = append(report.Impacts, impact)
	}
	return report, nil
}

// Ranked returns the impacts ordered by Score, highest first. Equal scores keep
// their constant order.
func (r *ImpactReport) Ranked() []Impact {
	out := make([]Impact, len(r.Impacts))
	copy(out, r.Impacts)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// evaluate runs one perturbation on a private copy of cfg.
func evaluate(cfg sim.Config, schedule sim.Schedule, opts Options, name string, dir Direction, value, baseline float64) (Perturbation, error) {
	perturbed, err := cfg.WithConstant(name, value)
	if err != nil {
		return Perturbation{}, err
	}
	res, err := sim.Simulate(perturbed, schedule, opts.simOptions())
	if err != nil {
		return Perturbation{}, &PerturbationError{Constant: name, Direction: dir, Value: value, Err: err}
	}
	out := outcomeOf(res, opts.Outcome)
	p := Perturbation{
		Direction: dir,
		Value:     value,
		Outcome:   out,
		Delta:     out - baseline,
	}
	if baseline != 0 {
		p.PercentChange = p.Delta / baseline * 100
	}
	return p, nil
}

func outcomeOf(res *sim.Result, outcome Outcome) float64 {
	if outcome == OutcomeMeanCLV {
		return res.MeanCLV
	}
	return res.CumulativeRevenue
}
