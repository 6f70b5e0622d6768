// sim/simulator.go
package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Fidelity selects how managed-account revenue is modeled.
type Fidelity string

const (
	// FidelityCohort tracks managed tenure and fee per customer. This is the default.
	FidelityCohort Fidelity = "cohort"
	// FidelityAggregate tracks counts only and prices the managed group as a whole,
	// keyed off the month index rather than per-customer tenure. It is a cheaper
	// approximation and produces different numbers than FidelityCohort.
	FidelityAggregate Fidelity = "aggregate"
)

var validFidelities = map[Fidelity]bool{
	FidelityCohort:    true,
	FidelityAggregate: true,
	"":                true, // empty defaults to cohort
}

// IsValidFidelity reports whether name is a recognized fidelity level.
func IsValidFidelity(name string) bool {
	return validFidelities[Fidelity(name)]
}

// Options controls a single Simulate call.
type Options struct {
	Fidelity   Fidelity
	ComputeCLV bool // also compute monthly customer lifetime value
}

// MonthResult is the state of the customer base at the end of one month.
type MonthResult struct {
	Month          int
	StartCustomers int
	Churned        int
	Acquired       int
	Customers      int
	Managed        int
	Satisfaction   float64
	ChurnRate      float64
	Revenue        float64
	CLV            float64 // zero unless Options.ComputeCLV
}

// Result is the trajectory produced by Simulate.
type Result struct {
	Months            []MonthResult
	Revenue           []float64 // per-month revenue
	CumulativeRevenue float64   // running sum of Revenue, accumulated in month order
	CLV               []float64 // per-month CLV; nil unless Options.ComputeCLV
	MeanCLV           float64
}

// Simulate runs the monthly model over schedule. It is a pure function of its
// inputs: no randomness, no I/O, and cohort state is allocated fresh per call,
// so concurrent calls need no synchronization.
func Simulate(cfg Config, schedule Schedule, opts Options) (*Result, error) {
	if !validFidelities[opts.Fidelity] {
		return nil, fmt.Errorf("unknown fidelity %q; valid: cohort, aggregate", opts.Fidelity)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := schedule.Validate(); err != nil {
		return nil, err
	}

	res := &Result{
		Months:  make([]MonthResult, 0, len(schedule)),
		Revenue: make([]float64, 0, len(schedule)),
	}
	if opts.ComputeCLV {
		res.CLV = make([]float64, 0, len(schedule))
	}

	var base *cohort
	if opts.Fidelity != FidelityAggregate {
		base = newCohort(cfg.InitialCustomers, cfg.BaselineFee)
	}
	customers := cfg.InitialCustomers

	for m, alloc := range schedule {
		mr := MonthResult{Month: m, StartCustomers: customers}

		mr.Satisfaction = satisfaction(cfg, alloc.Support)
		rate, err := churnRate(cfg, m, mr.Satisfaction)
		if err != nil {
			return nil, err
		}
		mr.ChurnRate = rate
		mr.Churned = int(math.Floor(float64(customers) * rate))
		if mr.Acquired, err = acquired(cfg, m, alloc.NewBusiness); err != nil {
			return nil, err
		}
		mr.Customers = customers - mr.Churned + mr.Acquired
		if mr.Customers > MaxCustomers {
			return nil, &DomainError{Month: m, Field: "new_customers", Value: float64(mr.Customers),
				Reason: fmt.Sprintf("customer base exceeds the %d customer limit", MaxCustomers)}
		}
		capacity := accountCapacity(cfg, alloc.AccountManagers)

		if base != nil {
			base.evict(mr.Churned)
			base.acquire(mr.Acquired, cfg.BaselineFee)
			mr.Managed = int(math.Min(float64(mr.Customers), capacity))
			mr.Revenue = base.manage(mr.Managed, cfg)
		} else {
			mr.Managed = int(math.Min(float64(customers-mr.Churned), capacity))
			tenure := min(m+1, cfg.MaxManagedMonths)
			mr.Revenue = float64(mr.Customers-mr.Managed)*cfg.BaselineFee +
				float64(mr.Managed)*managedFee(cfg, tenure)
		}

		if opts.ComputeCLV {
			v, err := lifetimeValue(cfg, m, mr.Revenue, mr.Customers, rate)
			if err != nil {
				return nil, err
			}
			mr.CLV = v
			res.CLV = append(res.CLV, v)
		}

		res.CumulativeRevenue += mr.Revenue
		res.Revenue = append(res.Revenue, mr.Revenue)
		res.Months = append(res.Months, mr)
		customers = mr.Customers
	}

	if len(res.CLV) > 0 {
		res.MeanCLV = stat.Mean(res.CLV, nil)
	}
	return res, nil
}

// satisfaction is the month's score given its support headcount, capped at MaxSatisfaction.
func satisfaction(cfg Config, support int) float64 {
	return math.Min(cfg.BaseSatisfaction+float64(support)*cfg.SatisfactionGain, cfg.MaxSatisfaction)
}

// churnRate decays BaseChurnRate by (1 - ChurnReduction) per point above the reference
// satisfaction, clamped to [0, 1].
func churnRate(cfg Config, month int, score float64) (float64, error) {
	rate := cfg.BaseChurnRate * math.Pow(1-cfg.ChurnReduction, score-cfg.SatisfactionReference)
	if math.IsNaN(rate) {
		return 0, &DomainError{Month: month, Field: "churn_rate", Value: rate, Reason: "churn rate is not a number"}
	}
	return math.Max(0, math.Min(1, rate)), nil
}

// acquired is the month's new customers. The value is range-checked before the
// int conversion so an extreme rate cannot wrap around.
func acquired(cfg Config, month, newBusiness int) (int, error) {
	n := math.Floor(cfg.OrganicCustomers + float64(newBusiness)*cfg.CustomersPerSalesperson)
	if n > MaxCustomers {
		return 0, &DomainError{Month: month, Field: "new_customers", Value: n,
			Reason: fmt.Sprintf("exceeds the %d customer limit", MaxCustomers)}
	}
	return int(n), nil
}

func accountCapacity(cfg Config, accountManagers int) float64 {
	return math.Floor(float64(accountManagers) * cfg.CustomersPerAccountManager)
}
