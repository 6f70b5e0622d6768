package sim

import (
	"fmt"
	"math"
)

// Names of the perturbable model constants, in the order sensitivity analysis visits them.
const (
	ConstBaselineFee                = "baseline_fee"
	ConstOrganicCustomers           = "organic_customers"
	ConstBaseChurnRate              = "base_churn_rate"
	ConstBaseSatisfaction           = "base_satisfaction"
	ConstSatisfactionGain           = "satisfaction_gain"
	ConstCustomersPerSalesperson    = "customers_per_salesperson"
	ConstCustomersPerAccountManager = "customers_per_account_manager"
	ConstFeeGrowthRate              = "fee_growth_rate"
	ConstChurnReduction             = "churn_reduction"
)

// MaxCustomers bounds the customer base. The cohort model keeps one entry per
// customer, so a month that would exceed it fails with a DomainError.
const MaxCustomers = 10_000_000

var constantNames = []string{
	ConstBaselineFee,
	ConstOrganicCustomers,
	ConstBaseChurnRate,
	ConstBaseSatisfaction,
	ConstSatisfactionGain,
	ConstCustomersPerSalesperson,
	ConstCustomersPerAccountManager,
	ConstFeeGrowthRate,
	ConstChurnReduction,
}

// ConstantNames returns the perturbable constants in insertion order.
// The returned slice is a copy.
func ConstantNames() []string {
	out := make([]string, len(constantNames))
	copy(out, constantNames)
	return out
}

// Config holds the model constants. It is a value type: every simulation call
// receives its own copy, and perturbation builds a modified copy via WithConstant.
type Config struct {
	BaselineFee                float64 // fee billed to an unmanaged customer per month
	OrganicCustomers           float64 // customers acquired per month with no sales staff
	BaseChurnRate              float64 // monthly churn at the reference satisfaction
	BaseSatisfaction           float64 // satisfaction score with no support staff
	SatisfactionGain           float64 // satisfaction points per support agent
	CustomersPerSalesperson    float64 // new customers per new-business headcount
	CustomersPerAccountManager float64 // accounts one account manager can cover
	FeeGrowthRate              float64 // per-month compounding fee growth while managed (may be negative)
	ChurnReduction             float64 // relative churn reduction per satisfaction point

	// Model parameters that are not perturbed by sensitivity analysis.
	InitialCustomers        int     // customer base at month 0
	SatisfactionReference   float64 // satisfaction at which churn equals BaseChurnRate
	MaxSatisfaction         float64 // satisfaction cap
	MaxManagedMonths        int     // managed tenure cap for fee growth
	ChurnedRevenueReference float64 // average revenue of a churned customer (CLV mode)
}

// DefaultConfig returns the documented default constants.
func DefaultConfig() Config {
	return Config{
		BaselineFee:                100,
		OrganicCustomers:           25,
		BaseChurnRate:              0.1,
		BaseSatisfaction:           70,
		SatisfactionGain:           1,
		CustomersPerSalesperson:    5,
		CustomersPerAccountManager: 25,
		FeeGrowthRate:              0.2,
		ChurnReduction:             0.15,

		InitialCustomers:        1000,
		SatisfactionReference:   70,
		MaxSatisfaction:         100,
		MaxManagedMonths:        6,
		ChurnedRevenueReference: 100,
	}
}

// Validate checks that every value is finite and, except FeeGrowthRate, non-negative.
func (c Config) Validate() error {
	fields := []struct {
		name          string
		val           float64
		allowNegative bool
	}{
		{ConstBaselineFee, c.BaselineFee, false},
		{ConstOrganicCustomers, c.OrganicCustomers, false},
		{ConstBaseChurnRate, c.BaseChurnRate, false},
		{ConstBaseSatisfaction, c.BaseSatisfaction, false},
		{ConstSatisfactionGain, c.SatisfactionGain, false},
		{ConstCustomersPerSalesperson, c.CustomersPerSalesperson, false},
		{ConstCustomersPerAccountManager, c.CustomersPerAccountManager, false},
		{ConstFeeGrowthRate, c.FeeGrowthRate, true},
		{ConstChurnReduction, c.ChurnReduction, false},
		{"initial_customers", float64(c.InitialCustomers), false},
		{"satisfaction_reference", c.SatisfactionReference, false},
		{"max_satisfaction", c.MaxSatisfaction, false},
		{"max_managed_months", float64(c.MaxManagedMonths), false},
		{"churned_revenue_reference", c.ChurnedRevenueReference, false},
	}
	for _, f := range fields {
		if math.IsNaN(f.val) || math.IsInf(f.val, 0) {
			return newConfigError(f.name, f.val, "must be a finite number")
		}
		if !f.allowNegative && f.val < 0 {
			return newConfigError(f.name, f.val, "must be non-negative")
		}
	}
	if c.InitialCustomers > MaxCustomers {
		return newConfigError("initial_customers", float64(c.InitialCustomers), fmt.Sprintf("must not exceed %d", MaxCustomers))
	}
	if c.ChurnReduction >= 1 {
		// (1 - r)^x is undefined for fractional x once the base goes non-positive.
		return newConfigError(ConstChurnReduction, c.ChurnReduction, "must be below 1")
	}
	if c.FeeGrowthRate <= -1 {
		return newConfigError(ConstFeeGrowthRate, c.FeeGrowthRate, "must be greater than -1")
	}
	return nil
}

// Constant returns the value of the named perturbable constant.
func (c Config) Constant(name string) (float64, error) {
	p, err := c.field(name)
	if err != nil {
		return 0, err
	}
	return *p, nil
}

// WithConstant returns a copy of c with the named constant set to value.
// The receiver is never modified.
func (c Config) WithConstant(name string, value float64) (Config, error) {
	p, err := c.field(name)
	if err != nil {
		return Config{}, err
	}
	*p = value
	return c, nil
}

// Perturbed returns a copy of c with the named constant scaled by (1 + factor).
func (c Config) Perturbed(name string, factor float64) (Config, error) {
	v, err := c.Constant(name)
	if err != nil {
		return Config{}, err
	}
	return c.WithConstant(name, v*(1+factor))
}

// field resolves a constant name to a pointer into the receiver's own copy.
func (c *Config) field(name string) (*float64, error) {
	switch name {
	case ConstBaselineFee:
		return &c.BaselineFee, nil
	case ConstOrganicCustomers:
		return &c.OrganicCustomers, nil
	case ConstBaseChurnRate:
		return &c.BaseChurnRate, nil
	case ConstBaseSatisfaction:
		return &c.BaseSatisfaction, nil
	case ConstSatisfactionGain:
		return &c.SatisfactionGain, nil
	case ConstCustomersPerSalesperson:
		return &c.CustomersPerSalesperson, nil
	case ConstCustomersPerAccountManager:
		return &c.CustomersPerAccountManager, nil
	case ConstFeeGrowthRate:
		return &c.FeeGrowthRate, nil
	case ConstChurnReduction:
		return &c.ChurnReduction, nil
	}
	return nil, fmt.Errorf("unknown constant %q", name)
}
