package sim

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario holds a run configuration loadable from a YAML file.
// Nil pointer fields mean "not set in YAML"; they do not override DefaultConfig
// or the optimizer defaults.
type Scenario struct {
	Model     ModelOverrides    `yaml:"model"`
	Fidelity  string            `yaml:"fidelity"`
	Schedule  [][]int           `yaml:"schedule"`
	Optimizer OptimizerSettings `yaml:"optimizer"`
}

// ModelOverrides holds optional replacements for Config fields.
type ModelOverrides struct {
	BaselineFee                *float64 `yaml:"baseline_fee"`
	OrganicCustomers           *float64 `yaml:"organic_customers"`
	BaseChurnRate              *float64 `yaml:"base_churn_rate"`
	BaseSatisfaction           *float64 `yaml:"base_satisfaction"`
	SatisfactionGain           *float64 `yaml:"satisfaction_gain"`
	CustomersPerSalesperson    *float64 `yaml:"customers_per_salesperson"`
	CustomersPerAccountManager *float64 `yaml:"customers_per_account_manager"`
	FeeGrowthRate              *float64 `yaml:"fee_growth_rate"`
	ChurnReduction             *float64 `yaml:"churn_reduction"`
	InitialCustomers           *int     `yaml:"initial_customers"`
	SatisfactionReference      *float64 `yaml:"satisfaction_reference"`
	MaxSatisfaction            *float64 `yaml:"max_satisfaction"`
	MaxManagedMonths           *int     `yaml:"max_managed_months"`
	ChurnedRevenueReference    *float64 `yaml:"churned_revenue_reference"`
}

// OptimizerSettings holds optional optimizer parameters.
type OptimizerSettings struct {
	Months           *int     `yaml:"months"`
	TotalHeadcount   *int     `yaml:"total_headcount"`
	PopulationSize   *int     `yaml:"population_size"`
	Generations      *int     `yaml:"generations"`
	CrossoverProb    *float64 `yaml:"crossover_prob"`
	MutationProb     *float64 `yaml:"mutation_prob"`
	GeneMutationProb *float64 `yaml:"gene_mutation_prob"`
	TournamentSize   *int     `yaml:"tournament_size"`
	EliteCount       *int     `yaml:"elite_count"`
	Seed             *int64   `yaml:"seed"`
}

// LoadScenario reads and parses a YAML scenario file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &sc, nil
}

// Validate checks the fidelity name, schedule shape and the resulting Config.
func (s *Scenario) Validate() error {
	if !IsValidFidelity(s.Fidelity) {
		return fmt.Errorf("unknown fidelity %q; valid: cohort, aggregate", s.Fidelity)
	}
	if _, err := s.AllocationSchedule(); err != nil {
		return err
	}
	if err := s.Config().Validate(); err != nil {
		return err
	}
	o := s.Optimizer
	probs := []struct {
		name string
		p    *float64
	}{
		{"crossover_prob", o.CrossoverProb},
		{"mutation_prob", o.MutationProb},
		{"gene_mutation_prob", o.GeneMutationProb},
	}
	for _, pr := range probs {
		if pr.p != nil && !(*pr.p >= 0 && *pr.p <= 1) {
			return fmt.Errorf("optimizer.%s must be in [0, 1], got %v", pr.name, *pr.p)
		}
	}
	return nil
}

// Config applies the model overrides on top of DefaultConfig.
func (s *Scenario) Config() Config {
	cfg := DefaultConfig()
	m := s.Model
	setFloat(&cfg.BaselineFee, m.BaselineFee)
	setFloat(&cfg.OrganicCustomers, m.OrganicCustomers)
	setFloat(&cfg.BaseChurnRate, m.BaseChurnRate)
	setFloat(&cfg.BaseSatisfaction, m.BaseSatisfaction)
	setFloat(&cfg.SatisfactionGain, m.SatisfactionGain)
	setFloat(&cfg.CustomersPerSalesperson, m.CustomersPerSalesperson)
	setFloat(&cfg.CustomersPerAccountManager, m.CustomersPerAccountManager)
	setFloat(&cfg.FeeGrowthRate, m.FeeGrowthRate)
	setFloat(&cfg.ChurnReduction, m.ChurnReduction)
	setFloat(&cfg.SatisfactionReference, m.SatisfactionReference)
	setFloat(&cfg.MaxSatisfaction, m.MaxSatisfaction)
	setFloat(&cfg.ChurnedRevenueReference, m.ChurnedRevenueReference)
	if m.InitialCustomers != nil {
		cfg.InitialCustomers = *m.InitialCustomers
	}
	if m.MaxManagedMonths != nil {
		cfg.MaxManagedMonths = *m.MaxManagedMonths
	}
	return cfg
}

// AllocationSchedule converts the YAML rows into a Schedule.
func (s *Scenario) AllocationSchedule() (Schedule, error) {
	out := make(Schedule, len(s.Schedule))
	for i, row := range s.Schedule {
		if len(row) != 3 {
			return nil, fmt.Errorf("schedule[%d]: want [new_business, account_managers, support], got %d values", i, len(row))
		}
		out[i] = AllocationMonth{NewBusiness: row[0], AccountManagers: row[1], Support: row[2]}
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
