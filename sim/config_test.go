package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_DocumentedValues(t *testing.T) {
	want := Config{
		BaselineFee:                100,
		OrganicCustomers:           25,
		BaseChurnRate:              0.1,
		BaseSatisfaction:           70,
		SatisfactionGain:           1,
		CustomersPerSalesperson:    5,
		CustomersPerAccountManager: 25,
		FeeGrowthRate:              0.2,
		ChurnReduction:             0.15,
		InitialCustomers:           1000,
		SatisfactionReference:      70,
		MaxSatisfaction:            100,
		MaxManagedMonths:           6,
		ChurnedRevenueReference:    100,
	}
	assert.Equal(t, want, DefaultConfig())
	assert.NoError(t, DefaultConfig().Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"negative fee", func(c *Config) { c.BaselineFee = -1 }, ConstBaselineFee},
		{"NaN churn", func(c *Config) { c.BaseChurnRate = math.NaN() }, ConstBaseChurnRate},
		{"infinite gain", func(c *Config) { c.SatisfactionGain = math.Inf(1) }, ConstSatisfactionGain},
		{"negative initial customers", func(c *Config) { c.InitialCustomers = -5 }, "initial_customers"},
		{"churn reduction of one", func(c *Config) { c.ChurnReduction = 1 }, ConstChurnReduction},
		{"fee growth below -1", func(c *Config) { c.FeeGrowthRate = -1 }, ConstFeeGrowthRate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			var de *DomainError
			require.True(t, errors.As(err, &de), "want *DomainError, got %v", err)
			assert.Equal(t, tt.wantField, de.Field)
			assert.Equal(t, NoMonth, de.Month)
		})
	}
}

func TestConfig_Validate_NegativeFeeGrowthAllowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FeeGrowthRate = -0.05
	assert.NoError(t, cfg.Validate())
}

func TestConfig_WithConstant_CopyOnWrite(t *testing.T) {
	// GIVEN the default config
	base := DefaultConfig()

	// WHEN each constant is replaced
	for _, name := range ConstantNames() {
		modified, err := base.WithConstant(name, 42)
		require.NoError(t, err)

		// THEN the copy carries the new value and the original is untouched
		got, err := modified.Constant(name)
		require.NoError(t, err)
		assert.Equal(t, 42.0, got, name)
		assert.Equal(t, DefaultConfig(), base, name)
	}
}

func TestConfig_Perturbed(t *testing.T) {
	up, err := DefaultConfig().Perturbed(ConstOrganicCustomers, 0.1)
	require.NoError(t, err)
	assert.InDelta(t, 27.5, up.OrganicCustomers, 1e-12)

	down, err := DefaultConfig().Perturbed(ConstChurnReduction, -0.1)
	require.NoError(t, err)
	assert.InDelta(t, 0.135, down.ChurnReduction, 1e-12)
}

func TestConfig_UnknownConstant(t *testing.T) {
	_, err := DefaultConfig().Constant("initial_customers")
	assert.Error(t, err)
	_, err = DefaultConfig().WithConstant("nope", 1)
	assert.Error(t, err)
}

func TestConstantNames_InsertionOrderAndCopy(t *testing.T) {
	names := ConstantNames()
	require.Len(t, names, 9)
	assert.Equal(t, ConstBaselineFee, names[0])
	assert.Equal(t, ConstChurnReduction, names[8])

	names[0] = "mutated"
	assert.Equal(t, ConstBaselineFee, ConstantNames()[0])
}
