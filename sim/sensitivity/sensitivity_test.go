package sensitivity

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffsim/staffsim/sim"
)

func exampleSchedule() sim.Schedule {
	return sim.ScheduleFromTriples([][3]int{
		{14, 0, 6}, {12, 0, 8}, {13, 0, 7}, {12, 0, 8}, {11, 0, 9}, {11, 0, 9},
		{11, 0, 9}, {11, 0, 9}, {12, 0, 8}, {10, 0, 10}, {10, 0, 10}, {10, 0, 10},
		{8, 2, 10}, {0, 10, 10}, {0, 11, 9}, {0, 12, 8}, {0, 12, 8}, {0, 13, 7},
		{0, 14, 6}, {0, 15, 5}, {0, 17, 3}, {0, 19, 1}, {0, 20, 0}, {0, 20, 0},
	})
}

func TestAnalyze_VisitsEveryConstantInOrder(t *testing.T) {
	report, err := Analyze(sim.DefaultConfig(), exampleSchedule(), Options{})
	require.NoError(t, err)

	names := sim.ConstantNames()
	require.Len(t, report.Impacts, len(names))
	for i, imp := range report.Impacts {
		assert.Equal(t, names[i], imp.Constant)
		assert.Equal(t, Increase, imp.Increased.Direction)
		assert.Equal(t, Decrease, imp.Decreased.Direction)
		assert.InDelta(t, imp.OriginalValue*1.1, imp.Increased.Value, 1e-9)
		assert.InDelta(t, imp.OriginalValue*0.9, imp.Decreased.Value, 1e-9)
	}
	assert.Equal(t, OutcomeCumulativeRevenue, report.Outcome)
	assert.Equal(t, DefaultFactor, report.Factor)
}

func TestAnalyze_BaselineMatchesSimulate(t *testing.T) {
	res, err := sim.Simulate(sim.DefaultConfig(), exampleSchedule(), sim.Options{})
	require.NoError(t, err)

	report, err := Analyze(sim.DefaultConfig(), exampleSchedule(), Options{})
	require.NoError(t, err)
	assert.Equal(t, res.CumulativeRevenue, report.Baseline)
}

func TestAnalyze_ScoreIsMeanAbsoluteDelta(t *testing.T) {
	report, err := Analyze(sim.DefaultConfig(), exampleSchedule(), Options{})
	require.NoError(t, err)

	for _, imp := range report.Impacts {
		want := (math.Abs(imp.Increased.Outcome-report.Baseline) + math.Abs(imp.Decreased.Outcome-report.Baseline)) / 2
		assert.InDelta(t, want, imp.Score, 1e-6, imp.Constant)
	}
}

func TestAnalyze_BaselineFeeScalesRevenueLinearly(t *testing.T) {
	// GIVEN revenue is linear in the baseline fee
	report, err := Analyze(sim.DefaultConfig(), exampleSchedule(), Options{})
	require.NoError(t, err)

	// THEN ±10% fee gives ±10% revenue
	fee := report.Impacts[0]
	require.Equal(t, sim.ConstBaselineFee, fee.Constant)
	assert.InDelta(t, 10, fee.Increased.PercentChange, 1e-9)
	assert.InDelta(t, -10, fee.Decreased.PercentChange, 1e-9)
}

func TestAnalyze_MostImpactfulIsMaxScore(t *testing.T) {
	report, err := Analyze(sim.DefaultConfig(), exampleSchedule(), Options{})
	require.NoError(t, err)

	best := report.Impacts[0]
	for _, imp := range report.Impacts[1:] {
		if imp.Score > best.Score {
			best = imp
		}
	}
	assert.Equal(t, best.Constant, report.MostImpactful)
	assert.Equal(t, best.Constant, report.Ranked()[0].Constant)
}

func TestAnalyze_TiesGoToFirstConstant(t *testing.T) {
	// GIVEN an empty schedule, so every outcome is zero and every score ties
	report, err := Analyze(sim.DefaultConfig(), nil, Options{})
	require.NoError(t, err)

	// THEN the first constant wins and the ranking keeps insertion order
	assert.Equal(t, sim.ConstBaselineFee, report.MostImpactful)
	ranked := report.Ranked()
	for i, name := range sim.ConstantNames() {
		assert.Equal(t, name, ranked[i].Constant)
		assert.Zero(t, ranked[i].Increased.PercentChange)
	}
}

func TestAnalyze_InputConfigUnchanged(t *testing.T) {
	// GIVEN a non-default config
	cfg := sim.DefaultConfig()
	cfg.BaselineFee = 120
	cfg.ChurnReduction = 0.1
	before := cfg

	// WHEN analyzed
	_, err := Analyze(cfg, exampleSchedule(), Options{})
	require.NoError(t, err)

	// THEN every constant holds its original value
	assert.Equal(t, before, cfg)
}

func TestAnalyze_PerturbationErrorNamesConstant(t *testing.T) {
	// GIVEN a churn reduction whose +10% perturbation leaves the valid range
	cfg := sim.DefaultConfig()
	cfg.ChurnReduction = 0.95

	_, err := Analyze(cfg, exampleSchedule(), Options{})
	require.Error(t, err)

	var pe *PerturbationError
	require.True(t, errors.As(err, &pe), "want *PerturbationError, got %T", err)
	assert.Equal(t, sim.ConstChurnReduction, pe.Constant)
	assert.Equal(t, Increase, pe.Direction)

	var de *sim.DomainError
	assert.True(t, errors.As(err, &de))
}

func TestAnalyze_BaselineErrorPropagates(t *testing.T) {
	_, err := Analyze(sim.DefaultConfig(), sim.ScheduleFromTriples([][3]int{{-1, 0, 0}}), Options{})
	var de *sim.DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 0, de.Month)
}

func TestAnalyze_UnknownOutcome(t *testing.T) {
	_, err := Analyze(sim.DefaultConfig(), exampleSchedule(), Options{Outcome: "profit"})
	assert.Error(t, err)
}

func TestAnalyze_MeanCLVOutcome(t *testing.T) {
	res, err := sim.Simulate(sim.DefaultConfig(), exampleSchedule(), sim.Options{ComputeCLV: true})
	require.NoError(t, err)

	report, err := Analyze(sim.DefaultConfig(), exampleSchedule(), Options{Outcome: OutcomeMeanCLV})
	require.NoError(t, err)
	assert.Equal(t, OutcomeMeanCLV, report.Outcome)
	assert.Equal(t, res.MeanCLV, report.Baseline)
}

func TestAnalyze_ConcurrentCallsAgree(t *testing.T) {
	want, err := Analyze(sim.DefaultConfig(), exampleSchedule(), Options{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	reports := make([]*ImpactReport, 4)
	errs := make([]error, 4)
	for i := range reports {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reports[i], errs[i] = Analyze(sim.DefaultConfig(), exampleSchedule(), Options{})
		}(i)
	}
	wg.Wait()

	for i := range reports {
		require.NoError(t, errs[i])
		assert.Equal(t, want, reports[i])
	}
}

func TestTrajectories_SeriesPerConstant(t *testing.T) {
	schedule := exampleSchedule()
	base, err := sim.Simulate(sim.DefaultConfig(), schedule, sim.Options{})
	require.NoError(t, err)

	trs, err := Trajectories(sim.DefaultConfig(), schedule, Options{})
	require.NoError(t, err)
	require.Len(t, trs, len(sim.ConstantNames()))

	for _, tr := range trs {
		assert.Equal(t, base.Revenue, tr.Baseline)
		assert.Len(t, tr.Increased, len(schedule))
		assert.Len(t, tr.Decreased, len(schedule))
	}

	b, inc, dec := trs[0].Totals()
	assert.InDelta(t, base.CumulativeRevenue, b, 1e-6)
	assert.InDelta(t, base.CumulativeRevenue*1.1, inc, 1e-3)
	assert.InDelta(t, base.CumulativeRevenue*0.9, dec, 1e-3)
}

func TestTrajectories_TotalsMatchAnalyze(t *testing.T) {
	schedule := exampleSchedule()
	report, err := Analyze(sim.DefaultConfig(), schedule, Options{})
	require.NoError(t, err)
	trs, err := Trajectories(sim.DefaultConfig(), schedule, Options{})
	require.NoError(t, err)

	for i, tr := range trs {
		_, inc, dec := tr.Totals()
		assert.InDelta(t, report.Impacts[i].Increased.Outcome, inc, 1e-6, tr.Constant)
		assert.InDelta(t, report.Impacts[i].Decreased.Outcome, dec, 1e-6, tr.Constant)
	}
}

func TestTrajectories_CLVSeries(t *testing.T) {
	trs, err := Trajectories(sim.DefaultConfig(), exampleSchedule(), Options{Outcome: OutcomeMeanCLV})
	require.NoError(t, err)
	for _, tr := range trs {
		assert.Equal(t, OutcomeMeanCLV, tr.Outcome)
		assert.Len(t, tr.Baseline, 24)
	}
}

func TestAnalyze_FactorOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		factor float64
	}{
		{"negative", -0.1},
		{"one", 1},
		{"above one", 1.5},
		{"NaN", math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Analyze(sim.DefaultConfig(), exampleSchedule(), Options{Factor: tt.factor})
			assert.Error(t, err)
			_, err = Trajectories(sim.DefaultConfig(), exampleSchedule(), Options{Factor: tt.factor})
			assert.Error(t, err)
		})
	}
}

func TestAnalyze_ZeroFactorUsesDefault(t *testing.T) {
	report, err := Analyze(sim.DefaultConfig(), exampleSchedule(), Options{Factor: 0})
	require.NoError(t, err)
	assert.Equal(t, DefaultFactor, report.Factor)
}

func TestTrajectories_BaselinesAreIndependent(t *testing.T) {
	// GIVEN trajectories for every constant
	trs, err := Trajectories(sim.DefaultConfig(), exampleSchedule(), Options{})
	require.NoError(t, err)
	want := trs[1].Baseline[0]

	// WHEN one trajectory's baseline is modified
	trs[0].Baseline[0] = -1

	// THEN the others keep their values
	assert.Equal(t, want, trs[1].Baseline[0])
	assert.NotEqual(t, -1.0, trs[len(trs)-1].Baseline[0])
}
