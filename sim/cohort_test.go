package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCohort_EvictFromFront(t *testing.T) {
	// GIVEN three original customers and two newcomers
	c := newCohort(3, 100)
	c.managedMonths[0] = 4
	c.acquire(2, 100)

	// WHEN two customers churn
	c.evict(2)

	// THEN the oldest are removed and tenure of the rest is kept
	assert.Equal(t, 3, c.size())
	assert.Equal(t, []int{0, 0, 0}, c.managedMonths)
	assert.Len(t, c.fees, 3)
}

func TestCohort_EvictMoreThanSize(t *testing.T) {
	c := newCohort(2, 100)
	c.evict(5)
	assert.Zero(t, c.size())
}

func TestCohort_ManageAdvancesTenureAndResetsTheRest(t *testing.T) {
	cfg := DefaultConfig()
	c := newCohort(4, cfg.BaselineFee)
	c.managedMonths[3] = 2

	// WHEN the first two customers are managed
	revenue := c.manage(2, cfg)

	// THEN they move to tenure 1 and the others drop back to the baseline fee
	assert.Equal(t, []int{1, 1, 0, 0}, c.managedMonths)
	assert.InDelta(t, 120.0, c.fees[0], 1e-9)
	assert.Equal(t, cfg.BaselineFee, c.fees[3])
	assert.InDelta(t, 2*120.0+2*100.0, revenue, 1e-9)
}

func TestCohort_ManageCapsTenure(t *testing.T) {
	cfg := DefaultConfig()
	c := newCohort(1, cfg.BaselineFee)
	for i := 0; i < cfg.MaxManagedMonths+3; i++ {
		c.manage(1, cfg)
	}
	assert.Equal(t, cfg.MaxManagedMonths, c.managedMonths[0])
	assert.InDelta(t, managedFee(cfg, cfg.MaxManagedMonths), c.fees[0], 1e-9)
}

func TestManagedFee_NegativeGrowth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FeeGrowthRate = -0.5
	assert.InDelta(t, 25.0, managedFee(cfg, 2), 1e-9)
}

func TestCohort_NonPositiveCountsAreNoOps(t *testing.T) {
	c := newCohort(3, 100)
	c.evict(-5)
	c.acquire(-2, 100)
	c.evict(0)
	assert.Equal(t, 3, c.size())
}
