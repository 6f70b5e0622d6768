package sim

import "math"

// cohort tracks per-customer managed tenure and billed fee for the active base.
// The two slices are always the same length: the current customer count.
// Churn evicts from the front; acquisition appends to the back.
type cohort struct {
	managedMonths []int
	fees          []float64
}

func newCohort(customers int, fee float64) *cohort {
	c := &cohort{
		managedMonths: make([]int, 0, customers),
		fees:          make([]float64, 0, customers),
	}
	c.acquire(customers, fee)
	return c
}

func (c *cohort) size() int {
	return len(c.fees)
}

// evict drops n customers from the front of the cohort.
func (c *cohort) evict(n int) {
	if n <= 0 {
		return
	}
	n = min(n, c.size())
	c.managedMonths = c.managedMonths[n:]
	c.fees = c.fees[n:]
}

// acquire appends n unmanaged customers billed at fee.
func (c *cohort) acquire(n int, fee float64) {
	if n <= 0 {
		return
	}
	for i := 0; i < n; i++ {
		c.managedMonths = append(c.managedMonths, 0)
		c.fees = append(c.fees, fee)
	}
}

// manage advances tenure for the first `managed` customers, resets the rest,
// reprices everyone and returns the month's revenue.
func (c *cohort) manage(managed int, cfg Config) float64 {
	revenue := 0.0
	for i := range c.fees {
		if i < managed {
			if c.managedMonths[i] < cfg.MaxManagedMonths {
				c.managedMonths[i]++
			}
			c.fees[i] = managedFee(cfg, c.managedMonths[i])
		} else {
			c.managedMonths[i] = 0
			c.fees[i] = cfg.BaselineFee
		}
		revenue += c.fees[i]
	}
	return revenue
}

// managedFee is the baseline fee compounded by FeeGrowthRate over the managed tenure.
func managedFee(cfg Config, months int) float64 {
	return cfg.BaselineFee * math.Pow(1+cfg.FeeGrowthRate, float64(months))
}
