package sim

// lifetimeValue estimates a month's customer lifetime value.
//
//	arpu             = revenue / customers
//	revenueChurnRate = churnRate * (ChurnedRevenueReference / arpu)
//	lifetime         = 1 / revenueChurnRate  (months)
//	clv              = arpu * lifetime
//
// Every divisor is checked so a bad month surfaces as a DomainError instead of Inf or NaN.
func lifetimeValue(cfg Config, month int, revenue float64, customers int, churnRate float64) (float64, error) {
	if customers <= 0 {
		return 0, &DomainError{Month: month, Field: "customers", Value: float64(customers), Reason: "no customers left to compute average revenue"}
	}
	arpu := revenue / float64(customers)
	if arpu <= 0 {
		return 0, &DomainError{Month: month, Field: "average_revenue_per_customer", Value: arpu, Reason: "must be positive in CLV mode"}
	}
	revenueChurnRate := churnRate * (cfg.ChurnedRevenueReference / arpu)
	if revenueChurnRate <= 0 {
		return 0, &DomainError{Month: month, Field: "revenue_churn_rate", Value: revenueChurnRate, Reason: "zero revenue churn gives an unbounded lifetime"}
	}
	lifetime := 1 / revenueChurnRate
	return arpu * lifetime, nil
}
