package sim

import "fmt"

// NoMonth marks a DomainError that is not tied to a simulated month (e.g. a bad Config field).
const NoMonth = -1

// DomainError reports an input or intermediate value outside the model's domain:
// a negative rate, a negative headcount, or a zero divisor in CLV mode.
// Month is the 0-based month that triggered the error, or NoMonth.
type DomainError struct {
	Month  int
	Field  string
	Value  float64
	Reason string
}

func (e *DomainError) Error() string {
	if e.Month == NoMonth {
		return fmt.Sprintf("domain error: %s=%v: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("domain error in month %d: %s=%v: %s", e.Month, e.Field, e.Value, e.Reason)
}

func newConfigError(field string, value float64, reason string) *DomainError {
	return &DomainError{Month: NoMonth, Field: field, Value: value, Reason: reason}
}

// InvariantViolation reports a schedule month whose headcount does not sum to the budget.
type InvariantViolation struct {
	Month  int
	Got    int
	Budget int
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("month %d: headcount sums to %d, budget is %d", e.Month, e.Got, e.Budget)
}
