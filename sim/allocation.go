package sim

import (
	"fmt"
	"sort"
)

// AllocationMonth is the headcount split for a single month.
type AllocationMonth struct {
	NewBusiness     int `yaml:"new_business" json:"new_business"`
	AccountManagers int `yaml:"account_managers" json:"account_managers"`
	Support         int `yaml:"support" json:"support"`
}

// Total returns the month's total headcount.
func (a AllocationMonth) Total() int {
	return a.NewBusiness + a.AccountManagers + a.Support
}

func (a AllocationMonth) String() string {
	return fmt.Sprintf("[%d %d %d]", a.NewBusiness, a.AccountManagers, a.Support)
}

// Validate rejects negative headcount. month is used only for error reporting.
func (a AllocationMonth) Validate(month int) error {
	roles := []struct {
		name string
		n    int
	}{
		{"new_business", a.NewBusiness},
		{"account_managers", a.AccountManagers},
		{"support", a.Support},
	}
	for _, r := range roles {
		if r.n < 0 {
			return &DomainError{Month: month, Field: r.name, Value: float64(r.n), Reason: "headcount must be non-negative"}
		}
	}
	return nil
}

// Schedule is one AllocationMonth per simulated month.
type Schedule []AllocationMonth

// Validate checks every month for negative headcount.
func (s Schedule) Validate() error {
	for m, a := range s {
		if err := a.Validate(m); err != nil {
			return err
		}
	}
	return nil
}

// ValidateBudget checks that every month is valid and sums to total.
func (s Schedule) ValidateBudget(total int) error {
	if err := s.Validate(); err != nil {
		return err
	}
	for m, a := range s {
		if a.Total() != total {
			return &InvariantViolation{Month: m, Got: a.Total(), Budget: total}
		}
	}
	return nil
}

// Clone returns a deep copy.
func (s Schedule) Clone() Schedule {
	out := make(Schedule, len(s))
	copy(out, s)
	return out
}

// ScheduleFromTriples converts [new_business, account_managers, support] rows.
func ScheduleFromTriples(rows [][3]int) Schedule {
	s := make(Schedule, len(rows))
	for i, r := range rows {
		s[i] = AllocationMonth{NewBusiness: r[0], AccountManagers: r[1], Support: r[2]}
	}
	return s
}

// Repair projects a month onto the budget simplex: negative entries are clipped to
// zero, the rest are rescaled proportionally and rounded with the largest-remainder
// method so the result sums exactly to total. An all-zero month is split evenly,
// earlier roles taking the remainder.
func Repair(a AllocationMonth, total int) AllocationMonth {
	if total <= 0 {
		return AllocationMonth{}
	}
	vals := [3]int{max(a.NewBusiness, 0), max(a.AccountManagers, 0), max(a.Support, 0)}
	sum := vals[0] + vals[1] + vals[2]
	if sum == total {
		return AllocationMonth{NewBusiness: vals[0], AccountManagers: vals[1], Support: vals[2]}
	}

	var out [3]int
	if sum == 0 {
		for i := range out {
			out[i] = total / 3
		}
		for i := 0; i < total%3; i++ {
			out[i]++
		}
		return AllocationMonth{NewBusiness: out[0], AccountManagers: out[1], Support: out[2]}
	}

	type rem struct {
		idx  int
		frac float64
	}
	rems := make([]rem, 3)
	assigned := 0
	for i, v := range vals {
		exact := float64(v) * float64(total) / float64(sum)
		out[i] = int(exact)
		assigned += out[i]
		rems[i] = rem{idx: i, frac: exact - float64(out[i])}
	}
	sort.SliceStable(rems, func(i, j int) bool { return rems[i].frac > rems[j].frac })
	for i := 0; assigned < total; i++ {
		out[rems[i%3].idx]++
		assigned++
	}
	return AllocationMonth{NewBusiness: out[0], AccountManagers: out[1], Support: out[2]}
}

// RepairSchedule applies Repair to every month and returns a new schedule.
func RepairSchedule(s Schedule, total int) Schedule {
	out := make(Schedule, len(s))
	for i, a := range s {
		out[i] = Repair(a, total)
	}
	return out
}
