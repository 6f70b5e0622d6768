package optimize

import (
	"math/rand"

	"github.com/staffsim/staffsim/sim"
)

// randomMonth draws a month on the budget: new business uniform on [0, total],
// account managers uniform on what is left, support takes the remainder.
func randomMonth(rng *rand.Rand, total int) sim.AllocationMonth {
	nb := rng.Intn(total + 1)
	am := rng.Intn(total - nb + 1)
	return sim.AllocationMonth{NewBusiness: nb, AccountManagers: am, Support: total - nb - am}
}

func randomSchedule(rng *rand.Rand, months, total int) sim.Schedule {
	s := make(sim.Schedule, months)
	for i := range s {
		s[i] = randomMonth(rng, total)
	}
	return s
}

// tournament selects k indices. Each pick samples size aspirants with
// replacement and keeps the fittest; the earliest aspirant wins a tie.
func tournament(rng *rand.Rand, fitness []float64, k, size int) []int {
	chosen := make([]int, k)
	for i := range chosen {
		best := rng.Intn(len(fitness))
		for j := 1; j < size; j++ {
			a := rng.Intn(len(fitness))
			if fitness[a] > fitness[best] {
				best = a
			}
		}
		chosen[i] = best
	}
	return chosen
}

// crossTwoPoint swaps the months between two cut points of a and b in place.
// Whole months move, so each child keeps every month on budget.
func crossTwoPoint(rng *rand.Rand, a, b sim.Schedule) {
	size := min(len(a), len(b))
	if size < 2 {
		return
	}
	cx1 := 1 + rng.Intn(size)
	cx2 := 1 + rng.Intn(size-1)
	if cx2 >= cx1 {
		cx2++
	} else {
		cx1, cx2 = cx2, cx1
	}
	for i := cx1; i < cx2; i++ {
		a[i], b[i] = b[i], a[i]
	}
}

// shuffleMonths swaps each month, with probability p, with another month.
func shuffleMonths(rng *rand.Rand, s sim.Schedule, p float64) {
	size := len(s)
	if size < 2 {
		return
	}
	for i := range s {
		if rng.Float64() < p {
			j := rng.Intn(size - 1)
			if j >= i {
				j++
			}
			s[i], s[j] = s[j], s[i]
		}
	}
}

// transferHeadcount moves, with probability p per month, one person from a
// staffed role to a different role of the same month.
func transferHeadcount(rng *rand.Rand, s sim.Schedule, p float64) {
	for i := range s {
		if rng.Float64() >= p {
			continue
		}
		roles := [3]*int{&s[i].NewBusiness, &s[i].AccountManagers, &s[i].Support}
		staffed := make([]int, 0, 3)
		for r, n := range roles {
			if *n > 0 {
				staffed = append(staffed, r)
			}
		}
		if len(staffed) == 0 {
			continue
		}
		from := staffed[rng.Intn(len(staffed))]
		to := rng.Intn(2)
		if to >= from {
			to++
		}
		*roles[from]--
		*roles[to]++
	}
}

// mutate applies both month-level mutations.
func mutate(rng *rand.Rand, s sim.Schedule, p float64) {
	shuffleMonths(rng, s, p)
	transferHeadcount(rng, s, p)
}

// enforceBudget repairs every month of s that is off budget and returns how
// many months it changed.
func enforceBudget(s sim.Schedule, total int) int {
	if s.ValidateBudget(total) == nil {
		return 0
	}
	repaired := 0
	for i, a := range s {
		if a.Validate(i) != nil || a.Total() != total {
			s[i] = sim.Repair(a, total)
			repaired++
		}
	}
	return repaired
}
