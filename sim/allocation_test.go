package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedule_ValidateBudget(t *testing.T) {
	ok := ScheduleFromTriples([][3]int{{10, 5, 5}, {0, 20, 0}})
	assert.NoError(t, ok.ValidateBudget(20))

	bad := ScheduleFromTriples([][3]int{{10, 5, 5}, {0, 19, 0}})
	err := bad.ValidateBudget(20)
	var iv *InvariantViolation
	require.True(t, errors.As(err, &iv))
	assert.Equal(t, 1, iv.Month)
	assert.Equal(t, 19, iv.Got)
	assert.Equal(t, 20, iv.Budget)
}

func TestSchedule_ValidateBudget_NegativeIsDomainError(t *testing.T) {
	err := ScheduleFromTriples([][3]int{{25, -5, 0}}).ValidateBudget(20)
	var de *DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 0, de.Month)
	assert.Equal(t, "account_managers", de.Field)
}

func TestRepair(t *testing.T) {
	tests := []struct {
		name  string
		in    AllocationMonth
		total int
		want  AllocationMonth
	}{
		{"already on budget", AllocationMonth{10, 5, 5}, 20, AllocationMonth{10, 5, 5}},
		{"over budget even split", AllocationMonth{10, 10, 10}, 20, AllocationMonth{7, 7, 6}},
		{"over budget proportional", AllocationMonth{30, 0, 10}, 20, AllocationMonth{15, 0, 5}},
		{"under budget", AllocationMonth{1, 1, 2}, 20, AllocationMonth{5, 5, 10}},
		{"negative clipped", AllocationMonth{-3, 5, 5}, 20, AllocationMonth{0, 10, 10}},
		{"all zero", AllocationMonth{}, 20, AllocationMonth{7, 7, 6}},
		{"zero budget", AllocationMonth{3, 3, 3}, 0, AllocationMonth{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Repair(tt.in, tt.total)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, max(tt.total, 0), got.Total())
		})
	}
}

func TestRepairSchedule_SatisfiesBudget(t *testing.T) {
	s := ScheduleFromTriples([][3]int{{14, 0, 6}, {3, 3, 3}, {0, 40, 0}, {7, 8, 9}})
	repaired := RepairSchedule(s, 20)
	assert.NoError(t, repaired.ValidateBudget(20))
	assert.Equal(t, AllocationMonth{14, 0, 6}, repaired[0])
	// the input is not modified
	assert.Equal(t, AllocationMonth{0, 40, 0}, s[2])
}

func TestSchedule_Clone_Independent(t *testing.T) {
	s := ScheduleFromTriples([][3]int{{1, 2, 3}})
	c := s.Clone()
	c[0].Support = 99
	assert.Equal(t, 3, s[0].Support)
}
