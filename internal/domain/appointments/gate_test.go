package appointments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_DecisionTable(t *testing.T) {
	cases := []struct {
		name    string
		role    string
		from    Status
		to      Status
		isOwner bool
		want    bool
	}{
		{"doctor confirms pending", "doctor", StatusPending, StatusConfirmed, false, true},
		{"admin confirms pending", "admin", StatusPending, StatusConfirmed, false, true},
		{"patient confirms own pending", "patient", StatusPending, StatusConfirmed, true, false},
		{"doctor cancels pending", "doctor", StatusPending, StatusCancelled, false, true},
		{"admin cancels pending", "admin", StatusPending, StatusCancelled, false, true},
		{"patient cancels own pending", "patient", StatusPending, StatusCancelled, true, true},
		{"patient cancels foreign pending", "patient", StatusPending, StatusCancelled, false, false},
		{"doctor completes confirmed", "doctor", StatusConfirmed, StatusCompleted, false, true},
		{"admin completes confirmed", "admin", StatusConfirmed, StatusCompleted, false, true},
		{"patient completes own confirmed", "patient", StatusConfirmed, StatusCompleted, true, false},
		{"doctor cancels confirmed", "doctor", StatusConfirmed, StatusCancelled, false, true},
		{"admin cancels confirmed", "admin", StatusConfirmed, StatusCancelled, false, true},
		{"patient cancels own confirmed", "patient", StatusConfirmed, StatusCancelled, true, false},
		{"nothing leaves completed", "admin", StatusCompleted, StatusCancelled, false, false},
		{"nothing leaves cancelled", "admin", StatusCancelled, StatusPending, false, false},
		{"no skip pending to completed", "doctor", StatusPending, StatusCompleted, false, false},
		{"unknown role denied", "registrar", StatusPending, StatusConfirmed, false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanTransition(tc.role, tc.from, tc.to, tc.isOwner))
		})
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled} {
		assert.True(t, ValidStatus(s))
	}
	assert.False(t, ValidStatus("Approved"))
	assert.False(t, ValidStatus(""))
}
