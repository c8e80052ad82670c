package session

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

func TestIsActiveSlotViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "active slot index",
			err:  &pq.Error{Code: "23505", Constraint: "sessions_active_slot_uidx"},
			want: true,
		},
		{
			name: "wrapped",
			err:  fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Constraint: "sessions_active_slot_uidx"}),
			want: true,
		},
		{
			name: "other unique index",
			err:  &pq.Error{Code: "23505", Constraint: "sessions_pkey"},
		},
		{
			name: "check violation",
			err:  &pq.Error{Code: "23514", Constraint: "sessions_active_slot_uidx"},
		},
		{
			name: "not a driver error",
			err:  errors.New("connection reset"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isActiveSlotViolation(tt.err))
		})
	}
}

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, []string{"pending", "confirmed"}, statusStrings(domain.ActiveStatuses))
}
