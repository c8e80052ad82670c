package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCancellationPolicy_RefundAmount(t *testing.T) {
	policy := DefaultCancellationPolicy()

	tests := []struct {
		hours float64
		want  float64
	}{
		{hours: 30, want: 200},
		{hours: 24, want: 200},
		{hours: 23.99, want: 100},
		{hours: 18, want: 100},
		{hours: 12, want: 100},
		{hours: 11.99, want: 0},
		{hours: 6, want: 0},
		{hours: -1, want: 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, policy.RefundAmount(200, tt.hours), "hours=%v", tt.hours)
	}
}

func TestCancellationPolicy_FractionIsMonotonic(t *testing.T) {
	policy := DefaultCancellationPolicy()

	prev := policy.RefundFraction(100)
	for h := 100.0; h >= -5; h -= 0.25 {
		f := policy.RefundFraction(h)
		assert.Contains(t, []float64{FullRefund, HalfRefund, NoRefund}, f)
		assert.LessOrEqual(t, f, prev, "fraction increased at %v hours", h)
		prev = f
	}
}

func TestHoursUntil_UsesTimeOfDay(t *testing.T) {
	startsAt := time.Date(2026, 10, 20, 18, 0, 0, 0, time.UTC)
	at := time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC)

	// по одной дате было бы 24 часа и полный возврат
	assert.Equal(t, 22.0, HoursUntil(startsAt, at))
	assert.Equal(t, HalfRefund, DefaultCancellationPolicy().RefundFraction(HoursUntil(startsAt, at)))
}
