package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionPrice(t *testing.T) {
	assert.Equal(t, 50.0, SessionPrice(100, 30))
	assert.Equal(t, 150.0, SessionPrice(100, 90))
	assert.Equal(t, 150.0, SessionPrice(75, 120))
	assert.Equal(t, 12.5, SessionPrice(25, 30))
}

func TestCommissionEngine_Split(t *testing.T) {
	engine := NewCommissionEngine(0.20)

	split := engine.Split(SessionPrice(100, 30))
	assert.Equal(t, 10.0, split.PlatformShare)
	assert.Equal(t, 40.0, split.ExpertShare)
}

func TestCommissionEngine_SharesSumToPrice(t *testing.T) {
	rates := []float64{0, 0.1, 0.15, 0.2, 0.333, 0.5}
	prices := []float64{0.01, 9.99, 33.33, 41.67, 50, 62.5, 199.99, 1234.56}

	for _, rate := range rates {
		engine := NewCommissionEngine(rate)
		for _, price := range prices {
			split := engine.Split(price)
			assert.InDelta(t, price, split.PlatformShare+split.ExpertShare, 0.005, "rate=%v price=%v", rate, price)
			assert.GreaterOrEqual(t, split.ExpertShare, 0.0)
		}
	}
}
