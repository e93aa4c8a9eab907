package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEarnings(t *testing.T) {
	tests := []struct {
		name     string
		elapsed  time.Duration
		rate     float64
		expected float64
	}{
		{"one hour", time.Hour, 150, 150},
		{"half hour", 30 * time.Minute, 150, 75},
		{"zero elapsed", 0, 150, 0},
		{"zero rate", time.Hour, 0, 0},
		{"negative clamped", -time.Hour, 150, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Earnings(tt.elapsed, tt.rate), 0.0001)
		})
	}
}

func TestEarningsForSeconds(t *testing.T) {
	assert.InDelta(t, 150, EarningsForSeconds(3600, 150), 0.0001)
	assert.InDelta(t, 0.2777, EarningsForSeconds(10, 100), 0.0001)
	assert.Equal(t, float64(0), EarningsForSeconds(-5, 100))
}

func TestRoundUSD(t *testing.T) {
	assert.Equal(t, 0.28, RoundUSD(0.27777))
	assert.Equal(t, 150.00, RoundUSD(150.004))
	assert.Equal(t, 0.00, RoundUSD(0))
}
