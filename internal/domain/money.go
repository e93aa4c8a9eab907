package domain

import (
	"math"
	"time"
)

// Earnings computes unrounded earnings for a span of active time at an hourly
// rate. Negative durations are clamped to zero before multiplication.
// Rounding happens only at persistence or final display, never on
// intermediate figures, to avoid compounding rounding error.
func Earnings(elapsed time.Duration, hourlyRate float64) float64 {
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed.Hours() * hourlyRate
}

// EarningsForSeconds computes unrounded earnings for a duration in whole seconds.
func EarningsForSeconds(seconds int64, hourlyRate float64) float64 {
	if seconds < 0 {
		seconds = 0
	}
	return float64(seconds) / 3600 * hourlyRate
}

// RoundUSD rounds a dollar amount to 2 decimal places.
func RoundUSD(v float64) float64 {
	return math.Round(v*100) / 100
}
