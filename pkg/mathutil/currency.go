// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/landtakeoffs/land-takeoffs/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * constants.PercentageMultiplier
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage float64) float64 {
	return value * (percentage / constants.PercentageMultiplier)
}

// Quotient is the result of a guarded division. Applicable is false when the
// denominator was zero, in which case Value is zero and the metric should be
// reported as not applicable rather than NaN.
type Quotient struct {
	Value      float64 `json:"value"`
	Applicable bool    `json:"applicable"`
}

// SafeDivide divides numerator by denominator, flagging a zero denominator
// instead of producing NaN or Inf.
func SafeDivide(numerator, denominator float64) Quotient {
	if denominator == 0 {
		return Quotient{}
	}
	return Quotient{Value: numerator / denominator, Applicable: true}
}

// CeilCount returns the number of spacing-sized intervals needed to cover
// length, rounded up, never less than one when length is positive.
func CeilCount(length, spacing float64) float64 {
	if length <= 0 || spacing <= 0 {
		return 0
	}
	return math.Ceil(length / spacing)
}
