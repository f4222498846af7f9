package errors

import (
	"math"
)

// ValidatePositive checks that a physical quantity is finite and strictly
// positive. Diameters, lengths and fluid properties all go through here.
func ValidatePositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeDomain, "%s must be finite, got %v", name, v)
	}
	if v <= 0 {
		return New(ErrCodeDomain, "%s must be positive, got %g", name, v)
	}
	return nil
}

// ValidateNonNegative checks that a quantity is finite and not negative.
// Pipe roughness may be zero (hydraulically smooth pipe).
func ValidateNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeDomain, "%s must be finite, got %v", name, v)
	}
	if v < 0 {
		return New(ErrCodeDomain, "%s must not be negative, got %g", name, v)
	}
	return nil
}

// ValidateFraction checks that v lies in the half-open interval (0, 1].
// Used for efficiencies and volume fractions.
func ValidateFraction(name string, v float64) error {
	if err := ValidatePositive(name, v); err != nil {
		return err
	}
	if v > 1 {
		return New(ErrCodeDomain, "%s must not exceed 1, got %g", name, v)
	}
	return nil
}

// ValidateAscending checks that values is non-empty, strictly ascending and
// strictly positive. Sweep grids must satisfy this.
func ValidateAscending(name string, values []float64) error {
	if len(values) == 0 {
		return New(ErrCodeDomain, "%s cannot be empty", name)
	}
	for i, v := range values {
		if err := ValidatePositive(name, v); err != nil {
			return err
		}
		if i > 0 && v <= values[i-1] {
			return New(ErrCodeDomain, "%s must be strictly ascending (index %d: %g <= %g)",
				name, i, v, values[i-1])
		}
	}
	return nil
}
