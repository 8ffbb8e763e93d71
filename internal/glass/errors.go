package glass

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter is returned when a numeric parameter is out of range.
// It is the only error the transform raises, and it is always raised before
// any pixel work begins.
var ErrInvalidParameter = errors.New("invalid parameter")

func checkNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: %s must be a finite value >= 0, got %v", ErrInvalidParameter, name, v)
	}
	return nil
}

func checkPositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("%w: %s must be a finite value > 0, got %v", ErrInvalidParameter, name, v)
	}
	return nil
}
