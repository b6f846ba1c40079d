package engine

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrDomain is returned when an input would take a square root or power of a
	// negative number, e.g. reverse flow across an orifice. Non-finite and
	// unphysical negative inputs are reported the same way.
	ErrDomain = errors.New("engine: value outside physical domain")
	// ErrDivideByZero is returned when a pressure, area or gas property that
	// appears in a denominator is zero.
	ErrDivideByZero = errors.New("engine: division by zero")
)

// checkFinite returns ErrDomain naming the first NaN or infinite value.
// Arguments alternate name, value.
func checkFinite(named ...any) error {
	for i := 0; i+1 < len(named); i += 2 {
		v := named[i+1].(float64)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is %g", ErrDomain, named[i], v)
		}
	}
	return nil
}
