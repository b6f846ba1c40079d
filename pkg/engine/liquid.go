package engine

import (
	"fmt"
	"math"
)

// LiquidMassFlow returns the incompressible mass flow (kg/s) through an orifice.
//
//	cd      discharge coefficient (dimensionless, typically 0.6-0.9)
//	density liquid density (kg/m^3)
//	p1, p2  inlet and outlet pressure (psi)
//	area    orifice area (m^2)
//
// The SI form is used, so no gravitational factor appears: mf = A*Cd*sqrt(2*dp*rho).
// An outlet pressure above the inlet pressure, a negative coefficient, density or
// area, or a non-finite input is reported as ErrDomain.
func LiquidMassFlow(cd, density, p1, p2, area float64) (float64, error) {
	if err := checkFinite("cd", cd, "density", density, "p1", p1, "p2", p2, "area", area); err != nil {
		return 0, err
	}
	switch {
	case cd < 0:
		return 0, fmt.Errorf("%w: negative discharge coefficient %g", ErrDomain, cd)
	case density < 0:
		return 0, fmt.Errorf("%w: negative density %g", ErrDomain, density)
	case area < 0:
		return 0, fmt.Errorf("%w: negative area %g", ErrDomain, area)
	}

	drop := PSIToPa(p1) - PSIToPa(p2)
	if drop < 0 {
		return 0, fmt.Errorf("%w: negative pressure drop (p1=%g psi, p2=%g psi)", ErrDomain, p1, p2)
	}

	return area * cd * math.Sqrt(2*drop*density), nil
}
