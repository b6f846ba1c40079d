package engine

import (
	"fmt"
	"math"
)

const (
	// GasConstant is the universal gas constant in J/(kmol*K), matching molecular
	// masses given in kg/kmol.
	GasConstant = 8314.4621
	// GcSI is the gravitational conversion constant for SI units.
	GcSI = 1.0
	// StandardGravity is kept for callers that compute in gravitational units.
	StandardGravity = 9.80665
)

// Regime identifies the compressible flow regime through an orifice.
type Regime int

const (
	// Unchoked flow depends on both inlet and outlet pressure.
	Unchoked Regime = iota
	// Choked flow is sonic at the orifice and independent of outlet pressure.
	Choked
)

// String returns the lower-case regime name.
func (r Regime) String() string {
	switch r {
	case Choked:
		return "choked"
	case Unchoked:
		return "unchoked"
	default:
		return fmt.Sprintf("Regime(%d)", int(r))
	}
}

// GasFlow describes a compressible flow through an orifice.
type GasFlow struct {
	Cd          float64 // discharge coefficient (dimensionless)
	Gc          float64 // gravitational conversion constant, GcSI for SI inputs
	K           float64 // specific heat ratio (dimensionless)
	Z           float64 // compressibility factor (dimensionless)
	Temperature float64 // inlet temperature (K)
	MolarMass   float64 // molecular mass (kg/kmol)
	P1          float64 // inlet pressure (psi)
	P2          float64 // outlet pressure (psi)
	Area        float64 // orifice area (m^2)
}

// Flow is the result of GasMassFlow.
type Flow struct {
	MassFlow float64 // kg/s
	Regime   Regime
}

// CriticalPressureRatio returns p2/p1 below which the throat of an orifice reaches
// sonic velocity for a gas with specific heat ratio k.
func CriticalPressureRatio(k float64) float64 {
	return math.Pow(2/(k+1), k/(k-1))
}

// GasMassFlow returns the compressible mass flow through an orifice, selecting the
// choked or unchoked formula from the pressure ratio.
//
// The gravitational conversion constant multiplies both branches, so the result is
// continuous where p2/p1 equals the critical pressure ratio.
func GasMassFlow(g GasFlow) (Flow, error) {
	if err := g.validate(); err != nil {
		return Flow{}, err
	}

	p1 := PSIToPa(g.P1)
	p2 := PSIToPa(g.P2)
	k := g.K
	pcritical := CriticalPressureRatio(k)
	density := p1 / (g.Z * (GasConstant / g.MolarMass) * g.Temperature)

	if pcritical*p1 > p2 {
		mf := g.Cd * g.Area * math.Sqrt(g.Gc*k*density*p1*math.Pow(2/(k+1), (k+1)/(k-1)))
		return Flow{MassFlow: mf, Regime: Choked}, nil
	}

	pratio := p2 / p1
	term := (2 * g.MolarMass * g.Gc) / (g.Z * GasConstant * g.Temperature) *
		(k / (k - 1)) *
		(math.Pow(pratio, 2/k) - math.Pow(pratio, (k+1)/k))
	if term < 0 {
		return Flow{}, fmt.Errorf("%w: negative unchoked flow term %g", ErrDomain, term)
	}

	return Flow{MassFlow: g.Area * g.Cd * p1 * math.Sqrt(term), Regime: Unchoked}, nil
}

func (g GasFlow) validate() error {
	if err := checkFinite(
		"cd", g.Cd, "gc", g.Gc, "k", g.K, "z", g.Z, "temperature", g.Temperature,
		"molar mass", g.MolarMass, "p1", g.P1, "p2", g.P2, "area", g.Area,
	); err != nil {
		return err
	}

	switch {
	case g.P1 == 0:
		return fmt.Errorf("%w: zero inlet pressure", ErrDivideByZero)
	case g.K == 1:
		return fmt.Errorf("%w: specific heat ratio of 1", ErrDivideByZero)
	case g.Z == 0:
		return fmt.Errorf("%w: zero compressibility", ErrDivideByZero)
	case g.Temperature == 0:
		return fmt.Errorf("%w: zero temperature", ErrDivideByZero)
	case g.MolarMass == 0:
		return fmt.Errorf("%w: zero molecular mass", ErrDivideByZero)
	case g.K < 1:
		return fmt.Errorf("%w: specific heat ratio %g below 1", ErrDomain, g.K)
	case g.P1 < 0 || g.P2 < 0:
		return fmt.Errorf("%w: negative pressure (p1=%g psi, p2=%g psi)", ErrDomain, g.P1, g.P2)
	case g.P2 > g.P1:
		return fmt.Errorf("%w: outlet pressure %g psi above inlet %g psi", ErrDomain, g.P2, g.P1)
	case g.Z < 0:
		return fmt.Errorf("%w: negative compressibility %g", ErrDomain, g.Z)
	case g.Temperature < 0:
		return fmt.Errorf("%w: negative temperature %g K", ErrDomain, g.Temperature)
	case g.MolarMass < 0:
		return fmt.Errorf("%w: negative molecular mass %g", ErrDomain, g.MolarMass)
	case g.Gc <= 0:
		return fmt.Errorf("%w: gravitational constant %g must be positive", ErrDomain, g.Gc)
	case g.Cd < 0:
		return fmt.Errorf("%w: negative discharge coefficient %g", ErrDomain, g.Cd)
	case g.Area < 0:
		return fmt.Errorf("%w: negative area %g", ErrDomain, g.Area)
	}
	return nil
}
