package engine

import (
	"fmt"
	"math"
)

// Nozzle describes a firing engine nozzle.
type Nozzle struct {
	K          float64 // specific heat ratio of the exhaust
	Chamber    float64 // chamber pressure (psi)
	Exit       float64 // nozzle exit pressure (psi)
	Ambient    float64 // atmospheric pressure (psi)
	ExitArea   float64 // m^2
	ThroatArea float64 // m^2
}

// ThrustResult is the output of Thrust.
type ThrustResult struct {
	Cf  float64 // thrust coefficient
	LBF float64 // thrust in pounds force
}

// ThrustCoefficient returns the nozzle thrust coefficient Cf, including the
// pressure imbalance term (p2-p3)/p1 * Ae/At.
func ThrustCoefficient(n Nozzle) (float64, error) {
	if err := n.validate(); err != nil {
		return 0, err
	}

	k := n.K
	p1 := PSIToMPa(n.Chamber)
	p2 := PSIToMPa(n.Exit)
	p3 := PSIToMPa(n.Ambient)

	term := (2 * k * k / (k - 1)) *
		math.Pow(2/(k+1), (k+1)/(k-1)) *
		(1 - math.Pow(p2/p1, (k-1)/k))
	if term < 0 || math.IsNaN(term) {
		return 0, fmt.Errorf("%w: negative momentum term %g", ErrDomain, term)
	}

	return math.Sqrt(term) + ((p2-p3)/p1)*(n.ExitArea/n.ThroatArea), nil
}

// Thrust returns the thrust coefficient and the resulting thrust in lbf.
func Thrust(n Nozzle) (ThrustResult, error) {
	cf, err := ThrustCoefficient(n)
	if err != nil {
		return ThrustResult{}, err
	}

	// MPa * m^2 = MN
	force := cf * PSIToMPa(n.Chamber) * n.ThroatArea * 1e6 * PoundForcePerNewton
	return ThrustResult{Cf: cf, LBF: force}, nil
}

func (n Nozzle) validate() error {
	if err := checkFinite(
		"k", n.K, "chamber", n.Chamber, "exit", n.Exit, "ambient", n.Ambient,
		"exit area", n.ExitArea, "throat area", n.ThroatArea,
	); err != nil {
		return err
	}

	switch {
	case n.Chamber == 0:
		return fmt.Errorf("%w: zero chamber pressure", ErrDivideByZero)
	case n.ThroatArea == 0:
		return fmt.Errorf("%w: zero throat area", ErrDivideByZero)
	case n.K == 1:
		return fmt.Errorf("%w: specific heat ratio of 1", ErrDivideByZero)
	case n.K < 1:
		return fmt.Errorf("%w: specific heat ratio %g below 1", ErrDomain, n.K)
	case n.Chamber < 0 || n.Exit < 0 || n.Ambient < 0:
		return fmt.Errorf("%w: negative pressure (chamber=%g psi, exit=%g psi, ambient=%g psi)", ErrDomain, n.Chamber, n.Exit, n.Ambient)
	case n.ThroatArea < 0 || n.ExitArea < 0:
		return fmt.Errorf("%w: negative area (exit=%g, throat=%g)", ErrDomain, n.ExitArea, n.ThroatArea)
	}
	return nil
}
