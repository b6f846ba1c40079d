// Package engine calculates rocket engine properties from live test-stand readings:
// propellant mass flow through an orifice (liquid and gas) and nozzle thrust.
//
// Every function is a pure computation over its arguments and is safe for concurrent use.
// Pressures are accepted in psi (absolute) and converted internally.
package engine

const (
	// PascalPerPSI converts psi to Pa (kg/(m*s^2)).
	PascalPerPSI = 6894.75729
	// MegapascalPerPSI converts psi to MPa.
	MegapascalPerPSI = 0.00689475729
	// PoundsPerKilogram converts kg to lb.
	PoundsPerKilogram = 2.20462262
	// PoundForcePerNewton converts N to lbf.
	PoundForcePerNewton = 0.22481
)

// PSIToPa converts pressure in psi to pascal.
func PSIToPa(psi float64) float64 { return psi * PascalPerPSI }

// PaToPSI converts pressure in pascal to psi.
func PaToPSI(pa float64) float64 { return pa / PascalPerPSI }

// PSIToMPa converts pressure in psi to megapascal.
func PSIToMPa(psi float64) float64 { return psi * MegapascalPerPSI }

// MPaToPSI converts pressure in megapascal to psi.
func MPaToPSI(mpa float64) float64 { return mpa / MegapascalPerPSI }

// MassFlow holds one mass flow rate in four units, ordered
// kg/s, kg/min, lb/s, lb/min.
type MassFlow [4]float64

// ConvertMassFlow expands a mass flow rate in kg/s into all supported units.
func ConvertMassFlow(kgPerSec float64) MassFlow {
	lbPerSec := kgPerSec * PoundsPerKilogram
	return MassFlow{
		kgPerSec,
		kgPerSec * 60,
		lbPerSec,
		lbPerSec * 60,
	}
}

// KgPerSec returns the flow in kg/s.
func (m MassFlow) KgPerSec() float64 { return m[0] }

// KgPerMin returns the flow in kg/min.
func (m MassFlow) KgPerMin() float64 { return m[1] }

// LbPerSec returns the flow in lb/s.
func (m MassFlow) LbPerSec() float64 { return m[2] }

// LbPerMin returns the flow in lb/min.
func (m MassFlow) LbPerMin() float64 { return m[3] }
