// Package sensor converts raw analog readings from the test-stand sensors into
// physical quantities: an amplified thermocouple, a 0.5-4.5V pressure transducer
// and an FC22 load cell.
//
// Conversions use float32 to match the microcontroller build. None of the types
// set up pins; callers read the ADC and pass the count in.
package sensor

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"periph.io/x/conn/v3/physic"
)

const (
	// DefaultVRef is the ADC reference voltage of a 5V board.
	DefaultVRef = 5.0
	// DefaultResolution is the number of steps of a 10-bit ADC.
	DefaultResolution = 1024
)

var (
	// ErrOutOfRange is returned for an ADC count outside [0, Resolution).
	ErrOutOfRange = errors.New("sensor: reading out of range")
	// ErrCalibration is returned by constructors given unusable calibration values.
	ErrCalibration = errors.New("sensor: invalid calibration")
)

// ADC describes the analog to digital converter the sensor is wired to.
type ADC struct {
	VRef       float32 // reference voltage (V)
	Resolution int     // number of steps, e.g. 1024 for 10 bits
}

// DefaultADC returns a 10-bit, 5V ADC.
func DefaultADC() ADC {
	return ADC{VRef: DefaultVRef, Resolution: DefaultResolution}
}

func (a ADC) withDefaults() ADC {
	if a.VRef == 0 {
		a.VRef = DefaultVRef
	}
	if a.Resolution == 0 {
		a.Resolution = DefaultResolution
	}
	return a
}

// Voltage converts an ADC count to volts.
func (a ADC) Voltage(count int) (float32, error) {
	a = a.withDefaults()
	if count < 0 || count >= a.Resolution {
		return 0, fmt.Errorf("%w: count %d (max %d)", ErrOutOfRange, count, a.Resolution-1)
	}
	return (a.VRef * float32(count)) / float32(a.Resolution), nil
}

// Potential converts volts to a physic.ElectricPotential value.
func Potential(volts float32) physic.ElectricPotential {
	return physic.ElectricPotential(float64(volts) * float64(physic.Volt))
}

func finite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}
