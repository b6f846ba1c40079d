package sensor

import (
	"fmt"

	"github.com/chewxy/math32"
	"periph.io/x/conn/v3/physic"
)

// nominalSupply is the supply voltage the load cell output is specified for.
const nominalSupply = 5.0

// LoadCell converts readings from an FC22 0.5-4.5V load cell into pounds force.
//
// Calibration takes the no-load output voltage and the output voltage with a known
// mass applied. The output is ratiometric, so readings are scaled to a 5V supply.
type LoadCell struct {
	ADC ADC

	scale   float32 // nominal supply / actual supply
	span    float32 // V per lbf
	noLoadV float32
}

// NewLoadCell returns a calibrated load cell.
//
//	supplyV  measured supply voltage
//	noLoadV  output voltage with no load
//	loadV    output voltage with loadLBF applied
//	loadLBF  calibration load in lbf
func NewLoadCell(adc ADC, supplyV, noLoadV, loadV, loadLBF float32) (*LoadCell, error) {
	for _, v := range []float32{supplyV, noLoadV, loadV, loadLBF} {
		if !finite(v) {
			return nil, fmt.Errorf("%w: non-finite calibration value", ErrCalibration)
		}
	}
	if supplyV <= 0 {
		return nil, fmt.Errorf("%w: supply voltage %g", ErrCalibration, supplyV)
	}
	if loadLBF == 0 || math32.Abs(loadV-noLoadV) < 1e-6 {
		return nil, fmt.Errorf("%w: zero calibrated span", ErrCalibration)
	}

	return &LoadCell{
		ADC:     adc.withDefaults(),
		scale:   nominalSupply / supplyV,
		span:    (loadV - noLoadV) / loadLBF,
		noLoadV: noLoadV,
	}, nil
}

// Force converts a raw ADC count into lbf.
func (l *LoadCell) Force(count int) (float32, error) {
	v, err := l.ADC.Voltage(count)
	if err != nil {
		return 0, err
	}
	return (v*l.scale - l.noLoadV) / l.span, nil
}

// ForceOf converts a raw ADC count into a physic.Force.
func (l *LoadCell) ForceOf(count int) (physic.Force, error) {
	lbf, err := l.Force(count)
	if err != nil {
		return 0, err
	}
	return physic.Force(float64(lbf) * float64(physic.PoundForce)), nil
}
