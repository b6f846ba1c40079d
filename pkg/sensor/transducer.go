package sensor

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
)

const (
	pascalPerPSI     = 6894.75729
	megapascalPerPSI = 0.00689475729
)

// Model selects the transfer function of a pressure transducer.
type Model string

const (
	// Linear is the SSI P51-1000 sealed gauge: 0.5V = 14.5 psi, 4.5V = 1000 psi.
	Linear Model = "linear"
	// Ratiometric is the MSI M5131 1000 psi gauge whose output tracks the supply.
	Ratiometric Model = "ratiometric"
)

// Pressures holds a single transducer reading in all supported units.
type Pressures struct {
	Raw     int
	Voltage float32 // V
	PSI     float32
	Pa      float32
	MPa     float32
}

// Pressure returns the reading as a physic.Pressure.
func (p Pressures) Pressure() physic.Pressure {
	return physic.Pressure(float64(p.Pa) * float64(physic.Pascal))
}

// Transducer converts readings from a 0.5-4.5V pressure transducer.
type Transducer struct {
	ADC   ADC
	Model Model
	// SupplyNominal and SupplyMeasured are the rated and actual supply
	// voltages, used by the ratiometric model only.
	SupplyNominal  float32
	SupplyMeasured float32
}

// NewTransducer returns a transducer of the given model read through adc.
func NewTransducer(adc ADC, model Model, supplyNominal, supplyMeasured float32) (*Transducer, error) {
	switch model {
	case Linear, Ratiometric:
	default:
		return nil, fmt.Errorf("%w: unknown transducer model %q", ErrCalibration, model)
	}
	if model == Ratiometric && (supplyNominal <= 0 || supplyMeasured <= 0) {
		return nil, fmt.Errorf("%w: supply voltages must be positive", ErrCalibration)
	}

	return &Transducer{
		ADC:            adc.withDefaults(),
		Model:          model,
		SupplyNominal:  supplyNominal,
		SupplyMeasured: supplyMeasured,
	}, nil
}

// Read converts a raw ADC count into pressures.
func (t *Transducer) Read(count int) (Pressures, error) {
	v, err := t.ADC.Voltage(count)
	if err != nil {
		return Pressures{}, err
	}

	psi := t.PSI(v)
	return Pressures{
		Raw:     count,
		Voltage: v,
		PSI:     psi,
		Pa:      psi * pascalPerPSI,
		MPa:     psi * megapascalPerPSI,
	}, nil
}

// PSI converts the transducer output voltage to psi.
func (t *Transducer) PSI(v float32) float32 {
	if t.Model == Linear {
		return 246.375*v - 108.69
	}
	// output scales with the supply, so normalise to the nominal supply first.
	// This is the fractional supply deviation, not a fixed 0.8/V (or 0.08/V) gain.
	radj := (t.SupplyMeasured - t.SupplyNominal) / t.SupplyNominal
	return ((v / (1 + radj)) - 0.5) / 0.004
}
