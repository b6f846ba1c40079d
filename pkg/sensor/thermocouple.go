package sensor

import (
	"periph.io/x/conn/v3/physic"
)

// CelsiusPerVolt is the gain of the thermocouple amplifier (10 mV/°C).
const CelsiusPerVolt = 100

// Temperatures holds a single thermocouple reading in all supported units.
type Temperatures struct {
	Raw        int
	Voltage    float32 // V
	Celsius    float32
	Kelvin     float32
	Fahrenheit float32
	Rankine    float32
}

// Temperature returns the reading as a physic.Temperature.
func (t Temperatures) Temperature() physic.Temperature {
	return physic.Temperature(float64(t.Kelvin) * float64(physic.Kelvin))
}

// Thermocouple converts readings from an amplified K type thermocouple.
type Thermocouple struct {
	ADC ADC
}

// NewThermocouple returns a thermocouple read through adc.
func NewThermocouple(adc ADC) *Thermocouple {
	return &Thermocouple{ADC: adc.withDefaults()}
}

// Read converts a raw ADC count into temperatures.
func (t *Thermocouple) Read(count int) (Temperatures, error) {
	v, err := t.ADC.Voltage(count)
	if err != nil {
		return Temperatures{}, err
	}

	c := VoltsToCelsius(v)
	return Temperatures{
		Raw:        count,
		Voltage:    v,
		Celsius:    c,
		Kelvin:     CelsiusToKelvin(c),
		Fahrenheit: CelsiusToFahrenheit(c),
		Rankine:    CelsiusToRankine(c),
	}, nil
}

// VoltsToCelsius converts the amplifier output voltage to °C.
func VoltsToCelsius(v float32) float32 { return v * CelsiusPerVolt }

// CelsiusToKelvin converts °C to K.
func CelsiusToKelvin(c float32) float32 { return c + 273.15 }

// CelsiusToFahrenheit converts °C to °F.
func CelsiusToFahrenheit(c float32) float32 { return c*9/5 + 32 }

// CelsiusToRankine converts °C to °R.
func CelsiusToRankine(c float32) float32 { return (9.0 / 5.0) * (c + 273.15) }
