// Package max31855 provides a driver for the MAX31855 cold-junction compensated
// thermocouple-to-digital converter.
//
// The chip is read-only: every read clocks out one 32-bit frame holding the
// thermocouple temperature, the internal (cold-junction) temperature and fault bits.
// The SPI bus may be a hardware peripheral or the bit-banged BitBang bus.
package max31855

import (
	"encoding/binary"
	"errors"

	"tinygo.org/x/drivers"
)

// Frame layout.
const (
	thermocoupleShift = 18
	internalShift     = 4
	faultFlag         = 1 << 16
	faultMask         = 0x7

	thermocoupleLSB = 0.25   // °C
	internalLSB     = 0.0625 // °C
)

// Faults reported by the chip.
var (
	ErrOpenCircuit = errors.New("max31855: thermocouple open circuit")
	ErrShortToGND  = errors.New("max31855: thermocouple shorted to GND")
	ErrShortToVCC  = errors.New("max31855: thermocouple shorted to VCC")
	ErrFault       = errors.New("max31855: fault")
)

// Fault is the fault detail field of a frame.
type Fault uint8

// Fault detail bits, D0 to D2 of a frame.
const (
	OpenCircuit Fault = 1 << iota
	ShortToGND
	ShortToVCC
)

// Err returns the faults as an error, or nil when no fault bit is set.
func (f Fault) Err() error {
	var errs []error
	if f&OpenCircuit != 0 {
		errs = append(errs, ErrOpenCircuit)
	}
	if f&ShortToGND != 0 {
		errs = append(errs, ErrShortToGND)
	}
	if f&ShortToVCC != 0 {
		errs = append(errs, ErrShortToVCC)
	}
	return errors.Join(errs...)
}

// OutputPin is a GPIO driven by the host, e.g. machine.Pin.
type OutputPin interface {
	High()
	Low()
}

// Reading is a decoded frame.
type Reading struct {
	Celsius  float64 // thermocouple temperature
	Internal float64 // cold-junction temperature
	Fault    Fault
}

// Fahrenheit returns the thermocouple temperature in °F.
func (r Reading) Fahrenheit() float64 { return CelsiusToFahrenheit(r.Celsius) }

// Device wraps an SPI connection to a MAX31855.
type Device struct {
	bus drivers.SPI
	cs  OutputPin
	buf [4]byte
}

// New creates a new MAX31855 connection. The SPI bus must already be configured.
func New(bus drivers.SPI, cs OutputPin) *Device {
	return &Device{bus: bus, cs: cs}
}

// Configure deselects the chip.
func (d *Device) Configure() {
	d.cs.High()
}

// Read reads one frame. When a fault is set the reading is still returned, with
// the fault as the error.
func (d *Device) Read() (Reading, error) {
	frame, err := d.readFrame()
	if err != nil {
		return Reading{}, err
	}

	r := Decode(frame)
	if frame&faultFlag != 0 && r.Fault == 0 {
		return r, ErrFault
	}
	return r, r.Fault.Err()
}

// ReadCelsius returns the thermocouple temperature in °C.
func (d *Device) ReadCelsius() (float64, error) {
	r, err := d.Read()
	if err != nil {
		return 0, err
	}
	return r.Celsius, nil
}

// ReadFahrenheit returns the thermocouple temperature in °F.
func (d *Device) ReadFahrenheit() (float64, error) {
	c, err := d.ReadCelsius()
	if err != nil {
		return 0, err
	}
	return CelsiusToFahrenheit(c), nil
}

// ReadInternal returns the cold-junction temperature in °C. It is valid even
// while the thermocouple is faulted.
func (d *Device) ReadInternal() (float64, error) {
	frame, err := d.readFrame()
	if err != nil {
		return 0, err
	}
	return Decode(frame).Internal, nil
}

// ReadFault returns the fault bits of a fresh frame.
func (d *Device) ReadFault() (Fault, error) {
	frame, err := d.readFrame()
	if err != nil {
		return 0, err
	}
	return Fault(frame & faultMask), nil
}

func (d *Device) readFrame() (uint32, error) {
	d.cs.Low()
	err := d.bus.Tx(nil, d.buf[:])
	d.cs.High()
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(d.buf[:]), nil
}

// Decode decodes a raw 32-bit frame.
func Decode(frame uint32) Reading {
	// 14-bit signed in the top bits; arithmetic shift sign-extends.
	tc := int32(frame) >> thermocoupleShift
	// 12-bit signed in bits 15..4
	internal := int16(uint16(frame)&0xFFF0) >> internalShift

	return Reading{
		Celsius:  float64(tc) * thermocoupleLSB,
		Internal: float64(internal) * internalLSB,
		Fault:    Fault(frame & faultMask),
	}
}

// CelsiusToFahrenheit converts °C to °F.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}
