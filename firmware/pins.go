//go:build tinygo

package main

import "machine"

const (
	// Sampling configuration
	REPORT_INTERVAL_MS = 100 // one CSV line per interval
	NUM_SAMPLES        = 8   // ADC reads averaged per report

	// ADC configuration: 5V reference, TinyGo scales every reading to 16 bits
	ADC_SHIFT = 6 // 16-bit reading to 10-bit count

	// Analog inputs
	PIN_THERMO     = machine.ADC0
	PIN_TRANSDUCER = machine.ADC1
	PIN_LOAD_CELL  = machine.ADC2

	// MAX31855 bit-banged SPI
	PIN_TC_SCK  = machine.D3
	PIN_TC_CS   = machine.D4
	PIN_TC_MISO = machine.D5

	UART_BAUD_RATE = 57600
)

// Calibration of the bench sensors.
const (
	TRANSDUCER_SUPPLY_NOMINAL  = 5.0
	TRANSDUCER_SUPPLY_MEASURED = 4.93

	LOAD_CELL_SUPPLY  = 5.0
	LOAD_CELL_NO_LOAD = 0.5
	LOAD_CELL_LOAD    = 4.5
	LOAD_CELL_LBF     = 100
)
