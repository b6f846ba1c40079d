//go:build tinygo

//go:generate tinygo flash -target=arduino

// Bench telemetry reporter: samples the analog thermocouple, the pressure
// transducer, the load cell and the MAX31855 and writes one telemetry CSV line
// per report interval. It makes no control decisions.
package main

import (
	"machine"
	"time"

	"github.com/itohio/goteststand/pkg/max31855"
	"github.com/itohio/goteststand/pkg/sensor"
	"github.com/itohio/goteststand/pkg/stopwatch"
	"github.com/itohio/goteststand/pkg/telemetry"
)

var (
	adcThermo     machine.ADC
	adcTransducer machine.ADC
	adcLoadCell   machine.ADC
	uart          = machine.Serial

	thermo     *sensor.Thermocouple
	transducer *sensor.Transducer
	loadCell   *sensor.LoadCell
	tc         *max31855.Device

	// running sums of raw counts
	thermoSum     uint32
	transducerSum uint32
	loadCellSum   uint32
	sampleCount   int

	line = make([]byte, 0, 64)
)

func main() {
	uart.Configure(machine.UARTConfig{BaudRate: UART_BAUD_RATE})

	machine.InitADC()
	adcThermo = machine.ADC{Pin: PIN_THERMO}
	adcTransducer = machine.ADC{Pin: PIN_TRANSDUCER}
	adcLoadCell = machine.ADC{Pin: PIN_LOAD_CELL}
	adcThermo.Configure(machine.ADCConfig{})
	adcTransducer.Configure(machine.ADCConfig{})
	adcLoadCell.Configure(machine.ADCConfig{})

	PIN_TC_CS.Configure(machine.PinConfig{Mode: machine.PinOutput})
	PIN_TC_SCK.Configure(machine.PinConfig{Mode: machine.PinOutput})
	PIN_TC_MISO.Configure(machine.PinConfig{Mode: machine.PinInput})

	bus := max31855.NewBitBang(PIN_TC_SCK, PIN_TC_MISO)
	bus.Configure()
	tc = max31855.New(bus, PIN_TC_CS)
	tc.Configure()

	adc := sensor.DefaultADC()
	thermo = sensor.NewThermocouple(adc)

	var err error
	transducer, err = sensor.NewTransducer(adc, sensor.Ratiometric, TRANSDUCER_SUPPLY_NOMINAL, TRANSDUCER_SUPPLY_MEASURED)
	if err != nil {
		halt(err)
	}
	loadCell, err = sensor.NewLoadCell(adc, LOAD_CELL_SUPPLY, LOAD_CELL_NO_LOAD, LOAD_CELL_LOAD, LOAD_CELL_LBF)
	if err != nil {
		halt(err)
	}

	println(telemetry.Header)

	report := stopwatch.New()
	report.Start(REPORT_INTERVAL_MS * time.Millisecond)

	for {
		if sampleCount < NUM_SAMPLES {
			readADCs()
		}

		if !report.Active() {
			outputReport(report.Elapsed())
			report.Start(REPORT_INTERVAL_MS * time.Millisecond)
		}

		time.Sleep(time.Millisecond)
	}
}

func readADCs() {
	thermoSum += uint32(adcThermo.Get() >> ADC_SHIFT)
	transducerSum += uint32(adcTransducer.Get() >> ADC_SHIFT)
	loadCellSum += uint32(adcLoadCell.Get() >> ADC_SHIFT)
	sampleCount++
}

// outputReport writes one telemetry line. A sensor that fails to read is
// flagged in the status column instead of reporting zero.
func outputReport(elapsed time.Duration) {
	n := uint32(sampleCount)
	if n == 0 {
		n = 1 // Avoid division by zero
	}

	rec := telemetry.Record{Elapsed: elapsed}

	temps, err := thermo.Read(int(thermoSum / n))
	rec.Thermo = temps.Celsius
	rec.Fail(telemetry.ThermoFailed, err)

	pressure, err := transducer.Read(int(transducerSum / n))
	rec.PSI = pressure.PSI
	rec.Fail(telemetry.PressureFailed, err)

	rec.LBF, err = loadCell.Force(int(loadCellSum / n))
	rec.Fail(telemetry.LoadFailed, err)

	reading, err := tc.Read()
	rec.TC, rec.CJ, rec.Fault = reading.Celsius, reading.Internal, uint8(reading.Fault)
	if reading.Fault == 0 {
		rec.Fail(telemetry.ThermocoupleChipFailed, err)
	}

	thermoSum, transducerSum, loadCellSum, sampleCount = 0, 0, 0, 0

	line = rec.AppendCSV(line[:0])
	uart.Write(line)
}

func halt(err error) {
	for {
		println("config error:", err.Error())
		time.Sleep(time.Second)
	}
}
