// Package telemetry formats the bench reporter's CSV lines.
//
// A line is
//
//	elapsed_ms,thermo,psi,lbf,tc,cj,fault,status
//
// with temperatures in °C, pressure in psi and force in lbf, each in hundredths
// of its unit. A channel whose read failed is left empty and flagged in status.
package telemetry

import (
	"math"
	"strconv"
	"time"
)

// Status flags channels that failed to read.
type Status uint8

// Channel flags.
const (
	ThermoFailed Status = 1 << iota
	PressureFailed
	LoadFailed
	ThermocoupleChipFailed // MAX31855 bus error, or fault bit without detail
)

// Header names the CSV columns.
const Header = "elapsed_ms,thermo,psi,lbf,tc,cj,fault,status"

// Record is one report.
type Record struct {
	Elapsed time.Duration
	Thermo  float32 // °C
	PSI     float32
	LBF     float32
	TC      float64 // MAX31855 thermocouple °C
	CJ      float64 // MAX31855 cold junction °C
	Fault   uint8   // MAX31855 fault detail bits
	Status  Status
}

// Fail marks a channel as failed when err is not nil.
func (r *Record) Fail(s Status, err error) {
	if err != nil {
		r.Status |= s
	}
}

// AppendCSV appends the record as one line, including the trailing newline.
func (r Record) AppendCSV(b []byte) []byte {
	b = strconv.AppendInt(b, r.Elapsed.Milliseconds(), 10)
	b = r.appendCenti(b, ThermoFailed, float64(r.Thermo))
	b = r.appendCenti(b, PressureFailed, float64(r.PSI))
	b = r.appendCenti(b, LoadFailed, float64(r.LBF))
	b = r.appendCenti(b, ThermocoupleChipFailed, r.TC)
	b = r.appendCenti(b, ThermocoupleChipFailed, r.CJ)
	b = append(b, ',')
	b = strconv.AppendUint(b, uint64(r.Fault), 10)
	b = append(b, ',')
	b = strconv.AppendUint(b, uint64(r.Status), 10)
	return append(b, '\n')
}

func (r Record) appendCenti(b []byte, s Status, v float64) []byte {
	b = append(b, ',')
	if r.Status&s != 0 {
		return b
	}
	return strconv.AppendInt(b, int64(math.Round(v*100)), 10)
}
