package telemetry

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecord_AppendCSV(t *testing.T) {
	r := Record{
		Elapsed: 1500 * time.Millisecond,
		Thermo:  25.5,
		PSI:     508.87,
		LBF:     -1.25,
		TC:      100.25,
		CJ:      23.0625,
	}

	line := string(r.AppendCSV(nil))
	assert.Equal(t, "1500,2550,50887,-125,10025,2306,0,0\n", line)
	assert.Equal(t, strings.Count(Header, ","), strings.Count(line, ","))
}

func TestRecord_FailedChannelsLeftEmpty(t *testing.T) {
	r := Record{Elapsed: 100 * time.Millisecond, Thermo: 20, PSI: 14, LBF: 3, TC: 21, CJ: 22}
	r.Fail(ThermoFailed, nil)
	r.Fail(PressureFailed, errors.New("out of range"))
	r.Fail(ThermocoupleChipFailed, errors.New("bus"))

	assert.Equal(t, PressureFailed|ThermocoupleChipFailed, r.Status)
	assert.Equal(t, "100,2000,,300,,,0,10\n", string(r.AppendCSV(nil)))
}

func TestRecord_AppendReusesBuffer(t *testing.T) {
	buf := make([]byte, 0, 64)
	out := Record{Fault: 1}.AppendCSV(buf[:0])
	assert.Equal(t, "0,0,0,0,0,0,1,0\n", string(out))
	assert.Equal(t, &buf[:1][0], &out[0])
}
