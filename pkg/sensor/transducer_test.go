package sensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/physic"
)

func TestTransducer_Linear(t *testing.T) {
	tr, err := NewTransducer(DefaultADC(), Linear, 0, 0)
	require.NoError(t, err)

	assert.InDelta(t, 14.5, tr.PSI(0.5), 0.1)
	assert.InDelta(t, 1000, tr.PSI(4.5), 0.1)

	got, err := tr.Read(102)
	require.NoError(t, err)
	assert.InDelta(t, 0.498047, got.Voltage, 1e-5)
	assert.InDelta(t, 14.0163, got.PSI, 1e-3)
}

func TestTransducer_Ratiometric(t *testing.T) {
	tests := []struct {
		name     string
		measured float32
		count    int
		want     float32
	}{
		{"nominal supply", 5.0, 512, 500},
		{"low supply", 4.93, 512, 508.8742},
		{"zero pressure", 5.0, 0, -125},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := NewTransducer(DefaultADC(), Ratiometric, 5.0, tt.measured)
			require.NoError(t, err)

			got, err := tr.Read(tt.count)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got.PSI, 1e-2)
			assert.InDelta(t, float64(tt.want)*pascalPerPSI, float64(got.Pa), 100)
			assert.InDelta(t, float64(tt.want)*megapascalPerPSI, float64(got.MPa), 1e-4)
		})
	}
}

func TestPressures_Pressure(t *testing.T) {
	p := Pressures{Pa: 101325}
	assert.InDelta(t, 101.325, float64(p.Pressure())/float64(physic.KiloPascal), 1e-3)
}

func TestNewTransducer_Invalid(t *testing.T) {
	_, err := NewTransducer(DefaultADC(), Model("piezo"), 5, 5)
	assert.ErrorIs(t, err, ErrCalibration)

	_, err = NewTransducer(DefaultADC(), Ratiometric, 5, 0)
	assert.ErrorIs(t, err, ErrCalibration)
}
