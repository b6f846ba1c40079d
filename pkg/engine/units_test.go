package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertMassFlow(t *testing.T) {
	got := ConvertMassFlow(1.0)
	assert.InDelta(t, 1.0, got.KgPerSec(), 1e-12)
	assert.InDelta(t, 60.0, got.KgPerMin(), 1e-12)
	assert.InDelta(t, 2.20462262, got.LbPerSec(), 1e-12)
	assert.InDelta(t, 132.2773572, got.LbPerMin(), 1e-9)
}

func TestConvertMassFlow_Relations(t *testing.T) {
	for _, kg := range []float64{0, 0.001, 0.5, 3.27, 12.75, 1000} {
		got := ConvertMassFlow(kg)
		assert.Equal(t, kg, got[0])
		assert.InDelta(t, got[0]*60, got[1], 1e-9)
		assert.InDelta(t, got[0]*PoundsPerKilogram, got[2], 1e-9)
		assert.InDelta(t, got[2]*60, got[3], 1e-9)
	}
}

func TestPressureRoundTrip(t *testing.T) {
	for _, mpa := range []float64{0, 0.101325, 1, 2.068, 6.9, 20} {
		assert.InDelta(t, mpa, PSIToMPa(MPaToPSI(mpa)), 1e-12)
	}
	for _, pa := range []float64{0, 101325, 689475.729} {
		assert.InDelta(t, pa, PSIToPa(PaToPSI(pa)), 1e-6)
	}
	assert.InDelta(t, 14.6959, PaToPSI(101325), 1e-3)
	assert.InDelta(t, PSIToPa(100)/1e6, PSIToMPa(100), 1e-9)
}
