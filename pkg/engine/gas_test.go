package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nitrogen through a 1 mm^2 orifice at room temperature
func nitrogen(p1, p2 float64) GasFlow {
	return GasFlow{
		Cd:          0.8,
		Gc:          GcSI,
		K:           1.4,
		Z:           1.0,
		Temperature: 293.15,
		MolarMass:   28.0134,
		P1:          p1,
		P2:          p2,
		Area:        1e-6,
	}
}

func TestCriticalPressureRatio(t *testing.T) {
	assert.InDelta(t, 0.528282, CriticalPressureRatio(1.4), 1e-6)
	assert.InDelta(t, 0.564474, CriticalPressureRatio(1.2), 1e-5)
}

func TestGasMassFlow_Regimes(t *testing.T) {
	choked, err := GasMassFlow(nitrogen(500, 14.7))
	require.NoError(t, err)
	assert.Equal(t, Choked, choked.Regime)
	assert.Greater(t, choked.MassFlow, 0.0)

	unchoked, err := GasMassFlow(nitrogen(20, 14.7))
	require.NoError(t, err)
	assert.Equal(t, Unchoked, unchoked.Regime)
	assert.Greater(t, unchoked.MassFlow, 0.0)

	none, err := GasMassFlow(nitrogen(100, 100))
	require.NoError(t, err)
	assert.Equal(t, Unchoked, none.Regime)
	assert.InDelta(t, 0, none.MassFlow, 1e-12)
}

// Choked flow through a 1 mm^2 orifice at 500 psia: Cd*A*p1*sqrt(k*M/(R*T)*(2/(k+1))^((k+1)/(k-1)))
func TestGasMassFlow_ChokedValue(t *testing.T) {
	got, err := GasMassFlow(nitrogen(500, 14.7))
	require.NoError(t, err)
	assert.InEpsilon(t, 0.0064021, got.MassFlow, 1e-4)
}

func TestGasMassFlow_ContinuousAtCriticalRatio(t *testing.T) {
	for _, gc := range []float64{GcSI, StandardGravity} {
		for _, k := range []float64{1.13, 1.2, 1.3, 1.4, 1.67} {
			p1 := 300.0
			boundary := p1 * CriticalPressureRatio(k)

			below := nitrogen(p1, boundary*(1-1e-9))
			below.K, below.Gc = k, gc
			above := nitrogen(p1, boundary*(1+1e-9))
			above.K, above.Gc = k, gc

			c, err := GasMassFlow(below)
			require.NoError(t, err)
			u, err := GasMassFlow(above)
			require.NoError(t, err)

			assert.Equal(t, Choked, c.Regime)
			assert.Equal(t, Unchoked, u.Regime)
			assert.InEpsilon(t, c.MassFlow, u.MassFlow, 1e-6, "k=%g gc=%g", k, gc)
		}
	}
}

func TestGasMassFlow_ChokedIndependentOfOutlet(t *testing.T) {
	p1 := 800.0
	ref, err := GasMassFlow(nitrogen(p1, 0))
	require.NoError(t, err)
	require.Equal(t, Choked, ref.Regime)

	limit := p1 * CriticalPressureRatio(1.4)
	for p2 := 0.0; p2 < limit; p2 += limit / 17 {
		got, err := GasMassFlow(nitrogen(p1, p2))
		require.NoError(t, err)
		assert.Equal(t, Choked, got.Regime)
		assert.Equal(t, ref.MassFlow, got.MassFlow, "p2=%g", p2)
	}
}

func TestGasMassFlow_UnchokedDecreasesWithOutlet(t *testing.T) {
	p1 := 100.0
	prev := 1e9
	for p2 := p1 * CriticalPressureRatio(1.4) * 1.01; p2 <= p1; p2 += 2 {
		got, err := GasMassFlow(nitrogen(p1, p2))
		require.NoError(t, err)
		assert.Less(t, got.MassFlow, prev, "p2=%g", p2)
		prev = got.MassFlow
	}
}

func TestGasMassFlow_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*GasFlow)
		want   error
	}{
		{"zero inlet", func(g *GasFlow) { g.P1 = 0 }, ErrDivideByZero},
		{"unit k", func(g *GasFlow) { g.K = 1 }, ErrDivideByZero},
		{"zero temperature", func(g *GasFlow) { g.Temperature = 0 }, ErrDivideByZero},
		{"zero z", func(g *GasFlow) { g.Z = 0 }, ErrDivideByZero},
		{"zero molar mass", func(g *GasFlow) { g.MolarMass = 0 }, ErrDivideByZero},
		{"k below one", func(g *GasFlow) { g.K = 0.9 }, ErrDomain},
		{"negative inlet", func(g *GasFlow) { g.P1 = -10 }, ErrDomain},
		{"reverse flow", func(g *GasFlow) { g.P2 = g.P1 + 1 }, ErrDomain},
		{"negative gc", func(g *GasFlow) { g.Gc = -1 }, ErrDomain},
		{"zero gc", func(g *GasFlow) { g.Gc = 0 }, ErrDomain},
		{"nan k", func(g *GasFlow) { g.K = math.NaN() }, ErrDomain},
		{"nan inlet", func(g *GasFlow) { g.P1 = math.NaN() }, ErrDomain},
		{"infinite temperature", func(g *GasFlow) { g.Temperature = math.Inf(1) }, ErrDomain},
		{"negative z and temperature", func(g *GasFlow) { g.Z, g.Temperature = -1, -293 }, ErrDomain},
		{"negative temperature", func(g *GasFlow) { g.Temperature = -293 }, ErrDomain},
		{"negative cd", func(g *GasFlow) { g.Cd = -0.8 }, ErrDomain},
		{"negative area", func(g *GasFlow) { g.Area = -1e-6 }, ErrDomain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := nitrogen(200, 14.7)
			tt.mutate(&g)
			_, err := GasMassFlow(g)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRegime_String(t *testing.T) {
	assert.Equal(t, "choked", Choked.String())
	assert.Equal(t, "unchoked", Unchoked.String())
	assert.Equal(t, "Regime(7)", Regime(7).String())
}
