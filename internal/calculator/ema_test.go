package calculator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// referenceEMA evaluates the closed form of the seeded recurrence:
// y_t = (1-a)^t x_0 + sum_{i=1..t} a (1-a)^(t-i) x_i
func referenceEMA(values []float64, span int) []float64 {
	a := 2.0 / float64(span+1)
	out := make([]float64, len(values))
	for t := range values {
		y := math.Pow(1-a, float64(t)) * values[0]
		for i := 1; i <= t; i++ {
			y += a * math.Pow(1-a, float64(t-i)) * values[i]
		}
		out[t] = y
	}
	return out
}

func TestEMA_Empty(t *testing.T) {
	assert.Empty(t, EMA(nil, 10))
	m := MACD(nil, 12, 26, 9)
	assert.Empty(t, m.DIF)
	assert.Empty(t, m.DEA)
	assert.Empty(t, m.Hist)
}

func TestEMA_KnownValues(t *testing.T) {
	got := EMA([]float64{1, 2, 3}, 3)
	require.Len(t, got, 3)
	assert.InDelta(t, 1.0, got[0], 1e-12)
	assert.InDelta(t, 1.5, got[1], 1e-12)
	assert.InDelta(t, 2.25, got[2], 1e-12)
}

func TestEMA_SeededWithFirstValue(t *testing.T) {
	got := EMA([]float64{42, 0, 0}, 200)
	assert.Equal(t, 42.0, got[0])
}

func TestEMA_MatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	values := make([]float64, 150)
	p := 100.0
	for i := range values {
		p += rng.NormFloat64()
		values[i] = p
	}
	for _, span := range []int{3, 9, 12, 26, 50} {
		got := EMA(values, span)
		want := referenceEMA(values, span)
		for i := range want {
			assert.InDelta(t, want[i], got[i], 1e-9, "span %d index %d", span, i)
		}
	}
}

func TestMACD_Identities(t *testing.T) {
	closes := []float64{10, 11, 12, 11, 13, 15, 14, 16, 18, 17, 19, 21}
	m := MACD(closes, 12, 26, 9)
	fast, slow := EMA(closes, 12), EMA(closes, 26)
	dea := EMA(m.DIF, 9)
	for i := range closes {
		assert.InDelta(t, fast[i]-slow[i], m.DIF[i], 1e-12)
		assert.InDelta(t, dea[i], m.DEA[i], 1e-12)
		assert.InDelta(t, m.DIF[i]-m.DEA[i], m.Hist[i], 1e-12)
	}
}

func TestIndicators_FlatSeries(t *testing.T) {
	f := NewFrame(minuteBars(t0, constant(300, 100)))
	AddIndicators(f, DefaultIndicatorParams(), false)
	ind := f.Indicators
	for i := 0; i < f.Len(); i++ {
		assert.InDelta(t, 100.0, ind.EMAFast[i], 1e-9)
		assert.InDelta(t, 100.0, ind.EMASlow[i], 1e-9)
		assert.InDelta(t, 0.0, ind.DIF[i], 1e-9)
		assert.InDelta(t, 0.0, ind.DEA[i], 1e-9)
		assert.InDelta(t, 0.0, ind.Hist[i], 1e-9)
	}
}
