package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFrame_OwnsCopy(t *testing.T) {
	src := minuteBars(t0, []float64{1, 2, 3})
	f := NewFrame(src)
	f.Bars[0].Close = 99
	assert.Equal(t, 1.0, src[0].Close)
}

func TestAddIndicators_Idempotent(t *testing.T) {
	f := NewFrame(minuteBars(t0, []float64{5, 6, 7, 6, 8, 9, 7, 10}))
	p := DefaultIndicatorParams()

	AddIndicators(f, p, false)
	first := f.Indicators
	snapshot := *first

	AddIndicators(f, p, false)
	assert.Same(t, first, f.Indicators, "same params must not recompute")
	assert.Equal(t, snapshot, *f.Indicators)
}

func TestAddIndicators_ForceRecomputesIdentically(t *testing.T) {
	f := NewFrame(minuteBars(t0, []float64{5, 6, 7, 6, 8, 9, 7, 10}))
	p := DefaultIndicatorParams()
	AddIndicators(f, p, false)
	first := f.Indicators

	AddIndicators(f, p, true)
	assert.NotSame(t, first, f.Indicators)
	assert.Equal(t, *first, *f.Indicators)
}

func TestAddIndicators_ParamChangeRecomputes(t *testing.T) {
	f := NewFrame(minuteBars(t0, []float64{5, 6, 7, 6, 8, 9, 7, 10}))
	AddIndicators(f, DefaultIndicatorParams(), false)
	before := f.Indicators.EMAFast

	p := DefaultIndicatorParams()
	p.EMAFast = 3
	require.False(t, f.HasIndicators(p))
	AddIndicators(f, p, false)

	assert.True(t, f.HasIndicators(p))
	assert.Equal(t, p, f.Indicators.Params)
	assert.NotEqual(t, before, f.Indicators.EMAFast)
	assert.Equal(t, EMA(f.Closes(), 3), f.Indicators.EMAFast)
}

func TestAddIndicators_ShortSeries(t *testing.T) {
	f := NewFrame(minuteBars(t0, []float64{5}))
	AddIndicators(f, DefaultIndicatorParams(), false)
	assert.Len(t, f.Indicators.DIF, 1)

	empty := NewFrame(nil)
	AddIndicators(empty, DefaultIndicatorParams(), false)
	assert.Empty(t, empty.Indicators.EMASlow)
}
