package calculator

import "MTFSentinel/internal/model"

// HiddenDivergence compares the last two swing lows and swing highs of price
// against the oscillator (DIF, or MACD histogram when useHistogram is set).
//
//   - hidden bullish: price higher low, oscillator lower low
//   - hidden bearish: price lower high, oscillator higher high
//
// Frames without indicator columns are augmented with the default parameters first.
func HiddenDivergence(f *Frame, useHistogram bool, left, right int) model.Divergence {
	var out model.Divergence
	if f.Len() < left+right+1 {
		return out
	}
	if f.Indicators == nil || len(f.Indicators.DIF) != f.Len() {
		AddIndicators(f, DefaultIndicatorParams(), false)
	}

	osc := f.Indicators.DIF
	if useHistogram {
		osc = f.Indicators.Hist
	}
	highs, lows := f.Highs(), f.Lows()
	swingHighs, swingLows := FindSwings(highs, lows, left, right)

	if n := len(swingLows); n >= 2 {
		i1, i2 := swingLows[n-2], swingLows[n-1]
		out.HiddenBull = lows[i2] > lows[i1] && osc[i2] < osc[i1]
	}
	if n := len(swingHighs); n >= 2 {
		j1, j2 := swingHighs[n-2], swingHighs[n-1]
		out.HiddenBear = highs[j2] < highs[j1] && osc[j2] > osc[j1]
	}
	if n := len(swingLows); n > 0 {
		idx := swingLows[n-1]
		out.LastSwingLowIdx = &idx
	}
	if n := len(swingHighs); n > 0 {
		idx := swingHighs[n-1]
		out.LastSwingHighIdx = &idx
	}
	return out
}
