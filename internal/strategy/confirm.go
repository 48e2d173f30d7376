package strategy

import (
	"MTFSentinel/internal/calculator"
	"MTFSentinel/internal/model"
)

// CheckConfirmations scores the last two bars of the execution frame.
// Crosses are strict at t and non-strict at t-1, so a bar that only touched the line
// at t-1 and moved through it at t still counts as a cross.
// Fewer than 2 bars gives a zero set.
func CheckConfirmations(f *calculator.Frame, p Params) model.ConfirmationSet {
	var c model.ConfirmationSet
	n := f.Len()
	if n < 2 {
		return c
	}
	if !f.HasIndicators(p.Indicators) {
		calculator.AddIndicators(f, p.Indicators, false)
	}
	ind := f.Indicators
	t, prev := n-1, n-2

	// Trend: close vs slow EMA
	closeT, closePrev := f.Bars[t].Close, f.Bars[prev].Close
	c.TrendCrossBuy = closeT > ind.EMASlow[t] && closePrev <= ind.EMASlow[prev]
	c.TrendCrossSell = closeT < ind.EMASlow[t] && closePrev >= ind.EMASlow[prev]

	// Momentum: DIF vs DEA
	c.MomentumCrossBuy = ind.DIF[t] > ind.DEA[t] && ind.DIF[prev] <= ind.DEA[prev]
	c.MomentumCrossSell = ind.DIF[t] < ind.DEA[t] && ind.DIF[prev] >= ind.DEA[prev]

	// Time: bars since the latest pivot must land on the fibo cadence
	highs, lows := calculator.FindSwings(f.Highs(), f.Lows(), p.SwingLeft, p.SwingRight)
	bars, ok := calculator.BarsSinceLastPivot(t, highs, lows)
	if ok {
		c.BarsSinceLastPivot = &bars
	}
	c.FiboTimeOK = calculator.FiboTimePass(bars, ok, p.FiboSet, p.FiboTolerance)
	return c
}
