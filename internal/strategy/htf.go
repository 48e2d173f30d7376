package strategy

import (
	"MTFSentinel/internal/calculator"
	"MTFSentinel/internal/model"
)

// FilterHTF checks trend alignment on the last p.MinHTFBars bars of the filter frame.
// TrendUp and TrendDown are mutually exclusive: the last close cannot be both above and below EMA slow.
func FilterHTF(f *calculator.Frame, p Params) model.HTFResult {
	n := f.Len()
	need := p.MinHTFBars
	if need < 1 {
		need = 1
	}
	if n < need {
		return model.HTFResult{Details: map[string]bool{}}
	}
	if !f.HasIndicators(p.Indicators) {
		calculator.AddIndicators(f, p.Indicators, false)
	}
	ind := f.Indicators
	last := n - 1

	allAbove, allBelow := true, true
	for i := n - need; i < n; i++ {
		c := f.Bars[i].Close
		if !(c > ind.EMASlow[i]) {
			allAbove = false
		}
		if !(c < ind.EMASlow[i]) {
			allBelow = false
		}
	}
	alignUp := ind.EMAFast[last] > ind.EMASlow[last]
	alignDown := ind.EMAFast[last] < ind.EMASlow[last]
	momentumUp := ind.DIF[last] > ind.DEA[last] || ind.Hist[last] > 0
	momentumDown := ind.DIF[last] < ind.DEA[last] || ind.Hist[last] < 0

	return model.HTFResult{
		TrendUp:   allAbove && alignUp && momentumUp,
		TrendDown: allBelow && alignDown && momentumDown,
		Details: map[string]bool{
			"trend_up_last_n_above_ema_slow":   allAbove,
			"ema_align_up":                     alignUp,
			"momentum_up":                      momentumUp,
			"trend_down_last_n_below_ema_slow": allBelow,
			"ema_align_down":                   alignDown,
			"momentum_down":                    momentumDown,
		},
	}
}
