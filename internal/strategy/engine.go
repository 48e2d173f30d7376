package strategy

import (
	"fmt"

	"MTFSentinel/internal/calculator"
	"MTFSentinel/internal/model"
)

// Analysis is a SignalResult plus the frames it was computed from.
// Exec and Filter are nil when the run short-circuited on insufficient bars.
type Analysis struct {
	Result *model.SignalResult
	Exec   *calculator.Frame
	Filter *calculator.Frame
}

// Evaluate runs the multi-timeframe pipeline over raw ascending bars and returns the signal.
// Too little history is a HOLD/WAIT result, not an error. Malformed input and params are errors.
func Evaluate(bars []model.OHLCV, p Params) (*model.SignalResult, error) {
	a, err := Analyze(bars, p)
	if err != nil {
		return nil, err
	}
	return a.Result, nil
}

// Analyze is Evaluate that also returns the execution and filter frames, for charting.
func Analyze(bars []model.OHLCV, p Params) (*Analysis, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := calculator.ValidateSeries(bars); err != nil {
		return nil, fmt.Errorf("validate series: %w", err)
	}
	execBucket, err := calculator.ParseRule(p.ExecRule)
	if err != nil {
		return nil, fmt.Errorf("exec rule: %w", err)
	}
	filterBucket, err := calculator.ParseRule(p.FilterRule)
	if err != nil {
		return nil, fmt.Errorf("filter rule: %w", err)
	}

	// Step a: resample into both timeframes
	execBars, err := calculator.Resample(bars, execBucket)
	if err != nil {
		return nil, err
	}
	filterBars, err := calculator.Resample(bars, filterBucket)
	if err != nil {
		return nil, err
	}
	if len(execBars) < 2 || len(filterBars) < 2 {
		return &Analysis{Result: insufficient(bars)}, nil
	}

	// Step b: indicators on both frames
	ltf := calculator.NewFrame(execBars)
	htf := calculator.NewFrame(filterBars)
	calculator.AddIndicators(ltf, p.Indicators, false)
	calculator.AddIndicators(htf, p.Indicators, false)

	// Step c: confirmations, HTF filter, divergence
	conf := CheckConfirmations(ltf, p)
	trend := FilterHTF(htf, p)
	var div model.Divergence
	if p.UseDivergence {
		div = calculator.HiddenDivergence(ltf, p.UseHistogram, p.SwingLeft, p.SwingRight)
	}

	// Step d: combine
	last := ltf.Bars[ltf.Len()-1]
	res := combine(conf, trend, div, p.UseDivergence)
	res.Time = last.Time
	res.Price = last.Close
	return &Analysis{Result: res, Exec: ltf, Filter: htf}, nil
}

// combine applies the decision rules: aligned BUY first, then aligned SELL, else HOLD/WAIT.
func combine(conf model.ConfirmationSet, trend model.HTFResult, div model.Divergence, useDivergence bool) *model.SignalResult {
	buy, sell := conf.BuyScore(), conf.SellScore()
	res := &model.SignalResult{
		BuyScore:   buy,
		SellScore:  sell,
		Action:     model.ActionHold,
		Reasons:    []string{},
		HTFDetails: trend.Details,
		MMCDetails: conf.Details(),
	}
	if res.HTFDetails == nil {
		res.HTFDetails = map[string]bool{}
	}
	if useDivergence {
		res.DivergenceDetails = div.Details()
	} else {
		res.DivergenceDetails = map[string]any{"hidden_bull": false, "hidden_bear": false}
	}

	switch {
	case trend.TrendUp && buy >= 2:
		res.Action = model.ActionBuy
		if buy == 3 {
			res.Action = model.ActionBuyMax
		}
		if useDivergence && div.HiddenBull {
			res.Reasons = append(res.Reasons, model.ReasonHiddenBullBoost)
		}
	case trend.TrendDown && sell >= 2:
		res.Action = model.ActionSell
		if sell == 3 {
			res.Action = model.ActionSellMax
		}
		if useDivergence && div.HiddenBear {
			res.Reasons = append(res.Reasons, model.ReasonHiddenBearBoost)
		}
	default:
		if !trend.TrendUp && !trend.TrendDown {
			res.Reasons = append(res.Reasons, model.ReasonHTFNotAligned)
		}
		if buy < 2 && sell < 2 {
			res.Reasons = append(res.Reasons, model.ReasonBelowThreshold)
		}
	}
	return res
}

// insufficient is the short-circuit result. Time and price come from the last raw bar, if any.
func insufficient(bars []model.OHLCV) *model.SignalResult {
	res := &model.SignalResult{
		Action:            model.ActionHold,
		Reasons:           []string{model.ReasonInsufficientBars},
		HTFDetails:        map[string]bool{},
		MMCDetails:        map[string]any{},
		DivergenceDetails: map[string]any{},
	}
	if n := len(bars); n > 0 {
		res.Time = bars[n-1].Time
		res.Price = bars[n-1].Close
	}
	return res
}
