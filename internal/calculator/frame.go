package calculator

import "MTFSentinel/internal/model"

// IndicatorParams identifies the parameter set derived columns were computed with.
type IndicatorParams struct {
	EMAFast    int `yaml:"ema_fast" json:"ema_fast"`
	EMASlow    int `yaml:"ema_slow" json:"ema_slow"`
	MACDFast   int `yaml:"macd_fast" json:"macd_fast"`
	MACDSlow   int `yaml:"macd_slow" json:"macd_slow"`
	MACDSignal int `yaml:"macd_signal" json:"macd_signal"`
}

// DefaultIndicatorParams returns EMA 50/200 and MACD 12/26/9.
func DefaultIndicatorParams() IndicatorParams {
	return IndicatorParams{EMAFast: 50, EMASlow: 200, MACDFast: 12, MACDSlow: 26, MACDSignal: 9}
}

// Indicators are the derived columns of a Frame. Every column has len(Frame.Bars) entries.
type Indicators struct {
	Params  IndicatorParams
	EMAFast []float64
	EMASlow []float64
	DIF     []float64
	DEA     []float64
	Hist    []float64
}

// Frame is an owned working copy of a series plus its derived columns.
type Frame struct {
	Bars       []model.OHLCV
	Indicators *Indicators
}

// NewFrame copies bars into a new Frame so the caller's slice is never mutated.
func NewFrame(bars []model.OHLCV) *Frame {
	owned := make([]model.OHLCV, len(bars))
	copy(owned, bars)
	return &Frame{Bars: owned}
}

// Len returns the number of bars.
func (f *Frame) Len() int { return len(f.Bars) }

// HasIndicators reports whether the derived columns exist for exactly this parameter set.
func (f *Frame) HasIndicators(p IndicatorParams) bool {
	return f.Indicators != nil && f.Indicators.Params == p && len(f.Indicators.EMASlow) == len(f.Bars)
}

// AddIndicators computes EMA fast/slow and MACD columns on f.
// It is a no-op when columns for the same params are present, unless force is set.
// Columns computed with other params are replaced rather than reused.
func AddIndicators(f *Frame, p IndicatorParams, force bool) {
	if !force && f.HasIndicators(p) {
		return
	}
	closes := f.Closes()
	m := MACD(closes, p.MACDFast, p.MACDSlow, p.MACDSignal)
	f.Indicators = &Indicators{
		Params:  p,
		EMAFast: EMA(closes, p.EMAFast),
		EMASlow: EMA(closes, p.EMASlow),
		DIF:     m.DIF,
		DEA:     m.DEA,
		Hist:    m.Hist,
	}
}

// Closes extracts the close column.
func (f *Frame) Closes() []float64 {
	return extract(f.Bars, func(b model.OHLCV) float64 { return b.Close })
}

// Highs extracts the high column.
func (f *Frame) Highs() []float64 {
	return extract(f.Bars, func(b model.OHLCV) float64 { return b.High })
}

// Lows extracts the low column.
func (f *Frame) Lows() []float64 {
	return extract(f.Bars, func(b model.OHLCV) float64 { return b.Low })
}

func extract(bars []model.OHLCV, field func(model.OHLCV) float64) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = field(b)
	}
	return out
}
