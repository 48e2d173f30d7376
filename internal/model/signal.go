package model

import "time"

// Action is the final label produced by the signal combiner.
type Action string

const (
	ActionHold    Action = "HOLD/WAIT"
	ActionBuy     Action = "BUY confirmed (aligned)"
	ActionBuyMax  Action = "BUY: maximum confirmation (3/3)"
	ActionSell    Action = "SELL confirmed (aligned)"
	ActionSellMax Action = "SELL: maximum confirmation (3/3)"
)

// Side collapses an action to BUY, SELL or HOLD.
func (a Action) Side() string {
	switch a {
	case ActionBuy, ActionBuyMax:
		return "BUY"
	case ActionSell, ActionSellMax:
		return "SELL"
	default:
		return "HOLD"
	}
}

// Reason strings attached to a SignalResult.
const (
	ReasonInsufficientBars = "insufficient bars for calculation"
	ReasonHTFNotAligned    = "HTF filter not aligned"
	ReasonBelowThreshold   = "execution-timeframe confirmations below threshold (<2/3)"
	ReasonHiddenBullBoost  = "hidden bullish divergence boost"
	ReasonHiddenBearBoost  = "hidden bearish divergence boost"
)

// ConfirmationSet holds the execution-timeframe "3 confirm" booleans.
// FiboTimeOK is direction-agnostic and counts for both sides.
type ConfirmationSet struct {
	TrendCrossBuy      bool
	TrendCrossSell     bool
	MomentumCrossBuy   bool
	MomentumCrossSell  bool
	FiboTimeOK         bool
	BarsSinceLastPivot *int
}

// BuyScore counts the true buy-side confirmations (0-3).
func (c ConfirmationSet) BuyScore() int {
	return countTrue(c.TrendCrossBuy, c.MomentumCrossBuy, c.FiboTimeOK)
}

// SellScore counts the true sell-side confirmations (0-3).
func (c ConfirmationSet) SellScore() int {
	return countTrue(c.TrendCrossSell, c.MomentumCrossSell, c.FiboTimeOK)
}

// Details renders the set as a flat map for display.
func (c ConfirmationSet) Details() map[string]any {
	var bslp any
	if c.BarsSinceLastPivot != nil {
		bslp = *c.BarsSinceLastPivot
	}
	return map[string]any{
		"trend_cross_buy":       c.TrendCrossBuy,
		"trend_cross_sell":      c.TrendCrossSell,
		"momentum_cross_buy":    c.MomentumCrossBuy,
		"momentum_cross_sell":   c.MomentumCrossSell,
		"fibo_time_ok":          c.FiboTimeOK,
		"bars_since_last_pivot": bslp,
	}
}

// HTFResult is the outcome of the higher-timeframe filter.
// TrendUp and TrendDown are never both true.
type HTFResult struct {
	TrendUp   bool
	TrendDown bool
	Details   map[string]bool
}

// Divergence reports hidden divergence on the execution timeframe.
type Divergence struct {
	HiddenBull       bool
	HiddenBear       bool
	LastSwingLowIdx  *int
	LastSwingHighIdx *int
}

// Details renders the divergence as a flat map for display.
func (d Divergence) Details() map[string]any {
	out := map[string]any{
		"hidden_bull":         d.HiddenBull,
		"hidden_bear":         d.HiddenBear,
		"last_swing_low_idx":  nil,
		"last_swing_high_idx": nil,
	}
	if d.LastSwingLowIdx != nil {
		out["last_swing_low_idx"] = *d.LastSwingLowIdx
	}
	if d.LastSwingHighIdx != nil {
		out["last_swing_high_idx"] = *d.LastSwingHighIdx
	}
	return out
}

// SignalResult is the final output of the strategy engine.
type SignalResult struct {
	Time              time.Time       `json:"time"`
	Price             float64         `json:"price"`
	BuyScore          int             `json:"buy_score"`
	SellScore         int             `json:"sell_score"`
	Action            Action          `json:"action"`
	Reasons           []string        `json:"reasons"`
	HTFDetails        map[string]bool `json:"htf_details"`
	MMCDetails        map[string]any  `json:"mmc_details"`
	DivergenceDetails map[string]any  `json:"divergence_details"`
}

func countTrue(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
