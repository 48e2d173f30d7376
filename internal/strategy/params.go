package strategy

import (
	"errors"
	"fmt"

	"MTFSentinel/internal/calculator"
)

// Params configures one engine run. The zero value is not usable; start from DefaultParams.
type Params struct {
	ExecRule      string                     `yaml:"exec_rule" json:"exec_rule"`
	FilterRule    string                     `yaml:"filter_rule" json:"filter_rule"`
	Indicators    calculator.IndicatorParams `yaml:"indicators" json:"indicators"`
	FiboSet       []int                      `yaml:"fibo_set" json:"fibo_set"`
	FiboTolerance int                        `yaml:"fibo_tolerance" json:"fibo_tolerance"`
	MinHTFBars    int                        `yaml:"min_htf_bars" json:"min_htf_bars"`
	SwingLeft     int                        `yaml:"swing_left" json:"swing_left"`
	SwingRight    int                        `yaml:"swing_right" json:"swing_right"`
	UseDivergence bool                       `yaml:"use_divergence" json:"use_divergence"`
	UseHistogram  bool                       `yaml:"use_histogram" json:"use_histogram"`
}

// DefaultParams returns 15-minute execution, 30-minute filter, EMA 50/200, MACD 12/26/9.
func DefaultParams() Params {
	return Params{
		ExecRule:      "15T",
		FilterRule:    "30T",
		Indicators:    calculator.DefaultIndicatorParams(),
		FiboSet:       append([]int(nil), calculator.DefaultFiboSet...),
		FiboTolerance: 0,
		MinHTFBars:    3,
		SwingLeft:     2,
		SwingRight:    2,
		UseDivergence: true,
		UseHistogram:  false,
	}
}

// ErrInvalidParams wraps every parameter validation failure.
var ErrInvalidParams = errors.New("invalid strategy params")

// Validate checks spans and windows. Bucket rules are checked by calculator.ParseRule.
func (p Params) Validate() error {
	ind := p.Indicators
	switch {
	case ind.EMAFast < 1 || ind.EMASlow < 1:
		return fmt.Errorf("ema spans %d/%d must be positive: %w", ind.EMAFast, ind.EMASlow, ErrInvalidParams)
	case ind.MACDFast < 1 || ind.MACDSlow < 1 || ind.MACDSignal < 1:
		return fmt.Errorf("macd %d/%d/%d must be positive: %w", ind.MACDFast, ind.MACDSlow, ind.MACDSignal, ErrInvalidParams)
	case p.MinHTFBars < 1:
		return fmt.Errorf("min_htf_bars %d must be positive: %w", p.MinHTFBars, ErrInvalidParams)
	case p.SwingLeft < 1 || p.SwingRight < 1:
		return fmt.Errorf("swing window %d/%d must be positive: %w", p.SwingLeft, p.SwingRight, ErrInvalidParams)
	case p.FiboTolerance < 0:
		return fmt.Errorf("fibo_tolerance %d must not be negative: %w", p.FiboTolerance, ErrInvalidParams)
	case len(p.FiboSet) == 0:
		return fmt.Errorf("fibo_set is empty: %w", ErrInvalidParams)
	}
	return nil
}
