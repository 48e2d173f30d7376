package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"MTFSentinel/internal/model"
	"MTFSentinel/internal/strategy"
)

var (
	// ErrNotEnoughData is returned when the source has fewer raw bars than MinBars.
	ErrNotEnoughData = errors.New("not enough historical data")
	// ErrUpstream marks fetch failures and blown analysis budgets.
	ErrUpstream = errors.New("upstream failure")
)

const (
	DefaultInterval = "1m"
	DefaultLimit    = 5000
	DefaultMinBars  = 200
	DefaultTimeout  = 45 * time.Second
)

// Collector fetches raw bars and runs the signal engine over them.
type Collector struct {
	Fetcher  Fetcher
	Symbol   string
	Interval string
	Limit    int
	MinBars  int
	Timeout  time.Duration
	Params   strategy.Params
}

// NewCollector creates a Collector with default interval, limit, minimum bars and budget.
func NewCollector(fetcher Fetcher, symbol string, params strategy.Params) *Collector {
	return &Collector{
		Fetcher:  fetcher,
		Symbol:   symbol,
		Interval: DefaultInterval,
		Limit:    DefaultLimit,
		MinBars:  DefaultMinBars,
		Timeout:  DefaultTimeout,
		Params:   params,
	}
}

// Analyze runs the configured params against symbol, or the default symbol when empty.
func (c *Collector) Analyze(ctx context.Context, symbol string) (*strategy.Analysis, error) {
	return c.AnalyzeWith(ctx, symbol, c.Params)
}

// AnalyzeWith is Analyze with per-call params.
func (c *Collector) AnalyzeWith(ctx context.Context, symbol string, p strategy.Params) (*strategy.Analysis, error) {
	if symbol == "" {
		symbol = c.Symbol
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	start := time.Now()
	bars, err := c.Fetcher.FetchBars(ctx, symbol, c.Interval, c.Limit)
	if err != nil {
		return nil, fmt.Errorf("fetch %s via %s: %w: %w", symbol, c.Fetcher.Name(), ErrUpstream, err)
	}
	if len(bars) < c.MinBars {
		return nil, fmt.Errorf("%s: got %d bars, need %d: %w", symbol, len(bars), c.MinBars, ErrNotEnoughData)
	}
	log.Debug().Str("symbol", symbol).Str("source", c.Fetcher.Name()).Int("bars", len(bars)).
		Dur("elapsed", time.Since(start)).Msg("fetched bars")

	type outcome struct {
		a   *strategy.Analysis
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		a, err := strategy.Analyze(bars, p)
		done <- outcome{a, err}
	}()

	select {
	case o := <-done:
		if o.err != nil {
			return nil, fmt.Errorf("analyze %s: %w", symbol, o.err)
		}
		log.Info().Str("symbol", symbol).Str("source", c.Fetcher.Name()).
			Str("action", string(o.a.Result.Action)).
			Int("buy", o.a.Result.BuyScore).Int("sell", o.a.Result.SellScore).
			Msg("signal computed")
		return o.a, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("analysis budget for %s exceeded: %w: %w", symbol, ErrUpstream, ctx.Err())
	}
}

// Evaluate returns only the signal.
func (c *Collector) Evaluate(ctx context.Context, symbol string) (*model.SignalResult, error) {
	a, err := c.Analyze(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return a.Result, nil
}
