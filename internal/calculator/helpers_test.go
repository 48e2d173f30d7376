package calculator

import (
	"time"

	"MTFSentinel/internal/model"
)

var t0 = time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

// minuteBars builds 1-minute bars from closes with a one-point range around each close.
func minuteBars(start time.Time, closes []float64) []model.OHLCV {
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:   start.Add(time.Duration(i) * time.Minute),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 100,
		}
	}
	return bars
}

// hlBars builds bars from explicit highs and lows, closing at the midpoint.
func hlBars(highs, lows []float64) []model.OHLCV {
	bars := make([]model.OHLCV, len(highs))
	for i := range highs {
		mid := (highs[i] + lows[i]) / 2
		bars[i] = model.OHLCV{
			Time:  t0.Add(time.Duration(i) * time.Minute),
			Open:  mid,
			High:  highs[i],
			Low:   lows[i],
			Close: mid,
		}
	}
	return bars
}

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
