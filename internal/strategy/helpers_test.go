package strategy

import (
	"math/rand"
	"time"

	"MTFSentinel/internal/calculator"
	"MTFSentinel/internal/model"
)

var t0 = time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

func minuteBars(closes []float64) []model.OHLCV {
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:   t0.Add(time.Duration(i) * time.Minute),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 100,
		}
	}
	return bars
}

// randomWalk returns n one-minute bars drifting around start.
func randomWalk(rng *rand.Rand, n int, start float64) []model.OHLCV {
	bars := make([]model.OHLCV, n)
	price := start
	for i := range bars {
		open := price
		price += rng.NormFloat64()
		if price < 1 {
			price = 1
		}
		hi, lo := open, price
		if lo > hi {
			hi, lo = lo, hi
		}
		bars[i] = model.OHLCV{
			Time:   t0.Add(time.Duration(i) * time.Minute),
			Open:   open,
			High:   hi + rng.Float64(),
			Low:    lo - rng.Float64()*0.5,
			Close:  price,
			Volume: float64(rng.Intn(1000)),
		}
		if bars[i].Low < 0 {
			bars[i].Low = 0
		}
	}
	return bars
}

// manualFrame builds a frame with hand-set indicator columns under the default params.
func manualFrame(closes, emaFast, emaSlow, dif, dea []float64) *calculator.Frame {
	f := calculator.NewFrame(minuteBars(closes))
	hist := make([]float64, len(dif))
	for i := range dif {
		hist[i] = dif[i] - dea[i]
	}
	f.Indicators = &calculator.Indicators{
		Params:  calculator.DefaultIndicatorParams(),
		EMAFast: emaFast,
		EMASlow: emaSlow,
		DIF:     dif,
		DEA:     dea,
		Hist:    hist,
	}
	return f
}

// engineeredBuy is 300 one-minute bars with a clean EMA-slow upcross, a MACD
// signal-line upcross and a swing low exactly 3 bars before the last bar.
func engineeredBuy() []model.OHLCV {
	const n = 300
	closes := make([]float64, n)
	for i := 0; i < n-1; i++ {
		x := float64(i)
		closes[i] = 300 - 0.5*x - 0.0005*x*x
	}
	closes[n-1] = 200
	bars := minuteBars(closes)
	bars[n-4].Low = bars[n-4].Close - 20
	return bars
}

func fill(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
