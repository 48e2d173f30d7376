package calculator

// EMA computes the exponential moving average with alpha = 2/(span+1).
// The recurrence is seeded with the first value, so out[0] == values[0].
// Spans below 1 are treated as 1.
func EMA(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	if span < 1 {
		span = 1
	}
	alpha := 2.0 / float64(span+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// MACDResult holds the three MACD columns, aligned with the input closes.
type MACDResult struct {
	DIF  []float64
	DEA  []float64
	Hist []float64
}

// MACD computes DIF = EMA(fast) - EMA(slow), DEA = EMA(DIF, signal) and HIST = DIF - DEA.
func MACD(closes []float64, fast, slow, signal int) MACDResult {
	emaFast := EMA(closes, fast)
	emaSlow := EMA(closes, slow)

	dif := make([]float64, len(closes))
	for i := range closes {
		dif[i] = emaFast[i] - emaSlow[i]
	}
	dea := EMA(dif, signal)

	hist := make([]float64, len(closes))
	for i := range closes {
		hist[i] = dif[i] - dea[i]
	}
	return MACDResult{DIF: dif, DEA: dea, Hist: hist}
}
