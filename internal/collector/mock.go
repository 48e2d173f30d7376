package collector

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"MTFSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// With Bars unset it generates a deterministic 1-minute series ending at End.
type MockFetcher struct {
	Price float64
	End   time.Time
	Bars  []model.OHLCV
	Err   error

	calls atomic.Int64
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls returns how many times FetchBars ran.
func (m *MockFetcher) Calls() int { return int(m.calls.Load()) }

func (m *MockFetcher) FetchBars(ctx context.Context, _ string, _ string, limit int) ([]model.OHLCV, error) {
	m.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		return normalize(append([]model.OHLCV(nil), m.Bars...), limit), nil
	}
	end := m.End
	if end.IsZero() {
		end = time.Now().UTC().Truncate(time.Minute)
	}
	price := m.Price
	if price <= 0 {
		price = 100
	}
	return generateMockBars(price, end, limit), nil
}

// generateMockBars draws a slow sine wave with a faster ripple so swings and crosses occur.
func generateMockBars(basePrice float64, end time.Time, count int) []model.OHLCV {
	if count <= 0 {
		return nil
	}
	bars := make([]model.OHLCV, count)
	start := end.Add(-time.Duration(count-1) * time.Minute)
	prev := basePrice
	for i := 0; i < count; i++ {
		x := float64(i)
		p := basePrice * (1 + 0.02*math.Sin(x/90) + 0.004*math.Sin(x/7))
		hi, lo := math.Max(prev, p), math.Min(prev, p)
		bars[i] = model.OHLCV{
			Time:   start.Add(time.Duration(i) * time.Minute),
			Open:   prev,
			High:   hi * 1.0005,
			Low:    lo * 0.9995,
			Close:  p,
			Volume: 1000 + float64(i%60)*10,
		}
		prev = p
	}
	return bars
}
