package collector

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"time"

	"MTFSentinel/internal/model"
)

// Fetcher returns raw bars for a symbol at the source's native interval.
// Implementations return ascending bars with unique timestamps, at most limit of them (newest kept).
type Fetcher interface {
	FetchBars(ctx context.Context, symbol, interval string, limit int) ([]model.OHLCV, error)
	Name() string
}

// newHTTPClient builds a client with optional proxy support.
func newHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

// normalize sorts bars ascending, keeps the last bar for a duplicated timestamp
// and trims to the newest limit bars when limit > 0.
func normalize(bars []model.OHLCV, limit int) []model.OHLCV {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	out := bars[:0]
	for _, b := range bars {
		if n := len(out); n > 0 && out[n-1].Time.Equal(b.Time) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}
