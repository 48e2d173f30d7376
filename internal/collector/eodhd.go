package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"MTFSentinel/internal/model"
)

// DemoToken is the public EODHD token. It only serves a handful of tickers.
const DemoToken = "demo"

// EODHDFetcher implements Fetcher using the EODHD intraday API.
type EODHDFetcher struct {
	BaseURL  string
	APIToken string
	Client   *http.Client
}

// NewEODHDFetcher creates a fetcher. An empty token falls back to DemoToken.
func NewEODHDFetcher(baseURL, apiToken, proxyURL string) *EODHDFetcher {
	if baseURL == "" {
		baseURL = "https://eodhd.com"
	}
	if apiToken == "" {
		log.Warn().Msg("EODHD api token not set, running with the demo token; results may be limited")
		apiToken = DemoToken
	}
	return &EODHDFetcher{
		BaseURL:  baseURL,
		APIToken: apiToken,
		Client:   newHTTPClient(proxyURL, 30*time.Second),
	}
}

func (f *EODHDFetcher) Name() string { return "eodhd" }

// eodBar is one row of /api/intraday. Price fields are null for gaps.
type eodBar struct {
	Timestamp int64    `json:"timestamp"`
	Datetime  string   `json:"datetime"`
	Open      *float64 `json:"open"`
	High      *float64 `json:"high"`
	Low       *float64 `json:"low"`
	Close     *float64 `json:"close"`
	Volume    *float64 `json:"volume"`
}

func (f *EODHDFetcher) FetchBars(ctx context.Context, symbol, interval string, limit int) ([]model.OHLCV, error) {
	q := url.Values{}
	q.Set("interval", interval)
	q.Set("api_token", f.APIToken)
	q.Set("fmt", "json")
	endpoint := fmt.Sprintf("%s/api/intraday/%s?%s", f.BaseURL, url.PathEscape(symbol), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("eodhd fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("eodhd read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("eodhd: status %d, body: %s", resp.StatusCode, truncate(body, 200))
	}

	var rows []eodBar
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("eodhd decode: %w", err)
	}

	bars := make([]model.OHLCV, 0, len(rows))
	for _, r := range rows {
		if r.Open == nil || r.High == nil || r.Low == nil || r.Close == nil {
			continue
		}
		var vol float64
		if r.Volume != nil {
			vol = *r.Volume
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(r.Timestamp, 0).UTC(),
			Open:   *r.Open,
			High:   *r.High,
			Low:    *r.Low,
			Close:  *r.Close,
			Volume: vol,
		})
	}
	return normalize(bars, limit), nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
