package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"MTFSentinel/internal/model"
)

// YahooFetcher implements Fetcher using Yahoo Finance public chart API.
type YahooFetcher struct {
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	return &YahooFetcher{
		BaseURL: "https://query1.finance.yahoo.com",
		Client:  newHTTPClient(proxyURL, 30*time.Second),
		SymbolMap: map[string]string{
			"SPX500":  "^GSPC",
			"SPX":     "^GSPC",
			"SP500":   "^GSPC",
			"AAPL.US": "AAPL",
			"BTCUSD":  "BTC-USD",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooRange picks the widest range Yahoo serves for an interval.
// Intraday history is capped: 7 days of 1m, 60 days up to 30m, 730 days of hourly bars.
func yahooRange(interval string, limit int) string {
	switch interval {
	case "1m":
		return "7d"
	case "2m", "5m", "15m", "30m", "90m":
		return "60d"
	case "60m", "1h":
		return "730d"
	}
	switch {
	case limit <= 30:
		return "1mo"
	case limit <= 90:
		return "3mo"
	case limit <= 180:
		return "6mo"
	case limit <= 365:
		return "1y"
	}
	return "2y"
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func at(v []*float64, i int) (float64, bool) {
	if i >= len(v) || v[i] == nil {
		return 0, false
	}
	return *v[i], true
}

func (f *YahooFetcher) FetchBars(ctx context.Context, symbol, interval string, limit int) ([]model.OHLCV, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), url.QueryEscape(interval), yahooRange(interval, limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, truncate(body, 200))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o, ok1 := at(quote.Open, i)
		h, ok2 := at(quote.High, i)
		l, ok3 := at(quote.Low, i)
		c, ok4 := at(quote.Close, i)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue // null bars (halts, pre-market gaps)
		}
		v, _ := at(quote.Volume, i)
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: v,
		})
	}
	return normalize(bars, limit), nil
}
