package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"MTFSentinel/internal/model"
)

// TwelveDataFetcher implements Fetcher using the Twelve Data time_series endpoint.
type TwelveDataFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewTwelveDataFetcher(baseURL, apiKey, proxyURL string) *TwelveDataFetcher {
	if baseURL == "" {
		baseURL = "https://api.twelvedata.com"
	}
	return &TwelveDataFetcher{BaseURL: baseURL, APIKey: apiKey, Client: newHTTPClient(proxyURL, 10*time.Second)}
}

func (f *TwelveDataFetcher) Name() string { return "twelvedata" }

type twelveSeries struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Values  []struct {
		Datetime string `json:"datetime"`
		Open     string `json:"open"`
		High     string `json:"high"`
		Low      string `json:"low"`
		Close    string `json:"close"`
		Volume   string `json:"volume"`
	} `json:"values"`
}

// twelveInterval maps short interval names to Twelve Data's spelling.
func twelveInterval(interval string) string {
	switch interval {
	case "1m", "5m", "15m", "30m", "45m":
		return interval[:len(interval)-1] + "min"
	case "60m":
		return "1h"
	case "1d":
		return "1day"
	}
	return interval
}

func (f *TwelveDataFetcher) FetchBars(ctx context.Context, symbol, interval string, limit int) ([]model.OHLCV, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", twelveInterval(interval))
	q.Set("outputsize", strconv.Itoa(limit))
	q.Set("timezone", "UTC")
	q.Set("apikey", f.APIKey)
	u := fmt.Sprintf("%s/time_series?%s", f.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	res, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("twelvedata fetch: %w", err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close response body")
		}
	}()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("twelvedata http %d", res.StatusCode)
	}

	var body twelveSeries
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("twelvedata decode: %w", err)
	}
	if body.Status == "error" {
		return nil, fmt.Errorf("twelvedata: %s", body.Message)
	}

	bars := make([]model.OHLCV, 0, len(body.Values))
	for _, v := range body.Values {
		tm, err := time.Parse("2006-01-02 15:04:05", v.Datetime)
		if err != nil {
			tm, err = time.Parse("2006-01-02", v.Datetime)
			if err != nil {
				return nil, fmt.Errorf("parse time %q: %w", v.Datetime, err)
			}
		}
		var px [4]float64
		for i, s := range [4]string{v.Open, v.High, v.Low, v.Close} {
			px[i], err = strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("parse price %q at %s: %w", s, v.Datetime, err)
			}
		}
		var vol float64
		if v.Volume != "" {
			if vol, err = strconv.ParseFloat(v.Volume, 64); err != nil {
				return nil, fmt.Errorf("parse volume %q: %w", v.Volume, err)
			}
		}
		bars = append(bars, model.OHLCV{Time: tm, Open: px[0], High: px[1], Low: px[2], Close: px[3], Volume: vol})
	}
	// Values arrive newest first.
	return normalize(bars, limit), nil
}
