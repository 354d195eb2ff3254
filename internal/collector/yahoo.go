package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"time"

	"BuySignal/internal/model"
)

const (
	defaultYahooBaseURL = "https://query1.finance.yahoo.com"
	maxChartBody        = 4 << 20
)

// YahooFetcher reads daily closes from the Yahoo Finance v8 chart endpoint.
type YahooFetcher struct {
	BaseURL string
	Client  *http.Client
	// Aliases maps short names ("IWDA") to exchange-qualified tickers.
	Aliases map[string]string
}

// NewYahooFetcher creates a fetcher, routing through proxyURL when set.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	return &YahooFetcher{
		BaseURL: defaultYahooBaseURL,
		Client:  newHTTPClient(proxyURL, 30*time.Second),
		Aliases: map[string]string{
			"IWDA":  "IWDA.AS",
			"MSCIW": "IWDA.AS",
		},
	}
}

func newHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			tr.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{Timeout: timeout, Transport: tr}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) ticker(symbol string) string {
	if t, ok := f.Aliases[symbol]; ok {
		return t
	}
	return symbol
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

// points pairs timestamps with closes, dropping sessions without a close.
func (r chartResult) points() []model.PricePoint {
	if len(r.Indicators.Quote) == 0 {
		return nil
	}
	closes := r.Indicators.Quote[0].Close
	out := make([]model.PricePoint, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		out = append(out, model.PricePoint{Time: time.Unix(ts, 0).UTC(), Close: *closes[i]})
	}
	slices.SortFunc(out, func(a, b model.PricePoint) int { return a.Time.Compare(b.Time) })
	return out
}

// FetchDailyPrices returns the daily closes of symbol over rng, oldest first.
func (f *YahooFetcher) FetchDailyPrices(ctx context.Context, symbol, rng string) ([]model.PricePoint, error) {
	if rng == "" {
		rng = "1y"
	}
	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("range", rng)
	endpoint := f.BaseURL + "/v8/finance/chart/" + url.PathEscape(f.ticker(symbol)) + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxChartBody))
	if err != nil {
		return nil, fmt.Errorf("yahoo %s: read body: %w", symbol, err)
	}

	// Unknown tickers come back as 404 with a JSON error description.
	var chart chartResponse
	decodeErr := json.Unmarshal(body, &chart)
	if decodeErr == nil && chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo %s: %s", symbol, chart.Chart.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo %s: status %d", symbol, resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("yahoo %s: decode: %w", symbol, decodeErr)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, nil
	}
	return chart.Chart.Result[0].points(), nil
}
