package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BuySignal/internal/calculator"
	"BuySignal/internal/model"
)

const chartFixture = `{"chart":{"result":[{"timestamp":[1735862400,1735776000,1735948800,1736208000],
"indicators":{"quote":[{"close":[101.5,100.25,null,103.0]}]}}],"error":null}}`

func TestYahooFetcher_DecodesAndSorts(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(chartFixture))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL

	points, err := f.FetchDailyPrices(context.Background(), "IWDA", "1y")
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/IWDA.AS", gotPath)
	assert.Contains(t, gotQuery, "range=1y")
	assert.Contains(t, gotQuery, "interval=1d")

	require.Len(t, points, 3)
	assert.Equal(t, 100.25, points[0].Close)
	assert.Equal(t, 101.5, points[1].Close)
	assert.Equal(t, 103.0, points[2].Close)
	assert.True(t, points[0].Time.Before(points[1].Time))
}

func TestYahooFetcher_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	_, err := f.FetchDailyPrices(context.Background(), "NOPE", "1y")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delisted")
}

func TestYahooFetcher_NotFoundCarriesDescription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	_, err := f.FetchDailyPrices(context.Background(), "NOPE", "1y")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOPE: No data found")
}

func TestYahooFetcher_HTTPStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	_, err := f.FetchDailyPrices(context.Background(), "IWDA.AS", "1y")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestCollector_EmptySeries(t *testing.T) {
	c := NewCollector(&MockFetcher{Points: []model.PricePoint{}}, "IWDA.AS", "", zerolog.Nop())
	_, err := c.Collect(context.Background())
	assert.ErrorIs(t, err, calculator.ErrEmptySeries)
}

func TestCollector_FetchError(t *testing.T) {
	boom := errors.New("network down")
	c := NewCollector(&MockFetcher{Err: boom}, "IWDA.AS", "1y", zerolog.Nop())
	_, err := c.Collect(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestCollector_Mock(t *testing.T) {
	c := NewCollector(&MockFetcher{Price: 100, Days: 252}, "IWDA.AS", "1y", zerolog.Nop())
	series, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "IWDA.AS", series.Symbol)
	assert.Equal(t, "mock", series.Source)
	assert.Len(t, series.Points, 252)
	assert.True(t, series.Points[0].Time.Before(series.Points[251].Time))
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	err  error
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	b, ok := m.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return b, nil
}

func (m *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[key] = value
	return nil
}

type countingFetcher struct {
	MockFetcher
	calls int
}

func (c *countingFetcher) FetchDailyPrices(ctx context.Context, symbol, rng string) ([]model.PricePoint, error) {
	c.calls++
	return c.MockFetcher.FetchDailyPrices(ctx, symbol, rng)
}

func TestCachedFetcher_ReadThrough(t *testing.T) {
	next := &countingFetcher{MockFetcher: MockFetcher{Price: 50, Days: 10}}
	cache := &memCache{data: map[string][]byte{}}
	f := NewCachedFetcher(next, cache, time.Hour, zerolog.Nop())

	first, err := f.FetchDailyPrices(context.Background(), "IWDA.AS", "1y")
	require.NoError(t, err)
	second, err := f.FetchDailyPrices(context.Background(), "IWDA.AS", "1y")
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Close, second[i].Close)
		assert.True(t, first[i].Time.Equal(second[i].Time))
	}
	assert.Contains(t, cache.data, "prices:mock:IWDA.AS:1y")
}

func TestCachedFetcher_CacheFailureFallsBack(t *testing.T) {
	next := &countingFetcher{MockFetcher: MockFetcher{Price: 50, Days: 10}}
	cache := &memCache{data: map[string][]byte{}, err: errors.New("connection refused")}
	f := NewCachedFetcher(next, cache, time.Hour, zerolog.Nop())

	points, err := f.FetchDailyPrices(context.Background(), "IWDA.AS", "1y")
	require.NoError(t, err)
	assert.Len(t, points, 10)
	assert.Equal(t, 1, next.calls)
}

func TestCachedFetcher_EmptyNotCached(t *testing.T) {
	next := &countingFetcher{MockFetcher: MockFetcher{Points: []model.PricePoint{}}}
	cache := &memCache{data: map[string][]byte{}}
	f := NewCachedFetcher(next, cache, time.Hour, zerolog.Nop())

	_, err := f.FetchDailyPrices(context.Background(), "IWDA.AS", "1y")
	require.NoError(t, err)
	assert.Empty(t, cache.data)
}

func TestCachedFetcher_HitKeepsUTCDates(t *testing.T) {
	orig := time.Local
	time.Local = time.FixedZone("PST", -8*60*60)
	t.Cleanup(func() { time.Local = orig })

	pts := []model.PricePoint{
		{Time: time.Date(2025, 3, 3, 7, 0, 0, 0, time.UTC), Close: 101},
		{Time: time.Date(2025, 3, 4, 7, 0, 0, 0, time.UTC), Close: 102},
	}
	next := &countingFetcher{MockFetcher: MockFetcher{Points: pts}}
	cache := &memCache{data: map[string][]byte{}}
	f := NewCachedFetcher(next, cache, time.Hour, zerolog.Nop())

	miss, err := f.FetchDailyPrices(context.Background(), "IWDA.AS", "1y")
	require.NoError(t, err)
	hit, err := f.FetchDailyPrices(context.Background(), "IWDA.AS", "1y")
	require.NoError(t, err)
	require.Equal(t, 1, next.calls)

	require.Len(t, hit, len(miss))
	for i := range miss {
		assert.Equal(t, time.UTC, hit[i].Time.Location())
		assert.Equal(t, miss[i].Time.Format("2006-01-02"), hit[i].Time.Format("2006-01-02"))
	}
	assert.Equal(t, "2025-03-03", hit[0].Time.Format("2006-01-02"))
}
