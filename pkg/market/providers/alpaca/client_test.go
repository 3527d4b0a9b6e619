package alpaca

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"dailyproxy-api/pkg/market"
	"dailyproxy-api/pkg/upstream"
)

func TestTimeframe(t *testing.T) {
	cases := map[string]string{
		"D":   "1Day",
		"d":   "1Day",
		"1":   "1Min",
		"5":   "5Min",
		"15":  "15Min",
		"60":  "1Hour",
		"120": "2Hour",
	}
	for in, want := range cases {
		got, err := Timeframe(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := Timeframe("W")
	assert.ErrorIs(t, err, market.ErrNoData)
}

func TestAdapterFetchPaginates(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/v2/stocks/AAPL/bars", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get(headerKey))
		assert.Equal(t, "secret", r.Header.Get(headerSecret))
		assert.Equal(t, "5Min", r.URL.Query().Get("timeframe"))
		assert.Equal(t, "iex", r.URL.Query().Get("feed"))

		if r.URL.Query().Get("page_token") == "" {
			_, _ = w.Write([]byte(`{"bars":[{"t":"2024-03-05T14:35:00Z","o":2,"h":3,"l":1,"c":2.5,"v":20}],"symbol":"AAPL","next_page_token":"p2"}`))
			return
		}
		assert.Equal(t, "p2", r.URL.Query().Get("page_token"))
		_, _ = w.Write([]byte(`{"bars":[{"t":"2024-03-05T14:30:00Z","o":1,"h":2,"l":0.5,"c":1.5,"v":10}],"symbol":"AAPL","next_page_token":null}`))
	}))
	defer server.Close()

	client := NewClient("key", "secret", "iex", upstream.WithBaseURL(server.URL))
	from := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	series, err := NewAdapter("secondary", client).Fetch(context.Background(), market.Request{
		Symbol: "aapl", Resolution: "5", From: from, To: from.Add(20 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	require.Len(t, series, 2)
	assert.Equal(t, time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC).Unix(), series[0].Time)
	assert.Equal(t, 10.0, series[0].Volume)
}

func TestAdapterNullBarsIsNoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"bars":null,"symbol":"XYZ","next_page_token":null}`))
	}))
	defer server.Close()

	client := NewClient("key", "secret", "", upstream.WithBaseURL(server.URL))
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := NewAdapter("secondary", client).Fetch(context.Background(), market.Request{
		Symbol: "XYZ", Resolution: "D", From: from, To: from.AddDate(0, 2, 0),
	})
	assert.ErrorIs(t, err, market.ErrNoData)
}

func TestAdapterSkipsBarsWithNullPrices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"bars":[
			{"t":"2024-03-04T05:00:00Z","o":1,"h":2,"l":0.5,"c":null,"v":10},
			{"t":"2024-03-05T05:00:00Z","o":1,"h":2,"l":0.5,"c":1.5,"v":10}],"next_page_token":null}`))
	}))
	defer server.Close()

	client := NewClient("key", "secret", "", upstream.WithBaseURL(server.URL))
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	series, err := NewAdapter("secondary", client).Fetch(context.Background(), market.Request{
		Symbol: "AAPL", Resolution: "D", From: from, To: from.AddDate(0, 0, 5),
	})
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, 1.5, series[0].Close)
}

func TestBrokerPassThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key", r.Header.Get(headerKey))
		switch r.URL.Path {
		case "/v2/account":
			_, _ = w.Write([]byte(`{"status":"ACTIVE","equity":"1000.5"}`))
		case "/v2/positions":
			_, _ = w.Write([]byte(`[]`))
		case "/v2/orders":
			assert.Equal(t, "open", r.URL.Query().Get("status"))
			assert.Equal(t, "50", r.URL.Query().Get("limit"))
			_, _ = w.Write([]byte(`[{"id":"o1"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	broker := NewBroker("key", "secret", upstream.WithBaseURL(server.URL))
	ctx := context.Background()

	account, err := broker.Account(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", gjson.GetBytes(account, "status").String())

	positions, err := broker.Positions(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(positions))

	orders, err := broker.OpenOrders(ctx, 50)
	require.NoError(t, err)
	assert.Equal(t, "o1", gjson.GetBytes(orders, "0.id").String())
}
