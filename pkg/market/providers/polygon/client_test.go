package polygon

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailyproxy-api/pkg/market"
	"dailyproxy-api/pkg/upstream"
)

func TestSpan(t *testing.T) {
	mult, span, err := Span("D")
	require.NoError(t, err)
	assert.Equal(t, 1, mult)
	assert.Equal(t, "day", span)

	mult, span, err = Span("15")
	require.NoError(t, err)
	assert.Equal(t, 15, mult)
	assert.Equal(t, "minute", span)

	_, _, err = Span("0")
	assert.ErrorIs(t, err, market.ErrNoData)
}

func TestAdapterFetchMillis(t *testing.T) {
	from := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	to := from.Add(15 * time.Hour)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want := fmt.Sprintf("/v2/aggs/ticker/MSFT/range/5/minute/%d/%d", from.UnixMilli(), to.UnixMilli())
		assert.Equal(t, want, r.URL.Path)
		assert.Equal(t, "pk", r.URL.Query().Get("apiKey"))
		_, _ = w.Write([]byte(`{"status":"OK","resultsCount":2,"results":[
			{"t":1709649000000,"o":400,"h":401,"l":399,"c":400.5,"v":1000},
			{"t":1709649300000,"o":400.5,"h":402,"l":400,"c":401.5,"v":1500}]}`))
	}))
	defer server.Close()

	client := NewClient("pk", upstream.WithBaseURL(server.URL))
	series, err := NewAdapter("tertiary", client).Fetch(context.Background(), market.Request{
		Symbol: "msft", Resolution: "5", From: from, To: to,
	})
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, int64(1709649000), series[0].Time)
	assert.Equal(t, int64(1709649300), series[1].Time)
	require.InDelta(t, 401.5, series[1].Close, 1e-9)
}

func TestAdapterStatusErrorIsNoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ERROR","error":"Unknown API Key"}`))
	}))
	defer server.Close()

	client := NewClient("pk", upstream.WithBaseURL(server.URL))
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := NewAdapter("tertiary", client).Fetch(context.Background(), market.Request{
		Symbol: "MSFT", Resolution: "D", From: from, To: from.AddDate(0, 1, 0),
	})
	assert.ErrorIs(t, err, market.ErrNoData)
	assert.NotErrorIs(t, err, market.ErrUnreachable)
}

func TestAdapterEmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","resultsCount":0}`))
	}))
	defer server.Close()

	client := NewClient("pk", upstream.WithBaseURL(server.URL))
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := NewAdapter("tertiary", client).Fetch(context.Background(), market.Request{
		Symbol: "MSFT", Resolution: "D", From: from, To: from.AddDate(0, 1, 0),
	})
	assert.ErrorIs(t, err, market.ErrNoData)
}

func TestParseAggregatesSkipsInvalidBars(t *testing.T) {
	series, err := parseAggregates([]byte(`{"status":"OK","results":[
		{"t":1709649000000,"o":400,"h":401,"l":399,"c":400.5,"v":1000},
		{"t":1709649300000,"o":400.5,"h":402,"l":400,"v":1500},
		{"t":1709649600000,"o":0,"h":0,"l":0,"c":0,"v":0}]}`))
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, int64(1709649000), series[0].Time)

	_, err = parseAggregates([]byte(`{"status":"OK","results":[{"t":1709649000000,"o":null,"h":1,"l":1,"c":1,"v":1}]}`))
	assert.ErrorIs(t, err, market.ErrNoData)
}
