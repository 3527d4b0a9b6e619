package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailyproxy-api/internal/config"
	"dailyproxy-api/internal/svc"
	marketpkg "dailyproxy-api/pkg/market"
)

var fixedNow = time.Date(2024, 3, 5, 15, 30, 0, 0, time.UTC)

func finnhubStub(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch r.URL.Path {
		case "/quote":
			if q.Get("symbol") == "NOPE" {
				_, _ = w.Write([]byte(`{"c":0,"h":0,"l":0,"o":0,"pc":0,"d":null,"dp":null,"t":0}`))
				return
			}
			_, _ = w.Write([]byte(`{"c":101.5,"h":102,"l":99,"o":100,"pc":100,"d":1.5,"dp":1.5,"t":1709652600}`))
		case "/stock/profile2":
			_, _ = w.Write([]byte(`{"name":"Apple Inc","ticker":"AAPL","exchange":"NASDAQ"}`))
		case "/company-news":
			_, _ = w.Write([]byte(`[
				{"headline":"one","url":"https://n/1","datetime":1709650000},
				{"headline":"two","url":"https://n/2","datetime":1709640000},
				{"headline":"three","url":"https://n/3","datetime":1709630000}]`))
		case "/calendar/earnings":
			_, _ = w.Write([]byte(`{"earningsCalendar":[
				{"symbol":"aapl","date":"2024-03-10","hour":"amc","epsEstimate":1.5,"revenueEstimate":1000},
				{"symbol":"MSFT","date":"2024-03-12","hour":"bmo","epsEstimate":2.1,"revenueEstimate":null}]}`))
		case "/stock/candle":
			if q.Get("resolution") == "D" {
				_, _ = w.Write([]byte(`{"s":"ok","t":[1709510400,1709596800],"o":[10,11],"h":[12,13],"l":[9,10],"c":[11,12],"v":[100,200]}`))
				return
			}
			_, _ = w.Write([]byte(`{"s":"no_data"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestContext(t *testing.T, withMarket bool) *svc.ServiceContext {
	t.Helper()
	finnhub := finnhubStub(t)

	c := config.Config{Env: "test", CandlesDeadline: 5, MaxWorkers: 4}
	c.Upstream.Value = &config.UpstreamConfig{
		Finnhub: config.Credential{APIKey: "fk", BaseURL: finnhub.URL, Timeout: time.Second},
	}
	if withMarket {
		c.Market.Value = &marketpkg.Config{
			Timeout: time.Second,
			Mode:    marketpkg.ModeSequential,
			Providers: map[string]*marketpkg.ProviderConfig{
				"finnhub": {Type: "finnhub", APIKey: "fk", BaseURL: finnhub.URL},
			},
			Daily:    []string{"finnhub"},
			Intraday: []string{"finnhub"},
		}
	}
	svcCtx, err := svc.Build(c)
	require.NoError(t, err)
	svcCtx.Now = func() time.Time { return fixedNow }
	return svcCtx
}

func serve(t *testing.T, h http.HandlerFunc, target string) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var body map[string]any
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	}
	return rec.Code, body
}

func TestRootAndHealthcheck(t *testing.T) {
	svcCtx := newTestContext(t, false)

	code, body := serve(t, RootHandler(svcCtx), "/")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "Daily Proxy API is running!", body["message"])
	assert.Equal(t, "2024-03-05T15:30:00.000000Z", body["time_utc"])

	code, body = serve(t, HealthcheckHandler(svcCtx), "/healthcheck")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "running", body["status"])
}

func TestPrice(t *testing.T) {
	svcCtx := newTestContext(t, false)

	code, body := serve(t, PriceHandler(svcCtx), "/price?symbol=aapl")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "AAPL", body["symbol"])
	assert.Equal(t, 101.5, body["c"])

	code, body = serve(t, PriceHandler(svcCtx), "/price?symbol=nope")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"symbol": "NOPE", "error": "quote_unavailable"}, body)

	code, _ = serve(t, PriceHandler(svcCtx), "/price")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestPrices(t *testing.T) {
	svcCtx := newTestContext(t, false)

	code, body := serve(t, PricesHandler(svcCtx), "/prices?symbols=aapl,%20nope,,AAPL")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, body, 2)
	assert.Equal(t, 101.5, body["AAPL"].(map[string]any)["c"])
	assert.Equal(t, "quote_unavailable", body["NOPE"].(map[string]any)["error"])
}

func TestAnalyze(t *testing.T) {
	svcCtx := newTestContext(t, false)

	code, body := serve(t, AnalyzeHandler(svcCtx), "/analyze?ticker=aapl&include_etf_holdings=yes&include_account=1")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "AAPL", body["ticker"])
	assert.Equal(t, 101.5, body["price"].(map[string]any)["c"])
	assert.Equal(t, "Apple Inc", body["company"].(map[string]any)["name"])
	assert.Len(t, body["news"], 3)
	assert.Equal(t, map[string]any{}, body["treasury"])
	assert.NotContains(t, body, "macro", "macro is omitted without a FRED key")
	assert.Contains(t, body["etf_error"], "not configured")
	assert.NotContains(t, body, "account", "account needs alpaca credentials")
	assert.Equal(t, "2024-03-05T15:30:00.000000Z", body["server_time_utc"])
}

func TestProxyRequiresSymbol(t *testing.T) {
	svcCtx := newTestContext(t, false)

	code, _ := serve(t, ProxyHandler(svcCtx), "/proxy")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := serve(t, ProxyHandler(svcCtx), "/proxy?symbol=msft")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "MSFT", body["ticker"])
}

func TestMarket(t *testing.T) {
	svcCtx := newTestContext(t, false)

	code, body := serve(t, MarketHandler(svcCtx), "/market")
	require.Equal(t, http.StatusOK, code)
	indices := body["indices"].(map[string]any)
	assert.Len(t, indices, 3)
	assert.Equal(t, 101.5, indices["SPX_proxy_SPY"].(map[string]any)["c"])
	snapshot := body["etfs"].(map[string]any)["snapshot"].(map[string]any)
	assert.Len(t, snapshot, 9)
	news := body["news_top"].([]any)
	require.Len(t, news, 4)
	assert.Equal(t, "SPY", news[0].(map[string]any)["source_symbol"])
	assert.Equal(t, "QQQ", news[3].(map[string]any)["source_symbol"])
	assert.Contains(t, body["extras"], "server_time_utc")
}

func TestEvents(t *testing.T) {
	svcCtx := newTestContext(t, false)

	code, body := serve(t, EventsHandler(svcCtx), "/events?symbols=AAPL")
	require.Equal(t, http.StatusOK, code)
	earnings := body["earnings"].(map[string]any)
	require.Len(t, earnings, 1)
	aapl := earnings["AAPL"].([]any)[0].(map[string]any)
	assert.Equal(t, "amc", aapl["hour"])
	assert.Equal(t, 1.5, aapl["epsEstimate"])
	assert.Equal(t, []any{}, body["macro"])
}

func TestCandles(t *testing.T) {
	svcCtx := newTestContext(t, true)

	code, body := serve(t, CandlesHandler(svcCtx), "/candles?symbol=aapl&debug=yes")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "AAPL", body["symbol"])
	assert.Equal(t, map[string]any{"daily": "finnhub", "intraday": nil}, body["sources"])
	assert.Equal(t, []any{"intraday_no_data"}, body["errors"])
	assert.Nil(t, body["intraday"])
	daily := body["daily"].(map[string]any)
	assert.Equal(t, 12.0, daily["prev_high"])
	assert.Nil(t, daily["ma5"])
	candles := body["candles"].(map[string]any)
	assert.Equal(t, "D", candles["res"])
	assert.Contains(t, body, "debug")
	assert.Contains(t, body, "server_time_utc")
}

func TestCandlesValidation(t *testing.T) {
	svcCtx := newTestContext(t, false)

	for _, target := range []string{
		"/candles",
		"/candles?symbol=AAPL&intraday_res=7",
		"/candles?symbol=AAPL&days=0",
	} {
		code, _ := serve(t, CandlesHandler(svcCtx), target)
		assert.Equal(t, http.StatusBadRequest, code, target)
	}
}

func TestRoutes(t *testing.T) {
	routes := Routes(newTestContext(t, false))
	paths := make([]string, 0, len(routes))
	for _, r := range routes {
		assert.Equal(t, http.MethodGet, r.Method)
		paths = append(paths, r.Path)
	}
	assert.Equal(t, "/,/healthcheck,/price,/prices,/analyze,/proxy,/market,/candles,/events", strings.Join(paths, ","))
}
