package finnhub

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"dailyproxy-api/pkg/market"
	"dailyproxy-api/pkg/upstream"
)

// DefaultBaseURL is the public Finnhub REST root.
const DefaultBaseURL = "https://finnhub.io/api/v1"

const serviceName = "finnhub"

// Client talks to the Finnhub REST API.
type Client struct {
	http *upstream.Client
}

// NewClient constructs a client authenticated with token.
func NewClient(token string, opts ...upstream.Option) *Client {
	all := append([]upstream.Option{upstream.WithQueryParam("token", token)}, opts...)
	return &Client{http: upstream.New(serviceName, DefaultBaseURL, all...)}
}

// Candles fetches OHLCV bars. A status other than "ok" is reported as market.ErrNoData.
func (c *Client) Candles(ctx context.Context, symbol, resolution string, from, to time.Time) (market.Series, error) {
	params := url.Values{}
	params.Set("symbol", strings.ToUpper(symbol))
	params.Set("resolution", resolution)
	params.Set("from", strconv.FormatInt(from.Unix(), 10))
	params.Set("to", strconv.FormatInt(to.Unix(), 10))

	body, err := c.http.Get(ctx, "/stock/candle", params)
	if err != nil {
		return nil, err
	}
	return parseCandles(body)
}

func parseCandles(body []byte) (market.Series, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: malformed candle payload", market.ErrNoData)
	}
	doc := gjson.ParseBytes(body)
	if status := doc.Get("s").String(); status != "ok" {
		return nil, fmt.Errorf("%w: status %q", market.ErrNoData, status)
	}
	ts := doc.Get("t").Array()
	opens := doc.Get("o").Array()
	highs := doc.Get("h").Array()
	lows := doc.Get("l").Array()
	closes := doc.Get("c").Array()
	vols := doc.Get("v").Array()

	n := len(ts)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty candle arrays", market.ErrNoData)
	}
	if len(opens) != n || len(highs) != n || len(lows) != n || len(closes) != n || len(vols) != n {
		return nil, fmt.Errorf("%w: misaligned candle arrays", market.ErrNoData)
	}
	bars := make([]market.Bar, 0, n)
	for i := 0; i < n; i++ {
		bar, ok := market.ParseBar(ts[i], opens[i], highs[i], lows[i], closes[i], vols[i], time.UTC)
		if ok {
			bars = append(bars, bar)
		}
	}
	series := market.Normalize(bars)
	if len(series) == 0 {
		return nil, fmt.Errorf("%w: no valid bars", market.ErrNoData)
	}
	return series, nil
}

// Quote fetches the latest quote. Finnhub answers unknown symbols with zeros,
// which is reported as market.ErrNoData.
func (c *Client) Quote(ctx context.Context, symbol string) (*Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	params := url.Values{}
	params.Set("symbol", symbol)
	var q Quote
	if err := c.http.GetJSON(ctx, "/quote", params, &q); err != nil {
		return nil, err
	}
	if q.Current == 0 && q.Timestamp == 0 {
		return nil, fmt.Errorf("%w: empty quote for %s", market.ErrNoData, symbol)
	}
	q.Symbol = symbol
	return &q, nil
}

// Profile fetches the company profile.
func (c *Client) Profile(ctx context.Context, symbol string) (*Profile, error) {
	params := url.Values{}
	params.Set("symbol", strings.ToUpper(strings.TrimSpace(symbol)))
	var p Profile
	if err := c.http.GetJSON(ctx, "/stock/profile2", params, &p); err != nil {
		return nil, err
	}
	if p.Name == "" && p.Ticker == "" {
		return nil, fmt.Errorf("%w: empty profile for %s", market.ErrNoData, symbol)
	}
	return &p, nil
}

// CompanyNews returns headlines between from and to, newest first, capped at limit (0 for all).
func (c *Client) CompanyNews(ctx context.Context, symbol string, from, to time.Time, limit int) ([]NewsItem, error) {
	params := url.Values{}
	params.Set("symbol", strings.ToUpper(strings.TrimSpace(symbol)))
	params.Set("from", from.UTC().Format("2006-01-02"))
	params.Set("to", to.UTC().Format("2006-01-02"))
	var items []NewsItem
	if err := c.http.GetJSON(ctx, "/company-news", params, &items); err != nil {
		return nil, err
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// EarningsCalendar returns scheduled earnings for symbol between from and to.
func (c *Client) EarningsCalendar(ctx context.Context, symbol string, from, to time.Time) ([]Earning, error) {
	params := url.Values{}
	params.Set("from", from.UTC().Format("2006-01-02"))
	params.Set("to", to.UTC().Format("2006-01-02"))
	if s := strings.TrimSpace(symbol); s != "" {
		params.Set("symbol", strings.ToUpper(s))
	}
	var payload struct {
		EarningsCalendar []Earning `json:"earningsCalendar"`
	}
	if err := c.http.GetJSON(ctx, "/calendar/earnings", params, &payload); err != nil {
		return nil, err
	}
	return payload.EarningsCalendar, nil
}
