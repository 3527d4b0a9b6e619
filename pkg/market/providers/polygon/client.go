package polygon

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

// DefaultBaseURL is the Polygon REST root.
const DefaultBaseURL = "https://api.polygon.io"

const serviceName = "polygon"

// Client reads aggregate bars from Polygon.
type Client struct {
	http *upstream.Client
}

// NewClient constructs a client authenticated with apiKey.
func NewClient(apiKey string, opts ...upstream.Option) *Client {
	all := append([]upstream.Option{upstream.WithQueryParam("apiKey", apiKey)}, opts...)
	return &Client{http: upstream.New(serviceName, DefaultBaseURL, all...)}
}

// Span maps a resolution label onto Polygon's multiplier and timespan.
func Span(resolution string) (int, string, error) {
	res := strings.TrimSpace(resolution)
	if strings.EqualFold(res, market.DailyResolution) {
		return 1, "day", nil
	}
	minutes, err := strconv.Atoi(res)
	if err != nil || minutes <= 0 {
		return 0, "", fmt.Errorf("%w: unsupported resolution %q", market.ErrNoData, resolution)
	}
	return minutes, "minute", nil
}

// Aggregates fetches bars between from and to. Timestamps arrive in epoch milliseconds.
func (c *Client) Aggregates(ctx context.Context, symbol, resolution string, from, to time.Time) (market.Series, error) {
	multiplier, timespan, err := Span(resolution)
	if err != nil {
		return nil, err
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	path := fmt.Sprintf("/v2/aggs/ticker/%s/range/%d/%s/%d/%d",
		url.PathEscape(symbol), multiplier, timespan, from.UnixMilli(), to.UnixMilli())
	params := url.Values{}
	params.Set("adjusted", "true")
	params.Set("sort", "asc")
	params.Set("limit", "50000")

	body, err := c.http.Get(ctx, path, params)
	if err != nil {
		return nil, err
	}
	return parseAggregates(body)
}

func parseAggregates(body []byte) (market.Series, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: malformed aggregates payload", market.ErrNoData)
	}
	doc := gjson.ParseBytes(body)
	switch status := strings.ToUpper(doc.Get("status").String()); status {
	case "OK", "DELAYED":
	default:
		return nil, fmt.Errorf("%w: status %q: %s", market.ErrNoData, status, doc.Get("error").String())
	}
	results := doc.Get("results").Array()
	bars := make([]market.Bar, 0, len(results))
	for _, item := range results {
		bar, ok := market.ParseBar(item.Get("t"), item.Get("o"), item.Get("h"),
			item.Get("l"), item.Get("c"), item.Get("v"), time.UTC)
		if ok {
			bars = append(bars, bar)
		}
	}
	series := market.Normalize(bars)
	if len(series) == 0 {
		return nil, fmt.Errorf("%w: no valid results", market.ErrNoData)
	}
	return series, nil
}
