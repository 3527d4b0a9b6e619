package twelvedata

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

// DefaultBaseURL is the Twelve Data REST root.
const DefaultBaseURL = "https://api.twelvedata.com"

const (
	serviceName  = "twelvedata"
	outputSize   = 5000
	windowLayout = "2006-01-02 15:04:05"
)

// Client reads time series from Twelve Data.
type Client struct {
	http *upstream.Client
}

// NewClient constructs a client authenticated with apiKey.
func NewClient(apiKey string, opts ...upstream.Option) *Client {
	all := append([]upstream.Option{upstream.WithQueryParam("apikey", apiKey)}, opts...)
	return &Client{http: upstream.New(serviceName, DefaultBaseURL, all...)}
}

// Interval maps a resolution label onto Twelve Data's interval syntax.
func Interval(resolution string) (string, error) {
	res := strings.TrimSpace(resolution)
	if strings.EqualFold(res, market.DailyResolution) {
		return "1day", nil
	}
	minutes, err := strconv.Atoi(res)
	if err != nil || minutes <= 0 {
		return "", fmt.Errorf("%w: unsupported resolution %q", market.ErrNoData, resolution)
	}
	switch minutes {
	case 1, 5, 15, 30, 45:
		return fmt.Sprintf("%dmin", minutes), nil
	case 60, 120, 240:
		return fmt.Sprintf("%dh", minutes/60), nil
	default:
		return "", fmt.Errorf("%w: unsupported resolution %q", market.ErrNoData, resolution)
	}
}

// TimeSeries fetches bars between from and to. The API answers newest first
// with string encoded numbers; the result is ascending.
func (c *Client) TimeSeries(ctx context.Context, symbol, resolution string, from, to time.Time) (market.Series, error) {
	interval, err := Interval(resolution)
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("symbol", strings.ToUpper(strings.TrimSpace(symbol)))
	params.Set("interval", interval)
	params.Set("start_date", from.UTC().Format(windowLayout))
	params.Set("end_date", to.UTC().Format(windowLayout))
	params.Set("timezone", "UTC")
	params.Set("outputsize", strconv.Itoa(outputSize))

	body, err := c.http.Get(ctx, "/time_series", params)
	if err != nil {
		return nil, err
	}
	return parseTimeSeries(body)
}

func parseTimeSeries(body []byte) (market.Series, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: malformed time series payload", market.ErrNoData)
	}
	doc := gjson.ParseBytes(body)
	if status := doc.Get("status").String(); status != "" && !strings.EqualFold(status, "ok") {
		return nil, fmt.Errorf("%w: status %q: %s", market.ErrNoData, status, doc.Get("message").String())
	}
	values := doc.Get("values").Array()
	bars := make([]market.Bar, 0, len(values))
	for _, item := range values {
		bar, ok := market.ParseBar(item.Get("datetime"), item.Get("open"), item.Get("high"),
			item.Get("low"), item.Get("close"), item.Get("volume"), time.UTC)
		if ok {
			bars = append(bars, bar)
		}
	}
	series := market.Normalize(bars)
	if len(series) == 0 {
		return nil, fmt.Errorf("%w: no valid values", market.ErrNoData)
	}
	return series, nil
}
