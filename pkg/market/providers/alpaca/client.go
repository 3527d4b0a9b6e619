package alpaca

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

const (
	// DefaultDataURL is the market data API root.
	DefaultDataURL = "https://data.alpaca.markets"
	// DefaultTradingURL is the paper trading API root used for account reads.
	DefaultTradingURL = "https://paper-api.alpaca.markets"

	serviceName  = "alpaca"
	pageLimit    = 10000
	maxPages     = 20
	headerKey    = "APCA-API-KEY-ID"
	headerSecret = "APCA-API-SECRET-KEY"
)

// Client reads historical bars from the Alpaca data API.
type Client struct {
	http *upstream.Client
	feed string
}

// NewClient constructs a data client. feed selects the SIP/IEX feed; empty
// keeps the account default.
func NewClient(keyID, secret, feed string, opts ...upstream.Option) *Client {
	all := append([]upstream.Option{
		upstream.WithHeader(headerKey, keyID),
		upstream.WithHeader(headerSecret, secret),
	}, opts...)
	return &Client{
		http: upstream.New(serviceName, DefaultDataURL, all...),
		feed: strings.TrimSpace(feed),
	}
}

// Timeframe maps a resolution label onto Alpaca's timeframe syntax.
func Timeframe(resolution string) (string, error) {
	res := strings.TrimSpace(resolution)
	if strings.EqualFold(res, market.DailyResolution) {
		return "1Day", nil
	}
	minutes, err := strconv.Atoi(res)
	if err != nil || minutes <= 0 {
		return "", fmt.Errorf("%w: unsupported resolution %q", market.ErrNoData, resolution)
	}
	if minutes%60 == 0 {
		return fmt.Sprintf("%dHour", minutes/60), nil
	}
	return fmt.Sprintf("%dMin", minutes), nil
}

// Bars fetches every page of bars for symbol between from and to.
func (c *Client) Bars(ctx context.Context, symbol, resolution string, from, to time.Time) (market.Series, error) {
	timeframe, err := Timeframe(resolution)
	if err != nil {
		return nil, err
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	params := url.Values{}
	params.Set("timeframe", timeframe)
	params.Set("start", from.UTC().Format(time.RFC3339))
	params.Set("end", to.UTC().Format(time.RFC3339))
	params.Set("limit", strconv.Itoa(pageLimit))
	params.Set("adjustment", "raw")
	if c.feed != "" {
		params.Set("feed", c.feed)
	}

	var bars []market.Bar
	path := "/v2/stocks/" + url.PathEscape(symbol) + "/bars"
	for page := 0; page < maxPages; page++ {
		body, err := c.http.Get(ctx, path, params)
		if err != nil {
			return nil, err
		}
		if !gjson.ValidBytes(body) {
			return nil, fmt.Errorf("%w: malformed bars payload", market.ErrNoData)
		}
		doc := gjson.ParseBytes(body)
		doc.Get("bars").ForEach(func(_, item gjson.Result) bool {
			bar, ok := market.ParseBar(item.Get("t"), item.Get("o"), item.Get("h"),
				item.Get("l"), item.Get("c"), item.Get("v"), time.UTC)
			if ok {
				bars = append(bars, bar)
			}
			return true
		})
		token := doc.Get("next_page_token").String()
		if token == "" {
			break
		}
		params.Set("page_token", token)
	}
	series := market.Normalize(bars)
	if len(series) == 0 {
		return nil, fmt.Errorf("%w: no valid bars for %s", market.ErrNoData, symbol)
	}
	return series, nil
}
