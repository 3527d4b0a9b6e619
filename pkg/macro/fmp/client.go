package fmp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"dailyproxy-api/pkg/upstream"
)

// DefaultBaseURL is the Financial Modeling Prep API root.
const DefaultBaseURL = "https://financialmodelingprep.com/api"

// MacroKeywords selects the economic calendar events worth surfacing.
var MacroKeywords = []string{
	"CPI", "PPI", "Unemployment", "Nonfarm", "Payroll", "FOMC",
	"Federal Reserve", "Fed", "Core CPI", "Core PPI",
}

// Client reads ETF holdings and the economic calendar from FMP.
type Client struct {
	http *upstream.Client
}

// NewClient constructs a client authenticated with apiKey.
func NewClient(apiKey string, opts ...upstream.Option) *Client {
	all := append([]upstream.Option{upstream.WithQueryParam("apikey", apiKey)}, opts...)
	return &Client{http: upstream.New("fmp", DefaultBaseURL, all...)}
}

// ETFHoldings returns the constituent list of etf as FMP sends it.
func (c *Client) ETFHoldings(ctx context.Context, etf string) (json.RawMessage, error) {
	etf = strings.ToUpper(strings.TrimSpace(etf))
	body, err := c.http.Get(ctx, "/v4/etf-holdings/"+url.PathEscape(etf), nil)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("fmp: malformed holdings payload for %s", etf)
	}
	return json.RawMessage(body), nil
}

// EconomicCalendar returns calendar events between from and to whose name
// matches one of MacroKeywords. Each event is passed through unchanged.
func (c *Client) EconomicCalendar(ctx context.Context, from, to time.Time) ([]json.RawMessage, error) {
	params := url.Values{}
	params.Set("from", from.UTC().Format("2006-01-02"))
	params.Set("to", to.UTC().Format("2006-01-02"))
	body, err := c.http.Get(ctx, "/v4/economic_calendar", params)
	if err != nil {
		return nil, err
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsArray() {
		return []json.RawMessage{}, nil
	}
	out := make([]json.RawMessage, 0)
	doc.ForEach(func(_, item gjson.Result) bool {
		name := item.Get("event").String()
		if name == "" {
			name = item.Get("name").String()
		}
		if Important(name) {
			out = append(out, json.RawMessage(item.Raw))
		}
		return true
	})
	return out, nil
}

// Important reports whether an event name matches MacroKeywords, case-insensitively.
func Important(name string) bool {
	lower := strings.ToLower(name)
	if lower == "" {
		return false
	}
	for _, k := range MacroKeywords {
		if strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}
