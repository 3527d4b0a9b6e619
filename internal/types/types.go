package types

import (
	"strings"
	"time"

	"dailyproxy-api/pkg/technical"
)

// Payload is a JSON object whose keys depend on which parts succeeded.
type Payload map[string]any

type StatusResp struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	TimeUTC string `json:"time_utc"`
}

type PriceReq struct {
	Symbol string `form:"symbol"`
}

type PricesReq struct {
	Symbols string `form:"symbols"`
}

// QuoteUnavailable replaces a quote that could not be fetched.
type QuoteUnavailable struct {
	Symbol string `json:"symbol"`
	Error  string `json:"error"`
}

type AnalyzeReq struct {
	Ticker             string `form:"ticker,default=AAPL"`
	ETF                string `form:"etf,default=SPY"`
	IncludeAccount     string `form:"include_account,optional"`
	IncludeETFHoldings string `form:"include_etf_holdings,optional"`
}

type ProxyReq struct {
	Symbol             string `form:"symbol"`
	ETF                string `form:"etf,default=SPY"`
	IncludeAccount     string `form:"include_account,optional"`
	IncludeETFHoldings string `form:"include_etf_holdings,optional"`
}

type CandlesReq struct {
	Symbol      string `form:"symbol"`
	IntradayRes string `form:"intraday_res,default=5"`
	Days        int    `form:"days,default=40"`
	Debug       string `form:"debug,optional"`
}

// CandlesResp is the technical snapshot plus the server clock.
type CandlesResp struct {
	*technical.Snapshot
	ServerTimeUTC string `json:"server_time_utc"`
}

type EventsReq struct {
	Symbols string `form:"symbols,optional"`
	Days    int    `form:"days,default=14"`
}

// Headline is a trimmed news item used by /market.
type Headline struct {
	Headline     string `json:"headline"`
	URL          string `json:"url"`
	SourceSymbol string `json:"source_symbol"`
	Datetime     int64  `json:"datetime"`
}

// EarningEvent is one scheduled report in /events.
type EarningEvent struct {
	Date            string   `json:"date"`
	Hour            string   `json:"hour"`
	EPSEstimate     *float64 `json:"epsEstimate"`
	RevenueEstimate *float64 `json:"revenueEstimate"`
}

// ParseBool accepts 1, true, t, yes and y in any case.
func ParseBool(v string, def bool) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "t", "yes", "y":
		return true
	}
	return false
}

// SplitSymbols splits a comma separated list into trimmed upper-case symbols,
// dropping blanks and duplicates while keeping order.
func SplitSymbols(raw string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// UTCStamp formats t as an ISO-8601 UTC timestamp with a Z suffix.
func UTCStamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000Z")
}
