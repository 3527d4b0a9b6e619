package cache

import (
	"fmt"
	"strings"
	"time"
)

// Namespace is the key prefix shared by every cached payload.
const Namespace = "dailyproxy"

// TTLClass names a cached data kind with its own expiry.
type TTLClass string

const (
	TTLQuote           TTLClass = "quote"
	TTLProfile         TTLClass = "profile"
	TTLNews            TTLClass = "news"
	TTLMacro           TTLClass = "macro"
	TTLHoldings        TTLClass = "holdings"
	TTLDailyCandles    TTLClass = "daily_candles"
	TTLIntradayCandles TTLClass = "intraday_candles"
)

// TTLConfig holds per-kind TTLs in seconds. Zero picks the default, a negative
// value disables caching for that kind.
type TTLConfig struct {
	Quote           int `json:",default=8"`
	Profile         int `json:",default=3600"`
	News            int `json:",default=300"`
	Macro           int `json:",default=600"`
	Holdings        int `json:",default=3600"`
	DailyCandles    int `json:",default=300"`
	IntradayCandles int `json:",default=30"`
}

// TTLSet normalises cache TTLs from config into time.Duration values.
type TTLSet map[TTLClass]time.Duration

// NewTTLSet converts config TTLs (in seconds) into durations.
func NewTTLSet(cfg TTLConfig) TTLSet {
	return TTLSet{
		TTLQuote:           durationOrDefault(cfg.Quote, 8*time.Second),
		TTLProfile:         durationOrDefault(cfg.Profile, time.Hour),
		TTLNews:            durationOrDefault(cfg.News, 5*time.Minute),
		TTLMacro:           durationOrDefault(cfg.Macro, 10*time.Minute),
		TTLHoldings:        durationOrDefault(cfg.Holdings, time.Hour),
		TTLDailyCandles:    durationOrDefault(cfg.DailyCandles, 5*time.Minute),
		TTLIntradayCandles: durationOrDefault(cfg.IntradayCandles, 30*time.Second),
	}
}

func durationOrDefault(seconds int, fallback time.Duration) time.Duration {
	if seconds < 0 {
		return 0
	}
	if seconds == 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

// Duration returns the configured duration for the given TTL class.
func (t TTLSet) Duration(class TTLClass) time.Duration {
	if t == nil {
		return 0
	}
	return t[class]
}

// Scaled applies a multiplier to a TTL class.
func (t TTLSet) Scaled(class TTLClass, factor float64) time.Duration {
	base := t.Duration(class)
	if base <= 0 || factor <= 0 {
		return base
	}
	return time.Duration(float64(base) * factor)
}

func formatKey(parts ...string) string {
	values := make([]string, 0, len(parts)+1)
	values = append(values, Namespace)
	for _, part := range parts {
		clean := strings.TrimSpace(part)
		if clean == "" {
			continue
		}
		values = append(values, clean)
	}
	return strings.Join(values, ":")
}

func day(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

// --- Quotes & Reference Data -----------------------------------------------

func QuoteKey(symbol string) string {
	return formatKey("quote", strings.ToUpper(symbol))
}

func ProfileKey(symbol string) string {
	return formatKey("profile", strings.ToUpper(symbol))
}

// NewsKey scopes company news by symbol and UTC date range.
func NewsKey(symbol string, from, to time.Time) string {
	return formatKey("news", strings.ToUpper(symbol), day(from), day(to))
}

// MacroKey stores a single FRED series observation.
func MacroKey(seriesID string) string {
	return formatKey("macro", strings.ToUpper(seriesID))
}

// HoldingsKey stores an ETF constituent list.
func HoldingsKey(etf string) string {
	return formatKey("holdings", strings.ToUpper(etf))
}

// EarningsKey stores the earnings calendar for one symbol and range.
func EarningsKey(symbol string, from, to time.Time) string {
	return formatKey("earnings", strings.ToUpper(symbol), day(from), day(to))
}

// EconomicCalendarKey stores the macro event calendar for a range.
func EconomicCalendarKey(from, to time.Time) string {
	return formatKey("econ", day(from), day(to))
}

// --- Candles ----------------------------------------------------------------

// CandlesKey scopes a candle series by provider, symbol, resolution and
// window. Window bounds are bucketed to the UTC date so that repeated calls
// within a day share an entry; the TTL bounds staleness.
func CandlesKey(provider, symbol, resolution string, from, to time.Time) string {
	return formatKey("candles", provider, strings.ToUpper(symbol), resolution, day(from), day(to))
}

// --- TTL Helpers ------------------------------------------------------------

// CandlesTTL picks the daily or intraday candle TTL.
func CandlesTTL(ttl TTLSet, daily bool) time.Duration {
	if daily {
		return ttl.Duration(TTLDailyCandles)
	}
	return ttl.Duration(TTLIntradayCandles)
}

// EventsTTL returns the TTL for earnings and economic calendars.
func EventsTTL(ttl TTLSet) time.Duration {
	return ttl.Scaled(TTLNews, 2) // target ~10m when news=5m
}

// BuildKeyWithSuffix appends an arbitrary suffix to an existing key.
func BuildKeyWithSuffix(baseKey, suffix string) string {
	if strings.TrimSpace(suffix) == "" {
		return baseKey
	}
	return fmt.Sprintf("%s:%s", baseKey, strings.TrimSpace(suffix))
}
