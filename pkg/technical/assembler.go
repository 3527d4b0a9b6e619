package technical

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"dailyproxy-api/pkg/market"
	"dailyproxy-api/pkg/market/indicators"
)

// ErrEmptySymbol is the only hard failure of Snapshot.
var ErrEmptySymbol = errors.New("technical: symbol is required")

const (
	// DefaultIntradayRes is used when Query.IntradayRes is empty.
	DefaultIntradayRes = "5"
	// DefaultDays is used when Query.Days is not positive.
	DefaultDays = 40
	// MaxCandles bounds the raw window returned to callers.
	MaxCandles = 100
	// minDailyBars is the history needed for the longest moving average.
	minDailyBars = indicators.LongestAverage
)

// Resolver is the candle source the assembler depends on.
type Resolver interface {
	Resolve(ctx context.Context, class market.Class, req market.Request) market.Result
	Adapters(class market.Class) []string
}

// Query selects what to assemble.
type Query struct {
	Symbol      string
	IntradayRes string
	Days        int
	Debug       bool
}

// Assembler combines resolved candles and indicators into snapshots.
type Assembler struct {
	resolver Resolver
	loc      *time.Location
	now      func() time.Time
}

// Option customises an Assembler.
type Option func(*Assembler)

// WithLocation sets the session timezone used for VWAP and day extrema.
func WithLocation(loc *time.Location) Option {
	return func(a *Assembler) {
		if loc != nil {
			a.loc = loc
		}
	}
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAssembler constructs an assembler over resolver.
func NewAssembler(resolver Resolver, opts ...Option) *Assembler {
	a := &Assembler{resolver: resolver, loc: time.UTC, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// LookbackDays converts a trading-bar lookback into calendar days, covering
// at least the longest moving average.
func LookbackDays(days int) int {
	if days < minDailyBars {
		days = minDailyBars
	}
	return days*3/2 + 10
}

// Snapshot resolves daily and intraday candles for q.Symbol and derives
// indicators. Sub-step failures are reported through Snapshot.Errors.
func (a *Assembler) Snapshot(ctx context.Context, q Query) (*Snapshot, error) {
	symbol := strings.ToUpper(strings.TrimSpace(q.Symbol))
	if symbol == "" {
		return nil, ErrEmptySymbol
	}
	res := strings.TrimSpace(q.IntradayRes)
	if res == "" {
		res = DefaultIntradayRes
	}
	days := q.Days
	if days <= 0 {
		days = DefaultDays
	}

	now := a.now().UTC()
	dailyReq := market.Request{
		Symbol:     symbol,
		Resolution: market.DailyResolution,
		From:       now.AddDate(0, 0, -LookbackDays(days)),
		To:         now,
	}
	intradayReq := market.Request{
		Symbol:     symbol,
		Resolution: res,
		From:       time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		To:         now,
	}

	snap := &Snapshot{Symbol: symbol, Errors: []string{}}
	logger := logx.WithContext(ctx)

	daily := a.resolver.Resolve(ctx, market.Daily, dailyReq)
	if daily.Found() {
		snap.Sources.Daily = stringPtr(daily.Source)
		if !safely(func() { snap.Daily = indicators.Daily(daily.Series, a.loc) }) {
			snap.addError(TagDailyIndicatorError)
			logger.Errorf("technical: daily indicators failed for %s", symbol)
		}
	} else {
		snap.addError(missingTag(daily, TagDailyNoData, TagDailyTimeout))
	}

	intraday := a.resolver.Resolve(ctx, market.Intraday, intradayReq)
	if intraday.Found() {
		snap.Sources.Intraday = stringPtr(intraday.Source)
		if !safely(func() { snap.Intraday = indicators.Intraday(intraday.Series, res, a.loc) }) {
			snap.addError(TagIntradayIndicatorError)
			logger.Errorf("technical: intraday indicators failed for %s", symbol)
		}
	} else {
		snap.addError(missingTag(intraday, TagIntradayNoData, TagIntradayTimeout))
	}

	switch {
	case intraday.Found():
		w := intraday.Series.Tail(MaxCandles).Window(res)
		snap.Candles = &w
	case daily.Found():
		w := daily.Series.Tail(MaxCandles).Window(market.DailyResolution)
		snap.Candles = &w
	}

	if q.Debug {
		snap.Debug = &Debug{
			DailyBars:      len(daily.Series),
			IntradayBars:   len(intraday.Series),
			DailyWindow:    window(dailyReq),
			IntradayWindow: window(intradayReq),
			DailyChain:     a.resolver.Adapters(market.Daily),
			IntradayChain:  a.resolver.Adapters(market.Intraday),
			Attempts:       append(append([]market.Attempt{}, daily.Attempts...), intraday.Attempts...),
		}
	}

	logger.Infow("technical snapshot",
		logx.Field("symbol", symbol),
		logx.Field("daily_source", daily.Source),
		logx.Field("daily_bars", len(daily.Series)),
		logx.Field("intraday_source", intraday.Source),
		logx.Field("intraday_bars", len(intraday.Series)),
		logx.Field("errors", snap.Errors),
	)
	return snap, nil
}

func missingTag(r market.Result, noData, timeout string) string {
	if r.Err != nil {
		return timeout
	}
	return noData
}

func safely(fn func()) (ok bool) {
	defer func() {
		if p := recover(); p != nil {
			logx.Errorf("technical: recovered indicator panic: %v", p)
			ok = false
		}
	}()
	fn()
	return true
}

func window(req market.Request) Window {
	return Window{Resolution: req.Resolution, From: req.From.Unix(), To: req.To.Unix()}
}

func stringPtr(s string) *string {
	return &s
}
