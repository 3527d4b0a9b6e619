package logic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dailyproxy-api/internal/svc"
	"dailyproxy-api/pkg/cache"
	"dailyproxy-api/pkg/macro/fred"
	"dailyproxy-api/pkg/market/providers/finnhub"
)

// ErrNotConfigured is returned when the upstream for a part has no credential.
var ErrNotConfigured = errors.New("upstream not configured")

// sources serves cached pass-through lookups shared by several endpoints.
type sources struct {
	svc *svc.ServiceContext
}

func newSources(svcCtx *svc.ServiceContext) sources {
	return sources{svc: svcCtx}
}

func (s sources) ttl(class cache.TTLClass) time.Duration {
	return s.svc.TTL.Duration(class)
}

func (s sources) quote(ctx context.Context, symbol string) (*finnhub.Quote, error) {
	if s.svc.Finnhub == nil {
		return nil, fmt.Errorf("finnhub: %w", ErrNotConfigured)
	}
	return cache.Fetch(ctx, s.svc.Cache, cache.QuoteKey(symbol), s.ttl(cache.TTLQuote),
		func(ctx context.Context) (*finnhub.Quote, error) {
			return s.svc.Finnhub.Quote(ctx, symbol)
		}, nil)
}

func (s sources) profile(ctx context.Context, symbol string) (*finnhub.Profile, error) {
	if s.svc.Finnhub == nil {
		return nil, fmt.Errorf("finnhub: %w", ErrNotConfigured)
	}
	return cache.Fetch(ctx, s.svc.Cache, cache.ProfileKey(symbol), s.ttl(cache.TTLProfile),
		func(ctx context.Context) (*finnhub.Profile, error) {
			return s.svc.Finnhub.Profile(ctx, symbol)
		}, nil)
}

func (s sources) news(ctx context.Context, symbol string, days, limit int) ([]finnhub.NewsItem, error) {
	if s.svc.Finnhub == nil {
		return nil, fmt.Errorf("finnhub: %w", ErrNotConfigured)
	}
	to := s.svc.Now().UTC()
	from := to.AddDate(0, 0, -days)
	return cache.Fetch(ctx, s.svc.Cache, cache.BuildKeyWithSuffix(cache.NewsKey(symbol, from, to), fmt.Sprint(limit)), s.ttl(cache.TTLNews),
		func(ctx context.Context) ([]finnhub.NewsItem, error) {
			items, err := s.svc.Finnhub.CompanyNews(ctx, symbol, from, to, limit)
			if items == nil && err == nil {
				items = []finnhub.NewsItem{}
			}
			return items, err
		}, nil)
}

func (s sources) earnings(ctx context.Context, from, to time.Time) ([]finnhub.Earning, error) {
	if s.svc.Finnhub == nil {
		return nil, fmt.Errorf("finnhub: %w", ErrNotConfigured)
	}
	return cache.Fetch(ctx, s.svc.Cache, cache.EarningsKey("all", from, to), cache.EventsTTL(s.svc.TTL),
		func(ctx context.Context) ([]finnhub.Earning, error) {
			return s.svc.Finnhub.EarningsCalendar(ctx, "", from, to)
		}, nil)
}

func (s sources) latest(ctx context.Context, seriesID string) (*fred.Observation, error) {
	if s.svc.FRED == nil {
		return nil, fmt.Errorf("fred: %w", ErrNotConfigured)
	}
	return cache.Fetch(ctx, s.svc.Cache, cache.MacroKey(seriesID), s.ttl(cache.TTLMacro),
		func(ctx context.Context) (*fred.Observation, error) {
			return s.svc.FRED.Latest(ctx, seriesID)
		}, nil)
}

// treasury returns the latest constant-maturity yields keyed by tenor label.
// Tenors that fail are omitted.
func (s sources) treasury(ctx context.Context) map[string]*fred.Observation {
	out := make(map[string]*fred.Observation, len(fred.TreasurySeries))
	for _, t := range fred.TreasurySeries {
		if obs, err := s.latest(ctx, t.Series); err == nil {
			out[t.Label] = obs
		}
	}
	return out
}

func (s sources) holdings(ctx context.Context, etf string) (json.RawMessage, error) {
	if s.svc.FMP == nil {
		return nil, fmt.Errorf("fmp: %w", ErrNotConfigured)
	}
	return cache.Fetch(ctx, s.svc.Cache, cache.HoldingsKey(etf), s.ttl(cache.TTLHoldings),
		func(ctx context.Context) (json.RawMessage, error) {
			return s.svc.FMP.ETFHoldings(ctx, etf)
		}, nil)
}

func (s sources) economicCalendar(ctx context.Context, from, to time.Time) ([]json.RawMessage, error) {
	if s.svc.FMP == nil {
		return nil, fmt.Errorf("fmp: %w", ErrNotConfigured)
	}
	return cache.Fetch(ctx, s.svc.Cache, cache.EconomicCalendarKey(from, to), cache.EventsTTL(s.svc.TTL),
		func(ctx context.Context) ([]json.RawMessage, error) {
			return s.svc.FMP.EconomicCalendar(ctx, from, to)
		}, nil)
}
