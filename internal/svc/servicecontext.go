package svc

import (
	"fmt"
	"log"
	"sort"
	"time"

	"dailyproxy-api/internal/config"
	"dailyproxy-api/pkg/cache"
	marketpkg "dailyproxy-api/pkg/market"
	"dailyproxy-api/pkg/macro/fmp"
	"dailyproxy-api/pkg/macro/fred"
	"dailyproxy-api/pkg/market/providers/alpaca"
	"dailyproxy-api/pkg/market/providers/finnhub"
	_ "dailyproxy-api/pkg/market/providers/polygon"
	_ "dailyproxy-api/pkg/market/providers/twelvedata"
	"dailyproxy-api/pkg/technical"
	"dailyproxy-api/pkg/upstream"
)

type ServiceContext struct {
	Config config.Config

	Cache cache.Store
	TTL   cache.TTLSet

	MarketConfig     *marketpkg.Config
	Resolver         *marketpkg.Resolver
	DisabledAdapters []string
	Technical        *technical.Assembler

	// Pass-through clients; nil when the credential is missing.
	Finnhub *finnhub.Client
	FRED    *fred.Client
	FMP     *fmp.Client
	Broker  *alpaca.Broker

	Now func() time.Time
}

// NewServiceContext wires every dependency and exits on configuration errors.
func NewServiceContext(c config.Config) *ServiceContext {
	svc, err := Build(c)
	if err != nil {
		log.Fatalf("failed to build service context: %v", err)
	}
	return svc
}

// Build wires every dependency from c.
func Build(c config.Config) (*ServiceContext, error) {
	svc := &ServiceContext{
		Config: c,
		TTL:    cache.NewTTLSet(c.TTL),
		Now:    time.Now,
	}

	if c.RedisEnabled() {
		store, err := cache.NewRedisStore(c.Redis)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		svc.Cache = store
	} else {
		store, err := cache.NewMemoryStore("dailyproxy", svc.TTL.Duration(cache.TTLHoldings))
		if err != nil {
			return nil, fmt.Errorf("memory cache: %w", err)
		}
		svc.Cache = store
	}

	marketCfg := c.Market.Value
	if marketCfg == nil {
		marketCfg = &marketpkg.Config{Timeout: 15 * time.Second, Mode: marketpkg.ModeSequential}
	}
	adapters, disabled, err := marketCfg.BuildAdapters()
	if err != nil {
		return nil, err
	}
	sort.Strings(disabled)
	chains := marketpkg.CacheAll(marketCfg.Chains(adapters), svc.Cache, svc.TTL)
	svc.MarketConfig = marketCfg
	svc.DisabledAdapters = disabled
	svc.Resolver = marketpkg.NewResolver(chains, marketCfg.ResolverOptions()...)
	svc.Technical = technical.NewAssembler(svc.Resolver, technical.WithLocation(marketCfg.SessionLocation()))

	if up := c.Upstream.Value; up != nil {
		if up.Finnhub.Enabled() {
			svc.Finnhub = finnhub.NewClient(up.Finnhub.APIKey, clientOptions(up.Finnhub)...)
		}
		if up.FRED.Enabled() {
			svc.FRED = fred.NewClient(up.FRED.APIKey, clientOptions(up.FRED)...)
		}
		if up.FMP.Enabled() {
			svc.FMP = fmp.NewClient(up.FMP.APIKey, clientOptions(up.FMP)...)
		}
		if up.Alpaca.Enabled() {
			svc.Broker = alpaca.NewBroker(up.Alpaca.APIKey, up.Alpaca.APISecret, clientOptions(up.Alpaca.Credential)...)
		}
	}
	return svc, nil
}

func clientOptions(cred config.Credential) []upstream.Option {
	opts := []upstream.Option{upstream.WithTimeout(cred.Timeout)}
	if cred.BaseURL != "" {
		opts = append(opts, upstream.WithBaseURL(cred.BaseURL))
	}
	return opts
}
