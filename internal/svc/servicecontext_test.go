package svc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailyproxy-api/internal/config"
	marketpkg "dailyproxy-api/pkg/market"
	"dailyproxy-api/pkg/technical"
)

func TestBuildWithoutSections(t *testing.T) {
	svc, err := Build(config.Config{})
	require.NoError(t, err)

	assert.NotNil(t, svc.Cache)
	assert.Empty(t, svc.Resolver.Adapters(marketpkg.Daily))
	assert.Nil(t, svc.Finnhub)
	assert.Nil(t, svc.FRED)
	assert.Nil(t, svc.FMP)
	assert.Nil(t, svc.Broker)

	snap, err := svc.Technical.Snapshot(context.Background(), technical.Query{Symbol: "AAPL"})
	require.NoError(t, err)
	assert.Equal(t, []string{technical.TagDailyNoData, technical.TagIntradayNoData}, snap.Errors)
}

func TestBuildWiresCredentials(t *testing.T) {
	mkt := &marketpkg.Config{
		Timeout: 5 * time.Second,
		Mode:    marketpkg.ModeSequential,
		Providers: map[string]*marketpkg.ProviderConfig{
			"finnhub": {Type: "finnhub", APIKey: "fk"},
			"polygon": {Type: "polygon"},
		},
		Daily:    []string{"finnhub", "polygon"},
		Intraday: []string{"polygon", "finnhub"},
	}
	up := &config.UpstreamConfig{
		Finnhub: config.Credential{APIKey: "fk", Timeout: time.Second},
		FRED:    config.Credential{APIKey: "fr", Timeout: time.Second},
		Alpaca: config.AlpacaCredential{
			Credential: config.Credential{APIKey: "ak", Timeout: time.Second},
			APISecret:  "as",
		},
	}
	c := config.Config{}
	c.Market.Value = mkt
	c.Upstream.Value = up

	svc, err := Build(c)
	require.NoError(t, err)
	assert.Equal(t, []string{"finnhub"}, svc.Resolver.Adapters(marketpkg.Daily))
	assert.Equal(t, []string{"finnhub"}, svc.Resolver.Adapters(marketpkg.Intraday))
	assert.Equal(t, []string{"polygon"}, svc.DisabledAdapters)
	assert.NotNil(t, svc.Finnhub)
	assert.NotNil(t, svc.FRED)
	assert.Nil(t, svc.FMP)
	assert.NotNil(t, svc.Broker)
}
