package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "dailyproxy-api/pkg/market/providers/alpaca"
	_ "dailyproxy-api/pkg/market/providers/twelvedata"
)

func TestMustLoadDefault_shippedConfig(t *testing.T) {
	t.Setenv("NO_DOTENV", "1")
	for _, key := range []string{
		"FINNHUB_API_KEY", "FRED_API_KEY", "FMP_API_KEY", "POLYGON_API_KEY", "TWELVEDATA_API_KEY",
		"ALPACA_API_KEY_ID", "ALPACA_API_SECRET_KEY", "ALPACA_BASE_URL",
	} {
		t.Setenv(key, "")
	}

	cfg := MustLoadDefault()
	assert.Equal(t, "dev", cfg.Env)
	assert.False(t, cfg.RedisEnabled())
	assert.Equal(t, "*/5 13-21 * * 1-5", cfg.Warmer.CronSpec())

	require.NotNil(t, cfg.Market.Value)
	assert.Equal(t, "America/New_York", cfg.Market.Value.SessionLocation().String())
	assert.Equal(t, []string{"finnhub", "alpaca", "polygon", "twelvedata"}, cfg.Market.Value.Daily)

	require.NotNil(t, cfg.Upstream.Value)
	assert.False(t, cfg.Upstream.Value.Finnhub.Enabled())
	assert.False(t, cfg.Upstream.Value.Alpaca.Enabled())
}
