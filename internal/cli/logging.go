package cli

import (
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"dailyproxy-api/internal/config"
	"dailyproxy-api/pkg/confkit"
)

// ConfigSummaryLines returns human readable lines describing the loaded app config.
func ConfigSummaryLines(cfg *config.Config) []string {
	if cfg == nil {
		return []string{"Configuration: <nil>"}
	}

	lines := []string{
		fmt.Sprintf("Environment: %s", cfg.Env),
		fmt.Sprintf("Listen: %s:%d", cfg.Host, cfg.Port),
		fmt.Sprintf("Cache store: %s", cacheStore(cfg)),
		fmt.Sprintf("TTL quote/profile/news/macro/holdings: %ds / %ds / %ds / %ds / %ds",
			cfg.TTL.Quote, cfg.TTL.Profile, cfg.TTL.News, cfg.TTL.Macro, cfg.TTL.Holdings),
		fmt.Sprintf("TTL candles daily/intraday: %ds / %ds", cfg.TTL.DailyCandles, cfg.TTL.IntradayCandles),
		sectionLine("Market config", cfg.Market),
		sectionLine("Upstream config", cfg.Upstream),
	}
	if m := cfg.Market.Value; m != nil {
		lines = append(lines,
			fmt.Sprintf("Resolver: mode=%s timeout=%s session=%s", m.Mode, m.Timeout, m.SessionTimezone),
			fmt.Sprintf("Daily chain: %s", chain(m.Daily)),
			fmt.Sprintf("Intraday chain: %s", chain(m.Intraday)),
		)
	}
	if up := cfg.Upstream.Value; up != nil {
		lines = append(lines, fmt.Sprintf("Upstreams: finnhub=%s fred=%s fmp=%s alpaca=%s",
			presence(up.Finnhub.Enabled()), presence(up.FRED.Enabled()),
			presence(up.FMP.Enabled()), presence(up.Alpaca.Enabled())))
	}
	return lines
}

// LogConfigSummary emits the configuration summary using logx.
func LogConfigSummary(cfg *config.Config) {
	lines := ConfigSummaryLines(cfg)
	if len(lines) == 0 {
		return
	}
	logx.Info("configuration summary")
	for _, line := range lines {
		logx.Infof("config • %s", line)
	}
}

// LogDisabledAdapters reports candle providers skipped for lack of credentials.
func LogDisabledAdapters(disabled []string) {
	if len(disabled) == 0 {
		return
	}
	logx.Infof("config • candle adapters disabled (no credential): %s", strings.Join(disabled, ", "))
}

func cacheStore(cfg *config.Config) string {
	if cfg.RedisEnabled() {
		return "redis " + cfg.Redis.Host
	}
	return "memory"
}

func chain(names []string) string {
	if len(names) == 0 {
		return "<empty>"
	}
	return strings.Join(names, " → ")
}

func presence(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func sectionLine[T any](name string, section confkit.Section[T]) string {
	switch {
	case strings.TrimSpace(section.File) != "":
		return fmt.Sprintf("%s: %s", name, section.File)
	case section.Value != nil:
		return fmt.Sprintf("%s: inline", name)
	default:
		return fmt.Sprintf("%s: not configured", name)
	}
}
