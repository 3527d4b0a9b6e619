package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"github.com/zeromicro/go-zero/rest"

	"dailyproxy-api/pkg/cache"
	"dailyproxy-api/pkg/confkit"
	marketpkg "dailyproxy-api/pkg/market"
)

type MarketSection = confkit.Section[marketpkg.Config]
type UpstreamSection = confkit.Section[UpstreamConfig]

// WarmerConf drives cmd/cron.
type WarmerConf struct {
	Schedule    string   `json:",optional"`
	Watchlist   []string `json:",optional"`
	IntradayRes string   `json:",default=5"`
	Days        int      `json:",default=40"`
}

type Config struct {
	rest.RestConf
	// Env is one of test | dev | prod.
	Env string `json:",default=dev"`
	// CandlesDeadline bounds a whole /candles request, in seconds.
	CandlesDeadline int `json:",default=25"`
	// MaxWorkers bounds fan-out in the multi-quote endpoints.
	MaxWorkers int `json:",default=8"`

	Redis  redis.RedisConf `json:",optional"`
	TTL    cache.TTLConfig `json:",optional"`
	Warmer WarmerConf      `json:",optional"`

	Market   MarketSection   `json:",optional"`
	Upstream UpstreamSection `json:",optional"`

	mainPath string
	baseDir  string
}

func (c *Config) IsTestEnv() bool {
	return c.Env == "test"
}

func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func Load(path string) (*Config, error) {
	confkit.LoadDotenvOnce()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path %s: %w", path, err)
	}

	var cfg Config
	if err := conf.Load(absPath, &cfg, conf.UseEnv()); err != nil {
		return nil, fmt.Errorf("load config %s: %w", absPath, err)
	}
	if err := cfg.hydrateSections(absPath); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Env)) {
	case "":
		c.Env = "dev"
	case "test", "dev", "prod":
		c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	default:
		return errors.New("config: env must be one of test|dev|prod")
	}
	if c.CandlesDeadline <= 0 {
		return errors.New("config: candlesDeadline must be positive")
	}
	if c.MaxWorkers <= 0 {
		return errors.New("config: maxWorkers must be positive")
	}
	if c.Warmer.Days < 0 {
		return errors.New("config: warmer.days must not be negative")
	}
	return nil
}

// hydrateSections loads the per-file sections relative to the main config.
// Upstream credentials fall back to the process environment when no file is
// configured.
func (c *Config) hydrateSections(mainPath string) error {
	c.mainPath = mainPath
	c.baseDir = filepath.Dir(mainPath)

	if err := c.Market.Hydrate(c.baseDir, marketpkg.LoadConfig); err != nil {
		return fmt.Errorf("load market config: %w", err)
	}
	if err := c.Upstream.Hydrate(c.baseDir, LoadUpstream); err != nil {
		return fmt.Errorf("load upstream config: %w", err)
	}
	if c.Upstream.Value == nil {
		c.Upstream.Value = UpstreamFromEnv()
	}
	return nil
}

// DefaultWarmSchedule is used when Warmer.Schedule is empty.
const DefaultWarmSchedule = "@every 5m"

// CronSpec returns the warmer schedule in robfig/cron syntax.
func (w WarmerConf) CronSpec() string {
	if s := strings.TrimSpace(w.Schedule); s != "" {
		return s
	}
	return DefaultWarmSchedule
}

// RequestDeadline returns CandlesDeadline as a duration.
func (c *Config) RequestDeadline() time.Duration {
	return time.Duration(c.CandlesDeadline) * time.Second
}

// RedisEnabled reports whether a Redis cache store was configured.
func (c *Config) RedisEnabled() bool {
	return strings.TrimSpace(c.Redis.Host) != ""
}

func (c *Config) MainPath() string {
	return c.mainPath
}

func (c *Config) BaseDir() string {
	return c.baseDir
}
