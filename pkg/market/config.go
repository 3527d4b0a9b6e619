package market

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/zeromicro/go-zero/core/logx"
	"gopkg.in/yaml.v3"

	"dailyproxy-api/pkg/confkit"
	"dailyproxy-api/pkg/upstream"
)

const (
	defaultAttemptTimeout = 15 * time.Second
	ModeSequential        = "sequential"
	ModeParallel          = "parallel"
)

// Config describes the candle adapters and their priority per resolution class.
type Config struct {
	TimeoutRaw      string                     `yaml:"timeout"`
	Timeout         time.Duration              `yaml:"-"`
	Mode            string                     `yaml:"mode"`
	SessionTimezone string                     `yaml:"session_timezone"`
	Providers       map[string]*ProviderConfig `yaml:"providers"`
	Daily           []string                   `yaml:"daily"`
	Intraday        []string                   `yaml:"intraday"`

	sessionLocation *time.Location
}

// ProviderConfig represents configuration for a single candle provider.
type ProviderConfig struct {
	Type string `yaml:"type"`

	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	BaseURL   string `yaml:"base_url"`
	Feed      string `yaml:"feed"`

	HTTPTimeoutRaw string        `yaml:"http_timeout"`
	HTTPTimeout    time.Duration `yaml:"-"`
	MaxRetries     int           `yaml:"max_retries"`
}

// HasCredential reports whether an API key was supplied.
func (p *ProviderConfig) HasCredential() bool {
	return p != nil && strings.TrimSpace(p.APIKey) != ""
}

// LoadConfig reads adapter configuration from disk.
func LoadConfig(path string) (*Config, error) {
	confkit.LoadDotenvOnce()
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open market config: %w", err)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// MustLoad reads market configuration from the default project location and panics on error.
func MustLoad() *Config {
	path := confkit.MustProjectPath("etc/market.yaml")
	cfg, err := LoadConfig(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadConfigFromReader constructs a Config from an io.Reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	confkit.LoadDotenvOnce()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read market config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal market config: %w", err)
	}
	if err := cfg.normalise(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalise() error {
	if c.Providers == nil {
		c.Providers = make(map[string]*ProviderConfig)
	}
	c.TimeoutRaw = strings.TrimSpace(os.ExpandEnv(c.TimeoutRaw))
	c.Timeout = defaultAttemptTimeout
	if c.TimeoutRaw != "" {
		d, err := time.ParseDuration(c.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("market config: invalid timeout %q: %w", c.TimeoutRaw, err)
		}
		c.Timeout = d
	}
	c.Mode = strings.ToLower(strings.TrimSpace(os.ExpandEnv(c.Mode)))
	if c.Mode == "" {
		c.Mode = ModeSequential
	}
	c.SessionTimezone = strings.TrimSpace(os.ExpandEnv(c.SessionTimezone))
	if c.SessionTimezone == "" {
		c.SessionTimezone = "UTC"
	}
	for name, provider := range c.Providers {
		if provider == nil {
			provider = &ProviderConfig{}
			c.Providers[name] = provider
		}
		provider.expandEnv()
		if err := provider.parseDurations(name); err != nil {
			return err
		}
	}
	c.Daily = trimNames(c.Daily)
	c.Intraday = trimNames(c.Intraday)
	return nil
}

func trimNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func (p *ProviderConfig) expandEnv() {
	p.Type = strings.TrimSpace(os.ExpandEnv(p.Type))
	p.APIKey = strings.TrimSpace(os.ExpandEnv(p.APIKey))
	p.APISecret = strings.TrimSpace(os.ExpandEnv(p.APISecret))
	p.BaseURL = strings.TrimSpace(os.ExpandEnv(p.BaseURL))
	p.Feed = strings.TrimSpace(os.ExpandEnv(p.Feed))
	p.HTTPTimeoutRaw = strings.TrimSpace(os.ExpandEnv(p.HTTPTimeoutRaw))
}

func (p *ProviderConfig) parseDurations(name string) error {
	if p.HTTPTimeoutRaw == "" {
		return nil
	}
	d, err := time.ParseDuration(p.HTTPTimeoutRaw)
	if err != nil {
		return fmt.Errorf("market provider %s: invalid http_timeout %q: %w", name, p.HTTPTimeoutRaw, err)
	}
	if d <= 0 {
		return fmt.Errorf("market provider %s: http_timeout must be positive, got %s", name, d)
	}
	p.HTTPTimeout = d
	return nil
}

// Validate ensures the configuration is structurally sound.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("market config: timeout must be positive, got %s", c.Timeout)
	}
	switch c.Mode {
	case ModeSequential, ModeParallel:
	default:
		return fmt.Errorf("market config: mode must be %s or %s, got %q", ModeSequential, ModeParallel, c.Mode)
	}
	loc, err := time.LoadLocation(c.SessionTimezone)
	if err != nil {
		return fmt.Errorf("market config: invalid session_timezone %q: %w", c.SessionTimezone, err)
	}
	c.sessionLocation = loc

	for name, provider := range c.Providers {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("market config: provider name cannot be empty")
		}
		if err := provider.validate(name); err != nil {
			return err
		}
	}
	for class, chain := range map[Class][]string{Daily: c.Daily, Intraday: c.Intraday} {
		seen := make(map[string]bool, len(chain))
		for _, name := range chain {
			if _, ok := c.Providers[name]; !ok {
				return fmt.Errorf("market config: %s chain references undefined provider %q", class, name)
			}
			if seen[name] {
				return fmt.Errorf("market config: %s chain lists provider %q twice", class, name)
			}
			seen[name] = true
		}
	}
	return nil
}

func (p *ProviderConfig) validate(name string) error {
	if p == nil {
		return fmt.Errorf("market config: provider %s is nil", name)
	}
	if strings.TrimSpace(p.Type) == "" {
		return fmt.Errorf("market config: provider %s must specify type", name)
	}
	if _, ok := lookupAdapterBuilder(p.Type); !ok {
		return fmt.Errorf("market config: provider %s has unsupported type %q", name, p.Type)
	}
	return nil
}

// SessionLocation returns the timezone used to decide session boundaries.
func (c *Config) SessionLocation() *time.Location {
	if c.sessionLocation == nil {
		return time.UTC
	}
	return c.sessionLocation
}

// BuildAdapters instantiates every provider that has its credential configured.
// Providers without credentials are returned in disabled and never invoked.
func (c *Config) BuildAdapters() (adapters map[string]Adapter, disabled []string, err error) {
	adapters = make(map[string]Adapter, len(c.Providers))
	for name, providerCfg := range c.Providers {
		builder, ok := lookupAdapterBuilder(providerCfg.Type)
		if !ok {
			return nil, nil, fmt.Errorf("market provider %s: unsupported type %q", name, providerCfg.Type)
		}
		adapter, err := builder(name, providerCfg)
		if errors.Is(err, ErrMissingCredential) {
			logx.Infof("market provider %s disabled: no credential configured", name)
			disabled = append(disabled, name)
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("market provider %s: %w", name, err)
		}
		adapters[name] = adapter
	}
	return adapters, disabled, nil
}

// Chains orders the built adapters per class following the configured priority.
// Names without a built adapter are skipped.
func (c *Config) Chains(adapters map[string]Adapter) map[Class][]Adapter {
	pick := func(names []string) []Adapter {
		out := make([]Adapter, 0, len(names))
		for _, name := range names {
			if a, ok := adapters[name]; ok {
				out = append(out, a)
			}
		}
		return out
	}
	return map[Class][]Adapter{
		Daily:    pick(c.Daily),
		Intraday: pick(c.Intraday),
	}
}

// ResolverOptions converts the config into resolver options.
func (c *Config) ResolverOptions() []ResolverOption {
	return []ResolverOption{
		WithAttemptTimeout(c.Timeout),
		WithParallel(c.Mode == ModeParallel),
	}
}

// ClientOptions converts the provider's transport settings into upstream client options.
func (p *ProviderConfig) ClientOptions() []upstream.Option {
	var opts []upstream.Option
	if p == nil {
		return opts
	}
	if p.BaseURL != "" {
		opts = append(opts, upstream.WithBaseURL(p.BaseURL))
	}
	if p.HTTPTimeout > 0 {
		opts = append(opts, upstream.WithTimeout(p.HTTPTimeout))
	}
	if p.MaxRetries > 0 {
		opts = append(opts, upstream.WithMaxRetries(p.MaxRetries))
	}
	return opts
}
