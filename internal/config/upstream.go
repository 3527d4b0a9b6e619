package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"dailyproxy-api/pkg/confkit"
)

const defaultUpstreamTimeout = 10 * time.Second

// Credential configures one pass-through upstream.
type Credential struct {
	APIKey     string        `yaml:"api_key"`
	BaseURL    string        `yaml:"base_url"`
	TimeoutRaw string        `yaml:"timeout"`
	Timeout    time.Duration `yaml:"-"`
}

// Enabled reports whether an API key is present.
func (c Credential) Enabled() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// AlpacaCredential configures the read-only brokerage client.
type AlpacaCredential struct {
	Credential `yaml:",inline"`
	APISecret  string `yaml:"api_secret"`
}

// Enabled reports whether both halves of the key pair are present.
func (c AlpacaCredential) Enabled() bool {
	return c.Credential.Enabled() && strings.TrimSpace(c.APISecret) != ""
}

// UpstreamConfig holds credentials for the quote, macro and brokerage
// pass-through clients.
type UpstreamConfig struct {
	Finnhub Credential       `yaml:"finnhub"`
	FRED    Credential       `yaml:"fred"`
	FMP     Credential       `yaml:"fmp"`
	Alpaca  AlpacaCredential `yaml:"alpaca"`
}

// LoadUpstream reads an upstream credentials file with ${ENV} expansion.
func LoadUpstream(path string) (*UpstreamConfig, error) {
	cfg, err := confkit.LoadYAML[UpstreamConfig](path)
	if err != nil {
		return nil, err
	}
	if err := cfg.normalise(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UpstreamFromEnv builds credentials from the conventional environment variables.
func UpstreamFromEnv() *UpstreamConfig {
	cfg := &UpstreamConfig{
		Finnhub: Credential{APIKey: os.Getenv("FINNHUB_API_KEY")},
		FRED:    Credential{APIKey: os.Getenv("FRED_API_KEY")},
		FMP:     Credential{APIKey: os.Getenv("FMP_API_KEY")},
		Alpaca: AlpacaCredential{
			Credential: Credential{APIKey: os.Getenv("ALPACA_API_KEY_ID"), BaseURL: os.Getenv("ALPACA_BASE_URL")},
			APISecret:  os.Getenv("ALPACA_API_SECRET_KEY"),
		},
	}
	_ = cfg.normalise()
	return cfg
}

func (u *UpstreamConfig) normalise() error {
	for name, cred := range map[string]*Credential{
		"finnhub": &u.Finnhub,
		"fred":    &u.FRED,
		"fmp":     &u.FMP,
		"alpaca":  &u.Alpaca.Credential,
	} {
		cred.APIKey = strings.TrimSpace(cred.APIKey)
		cred.BaseURL = strings.TrimSpace(cred.BaseURL)
		cred.Timeout = defaultUpstreamTimeout
		if raw := strings.TrimSpace(cred.TimeoutRaw); raw != "" {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return fmt.Errorf("upstream %s: invalid timeout %q: %w", name, raw, err)
			}
			if d <= 0 {
				return fmt.Errorf("upstream %s: timeout must be positive", name)
			}
			cred.Timeout = d
		}
	}
	u.Alpaca.APISecret = strings.TrimSpace(u.Alpaca.APISecret)
	return nil
}
