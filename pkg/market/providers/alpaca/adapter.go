package alpaca

import (
	"context"
	"strings"

	"dailyproxy-api/pkg/market"
)

// Adapter serves candles from Alpaca's historical bars endpoint.
type Adapter struct {
	name   string
	client *Client
}

// NewAdapter wraps client as a market.Adapter named name.
func NewAdapter(name string, client *Client) *Adapter {
	if name == "" {
		name = serviceName
	}
	return &Adapter{name: name, client: client}
}

func (a *Adapter) Name() string { return a.name }

// Fetch implements market.Adapter.
func (a *Adapter) Fetch(ctx context.Context, req market.Request) (market.Series, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	series, err := a.client.Bars(ctx, req.Symbol, req.Resolution, req.From, req.To)
	if err != nil {
		return nil, market.Wrap(a.name, err)
	}
	return series, nil
}

func init() {
	market.RegisterAdapter("alpaca", func(name string, cfg *market.ProviderConfig) (market.Adapter, error) {
		if !cfg.HasCredential() || strings.TrimSpace(cfg.APISecret) == "" {
			return nil, market.ErrMissingCredential
		}
		return NewAdapter(name, NewClient(cfg.APIKey, cfg.APISecret, cfg.Feed, cfg.ClientOptions()...)), nil
	})
}
