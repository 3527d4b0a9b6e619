package alpaca

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"dailyproxy-api/pkg/upstream"
)

// Broker performs read-only calls against the trading API. Payloads are
// passed through untouched.
type Broker struct {
	http *upstream.Client
}

// NewBroker constructs a trading API client.
func NewBroker(keyID, secret string, opts ...upstream.Option) *Broker {
	all := append([]upstream.Option{
		upstream.WithHeader(headerKey, keyID),
		upstream.WithHeader(headerSecret, secret),
	}, opts...)
	return &Broker{http: upstream.New(serviceName+"-trading", DefaultTradingURL, all...)}
}

// Account returns the account summary.
func (b *Broker) Account(ctx context.Context) (json.RawMessage, error) {
	return b.raw(ctx, "/v2/account", nil)
}

// Positions returns the open positions.
func (b *Broker) Positions(ctx context.Context) (json.RawMessage, error) {
	return b.raw(ctx, "/v2/positions", nil)
}

// OpenOrders returns up to limit open orders.
func (b *Broker) OpenOrders(ctx context.Context, limit int) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("status", "open")
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	return b.raw(ctx, "/v2/orders", params)
}

func (b *Broker) raw(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	var out json.RawMessage
	if err := b.http.GetJSON(ctx, path, params, &out); err != nil {
		return nil, err
	}
	return out, nil
}
