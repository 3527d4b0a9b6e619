package market

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"

	"dailyproxy-api/pkg/upstream"
)

var (
	// ErrNoData marks a call that completed but produced nothing usable:
	// an empty result set, a malformed payload or an explicit "no data" flag.
	ErrNoData = errors.New("market: no data")
	// ErrUnreachable marks transport failures, timeouts and non-2xx responses.
	ErrUnreachable = errors.New("market: provider unreachable")
	// ErrMissingCredential is returned by adapter builders when the provider
	// has no credential configured. The adapter is then left unregistered.
	ErrMissingCredential = errors.New("market: missing credential")
)

// Adapter fetches candles from one provider and normalizes them to a Series.
type Adapter interface {
	// Name is the provider identifier used for provenance.
	Name() string
	// Fetch returns an ascending series. Failures are reported through
	// ErrNoData or ErrUnreachable and never abort the caller.
	Fetch(ctx context.Context, req Request) (Series, error)
}

// AdapterBuilder constructs an Adapter from configuration.
type AdapterBuilder func(name string, cfg *ProviderConfig) (Adapter, error)

var (
	adapterRegistry   = make(map[string]AdapterBuilder)
	adapterRegistryMu sync.RWMutex
)

// RegisterAdapter registers a provider adapter constructor under typeName.
func RegisterAdapter(typeName string, builder AdapterBuilder) {
	adapterRegistryMu.Lock()
	defer adapterRegistryMu.Unlock()
	adapterRegistry[strings.ToLower(strings.TrimSpace(typeName))] = builder
}

func lookupAdapterBuilder(typeName string) (AdapterBuilder, bool) {
	adapterRegistryMu.RLock()
	defer adapterRegistryMu.RUnlock()
	builder, ok := adapterRegistry[strings.ToLower(strings.TrimSpace(typeName))]
	return builder, ok
}

// Classify folds an adapter error into ErrNoData or ErrUnreachable.
// Context errors are returned unchanged so callers can tell a deadline apart.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, ErrNoData), errors.Is(err, ErrUnreachable):
		return err
	}
	var statusErr *upstream.StatusError
	if errors.As(err, &statusErr) {
		return ErrUnreachable
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return ErrUnreachable
	}
	return ErrNoData
}

// Wrap annotates err with the provider name and its classification while
// keeping the original chain for errors.As.
func Wrap(provider string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNoData), errors.Is(err, ErrUnreachable),
		errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%s: %w", provider, err)
	default:
		return fmt.Errorf("%s: %w: %w", provider, Classify(err), err)
	}
}

// AdapterFunc adapts a plain function to the Adapter interface.
type AdapterFunc struct {
	ID string
	Fn func(ctx context.Context, req Request) (Series, error)
}

func (f AdapterFunc) Name() string { return f.ID }

func (f AdapterFunc) Fetch(ctx context.Context, req Request) (Series, error) {
	return f.Fn(ctx, req)
}
