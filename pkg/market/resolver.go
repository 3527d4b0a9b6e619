package market

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
)

// Outcome is the result of a single adapter attempt.
type Outcome string

const (
	OutcomeOK          Outcome = "ok"
	OutcomeNoData      Outcome = "no_data"
	OutcomeUnreachable Outcome = "unreachable"
	OutcomeTimeout     Outcome = "timeout"
	// OutcomeSkipped marks adapters never reached because the request deadline passed.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeSuperseded marks lower-priority results discarded in parallel mode.
	OutcomeSuperseded Outcome = "superseded"
)

// Attempt records one adapter invocation for provenance and debugging.
type Attempt struct {
	Provider  string  `json:"provider"`
	Outcome   Outcome `json:"outcome"`
	Bars      int     `json:"bars"`
	ElapsedMs int64   `json:"elapsed_ms"`
	Err       error   `json:"-"`
}

// Result is what the resolver settled on for one resolution class.
type Result struct {
	Series   Series
	Source   string
	Attempts []Attempt
	// Err is set to the context error when the request deadline cut the search short.
	Err error
}

// Found reports whether some adapter produced a non-empty series.
func (r Result) Found() bool {
	return r.Source != "" && len(r.Series) > 0
}

// Resolver walks prioritized adapter chains until one yields candles.
type Resolver struct {
	chains         map[Class][]Adapter
	attemptTimeout time.Duration
	parallel       bool
}

// ResolverOption customises a Resolver.
type ResolverOption func(*Resolver)

// WithAttemptTimeout bounds every adapter call.
func WithAttemptTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		if d > 0 {
			r.attemptTimeout = d
		}
	}
}

// WithParallel starts every adapter of a chain at once. Results are still
// consumed in priority order.
func WithParallel(enabled bool) ResolverOption {
	return func(r *Resolver) {
		r.parallel = enabled
	}
}

// NewResolver constructs a resolver over the given chains.
func NewResolver(chains map[Class][]Adapter, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		chains:         make(map[Class][]Adapter, len(chains)),
		attemptTimeout: defaultAttemptTimeout,
	}
	for class, chain := range chains {
		r.chains[class] = append([]Adapter(nil), chain...)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Adapters returns the adapter names registered for class, in priority order.
func (r *Resolver) Adapters(class Class) []string {
	chain := r.chains[class]
	names := make([]string, len(chain))
	for i, a := range chain {
		names[i] = a.Name()
	}
	return names
}

// Resolve returns the first non-empty series for class. An empty Result with
// no Source means every adapter came back without data, which is not an error.
func (r *Resolver) Resolve(ctx context.Context, class Class, req Request) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	chain := r.chains[class]
	if len(chain) == 0 {
		return Result{Series: Series{}}
	}
	if r.parallel {
		return r.resolveParallel(ctx, class, chain, req)
	}
	return r.resolveSequential(ctx, class, chain, req)
}

func (r *Resolver) resolveSequential(ctx context.Context, class Class, chain []Adapter, req Request) Result {
	result := Result{Series: Series{}, Attempts: make([]Attempt, 0, len(chain))}
	for i, adapter := range chain {
		if err := ctx.Err(); err != nil {
			result.Attempts = append(result.Attempts, skipped(chain[i:], OutcomeSkipped)...)
			result.Err = err
			return result
		}
		series, attempt := r.try(ctx, class, adapter, req)
		result.Attempts = append(result.Attempts, attempt)
		if attempt.Outcome == OutcomeOK {
			result.Series = series
			result.Source = adapter.Name()
			return result
		}
	}
	if err := ctx.Err(); err != nil {
		result.Err = err
	}
	return result
}

type attemptResult struct {
	series  Series
	attempt Attempt
}

func (r *Resolver) resolveParallel(parent context.Context, class Class, chain []Adapter, req Request) Result {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	pending := make([]chan attemptResult, len(chain))
	for i, adapter := range chain {
		ch := make(chan attemptResult, 1)
		pending[i] = ch
		go func(adapter Adapter) {
			series, attempt := r.try(ctx, class, adapter, req)
			ch <- attemptResult{series: series, attempt: attempt}
		}(adapter)
	}

	result := Result{Series: Series{}, Attempts: make([]Attempt, 0, len(chain))}
	for i, ch := range pending {
		if err := parent.Err(); err != nil {
			result.Attempts = append(result.Attempts, skipped(chain[i:], OutcomeTimeout)...)
			result.Err = err
			return result
		}
		select {
		case res := <-ch:
			result.Attempts = append(result.Attempts, res.attempt)
			if res.attempt.Outcome == OutcomeOK {
				result.Series = res.series
				result.Source = chain[i].Name()
				result.Attempts = append(result.Attempts, skipped(chain[i+1:], OutcomeSuperseded)...)
				return result
			}
		case <-parent.Done():
			result.Attempts = append(result.Attempts, skipped(chain[i:], OutcomeTimeout)...)
			result.Err = parent.Err()
			return result
		}
	}
	if err := parent.Err(); err != nil {
		result.Err = err
	}
	return result
}

func (r *Resolver) try(ctx context.Context, class Class, adapter Adapter, req Request) (Series, Attempt) {
	attemptCtx, cancel := context.WithTimeout(ctx, r.attemptTimeout)
	defer cancel()

	start := time.Now()
	series, err := safeFetch(attemptCtx, adapter, req)
	attempt := Attempt{
		Provider:  adapter.Name(),
		Bars:      len(series),
		ElapsedMs: time.Since(start).Milliseconds(),
		Err:       err,
	}
	logger := logx.WithContext(ctx)

	switch {
	case err == nil && len(series) > 0:
		attempt.Outcome = OutcomeOK
		logger.Debugf("market: %s %s served %d bars for %s", class, adapter.Name(), len(series), req.Symbol)
		return series, attempt
	case err == nil:
		attempt.Outcome = OutcomeNoData
		logger.Infof("market: %s %s returned no bars for %s", class, adapter.Name(), req.Symbol)
	case errors.Is(err, context.DeadlineExceeded) || attemptCtx.Err() != nil:
		attempt.Outcome = OutcomeTimeout
		logger.Errorf("market: %s %s timed out for %s after %dms", class, adapter.Name(), req.Symbol, attempt.ElapsedMs)
	case errors.Is(Classify(err), ErrUnreachable):
		attempt.Outcome = OutcomeUnreachable
		logger.Errorf("market: %s %s unreachable for %s: %v", class, adapter.Name(), req.Symbol, err)
	default:
		attempt.Outcome = OutcomeNoData
		logger.Infof("market: %s %s no data for %s: %v", class, adapter.Name(), req.Symbol, err)
	}
	attempt.Bars = 0
	return nil, attempt
}

func safeFetch(ctx context.Context, adapter Adapter, req Request) (series Series, err error) {
	defer func() {
		if p := recover(); p != nil {
			series, err = nil, fmt.Errorf("%w: %s panicked: %v", ErrNoData, adapter.Name(), p)
		}
	}()
	return adapter.Fetch(ctx, req)
}

func skipped(chain []Adapter, outcome Outcome) []Attempt {
	out := make([]Attempt, len(chain))
	for i, a := range chain {
		out[i] = Attempt{Provider: a.Name(), Outcome: outcome}
	}
	return out
}
