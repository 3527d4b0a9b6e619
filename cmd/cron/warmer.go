package main

import (
	"context"
	"log"
	"strings"
	"time"

	"dailyproxy-api/internal/config"
	"dailyproxy-api/internal/types"
	"dailyproxy-api/pkg/technical"
)

type snapshotter interface {
	Snapshot(ctx context.Context, q technical.Query) (*technical.Snapshot, error)
}

// Warmer builds snapshots for a watchlist so later requests hit a warm cache.
type Warmer struct {
	assembler   snapshotter
	symbols     []string
	intradayRes string
	days        int
	timeout     time.Duration
}

// WarmStats summarises one warming pass.
type WarmStats struct {
	Symbols  int
	Complete int
	Partial  int
	Failed   int
}

func NewWarmer(assembler snapshotter, cfg config.WarmerConf, timeout time.Duration) *Warmer {
	return &Warmer{
		assembler:   assembler,
		symbols:     types.SplitSymbols(strings.Join(cfg.Watchlist, ",")),
		intradayRes: cfg.IntradayRes,
		days:        cfg.Days,
		timeout:     timeout,
	}
}

// Run warms every symbol once, sequentially, and logs provenance.
func (w *Warmer) Run(ctx context.Context) WarmStats {
	stats := WarmStats{Symbols: len(w.symbols)}
	started := time.Now()
	for _, symbol := range w.symbols {
		if ctx.Err() != nil {
			log.Printf("[warm] Stopping early: %v", ctx.Err())
			break
		}
		snap, err := w.warm(ctx, symbol)
		switch {
		case err != nil:
			stats.Failed++
			log.Printf("[warm] %s failed: %v", symbol, err)
		case len(snap.Errors) > 0:
			stats.Partial++
			log.Printf("[warm] %s partial: daily=%s intraday=%s errors=%v",
				symbol, source(snap.Sources.Daily), source(snap.Sources.Intraday), snap.Errors)
		default:
			stats.Complete++
			log.Printf("[warm] %s ok: daily=%s intraday=%s", symbol, source(snap.Sources.Daily), source(snap.Sources.Intraday))
		}
	}
	log.Printf("[warm] Pass finished in %s: %d complete, %d partial, %d failed",
		time.Since(started).Round(time.Millisecond), stats.Complete, stats.Partial, stats.Failed)
	return stats
}

func (w *Warmer) warm(ctx context.Context, symbol string) (*technical.Snapshot, error) {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	return w.assembler.Snapshot(ctx, technical.Query{
		Symbol:      symbol,
		IntradayRes: w.intradayRes,
		Days:        w.days,
	})
}

func source(name *string) string {
	if name == nil {
		return "-"
	}
	return *name
}
