package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailyproxy-api/internal/config"
	"dailyproxy-api/pkg/technical"
)

type fakeAssembler struct {
	queries []technical.Query
	results map[string]*technical.Snapshot
}

func (f *fakeAssembler) Snapshot(_ context.Context, q technical.Query) (*technical.Snapshot, error) {
	f.queries = append(f.queries, q)
	snap, ok := f.results[q.Symbol]
	if !ok {
		return nil, errors.New("boom")
	}
	return snap, nil
}

func TestWarmerRun(t *testing.T) {
	daily := "finnhub"
	fake := &fakeAssembler{results: map[string]*technical.Snapshot{
		"AAPL": {Symbol: "AAPL", Sources: technical.Sources{Daily: &daily, Intraday: &daily}, Errors: []string{}},
		"MSFT": {Symbol: "MSFT", Sources: technical.Sources{Daily: &daily}, Errors: []string{technical.TagIntradayNoData}},
	}}
	w := NewWarmer(fake, config.WarmerConf{
		Watchlist:   []string{"aapl", "MSFT", "bad", "AAPL"},
		IntradayRes: "15",
		Days:        60,
	}, time.Second)

	stats := w.Run(context.Background())
	assert.Equal(t, WarmStats{Symbols: 3, Complete: 1, Partial: 1, Failed: 1}, stats)
	require.Len(t, fake.queries, 3)
	assert.Equal(t, technical.Query{Symbol: "AAPL", IntradayRes: "15", Days: 60}, fake.queries[0])
}

func TestWarmerStopsOnCancel(t *testing.T) {
	fake := &fakeAssembler{}
	w := NewWarmer(fake, config.WarmerConf{Watchlist: []string{"AAPL"}}, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stats := w.Run(ctx)
	assert.Empty(t, fake.queries)
	assert.Equal(t, 0, stats.Complete+stats.Partial+stats.Failed)
}
