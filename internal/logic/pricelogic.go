package logic

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/mr"

	"dailyproxy-api/internal/svc"
	"dailyproxy-api/internal/types"
)

const quoteUnavailable = "quote_unavailable"

var errSymbolRequired = errors.New("symbol is required")

type PriceLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
	src    sources
}

func NewPriceLogic(ctx context.Context, svcCtx *svc.ServiceContext) *PriceLogic {
	return &PriceLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
		src:    newSources(svcCtx),
	}
}

// Price returns the quote for one symbol, or a quote_unavailable marker.
func (l *PriceLogic) Price(req *types.PriceReq) (any, error) {
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		return nil, errSymbolRequired
	}
	return l.quoteOrUnavailable(symbol), nil
}

// Prices fetches quotes concurrently and keys them by upper-case symbol.
func (l *PriceLogic) Prices(req *types.PricesReq) (map[string]any, error) {
	return l.quotes(types.SplitSymbols(req.Symbols)), nil
}

func (l *PriceLogic) quotes(symbols []string) map[string]any {
	out := make(map[string]any, len(symbols))
	if len(symbols) == 0 {
		return out
	}
	workers := l.svcCtx.Config.MaxWorkers
	if workers <= 0 || workers > len(symbols) {
		workers = len(symbols)
	}

	var mu sync.Mutex
	mr.ForEach(func(source chan<- string) {
		for _, s := range symbols {
			source <- s
		}
	}, func(symbol string) {
		q := l.quoteOrUnavailable(symbol)
		mu.Lock()
		out[symbol] = q
		mu.Unlock()
	}, mr.WithWorkers(workers), mr.WithContext(l.ctx))
	return out
}

func (l *PriceLogic) quoteOrUnavailable(symbol string) any {
	q, err := l.src.quote(l.ctx, symbol)
	if err != nil {
		l.Infof("quote %s unavailable: %v", symbol, err)
		return &types.QuoteUnavailable{Symbol: symbol, Error: quoteUnavailable}
	}
	return q
}
