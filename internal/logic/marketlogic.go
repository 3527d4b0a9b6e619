package logic

import (
	"context"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/mr"

	"dailyproxy-api/internal/svc"
	"dailyproxy-api/internal/types"
)

var (
	indexProxies = []struct{ Label, Symbol string }{
		{"SPX_proxy_SPY", "SPY"},
		{"NDX_proxy_QQQ", "QQQ"},
		{"DJI_proxy_DIA", "DIA"},
	}
	coreETFs      = []string{"SPY", "QQQ", "VTI", "IWM", "DIA", "TLT", "IEF", "HYG", "LQD"}
	headlineFeeds = []string{"SPY", "QQQ"}
)

const (
	marketNewsDays     = 7
	headlinesPerSymbol = 2
)

type MarketLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
	src    sources
}

func NewMarketLogic(ctx context.Context, svcCtx *svc.ServiceContext) *MarketLogic {
	return &MarketLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
		src:    newSources(svcCtx),
	}
}

// Market returns the index proxies, treasury yields, core ETF quotes and top
// headlines.
func (l *MarketLogic) Market() (types.Payload, error) {
	var (
		quotes    map[string]any
		yields    map[string]any
		headlines []types.Headline
		newsErr   error
	)
	mr.FinishVoid(
		func() {
			symbols := append([]string{}, coreETFs...)
			for _, p := range indexProxies {
				symbols = append(symbols, p.Symbol)
			}
			quotes = NewPriceLogic(l.ctx, l.svcCtx).quotes(types.SplitSymbols(strings.Join(symbols, ",")))
		},
		func() {
			yields = make(map[string]any)
			for label, obs := range l.src.treasury(l.ctx) {
				yields[label] = obs
			}
		},
		func() {
			headlines, newsErr = l.headlines()
		},
	)

	indices := make(map[string]any, len(indexProxies))
	for _, p := range indexProxies {
		indices[p.Label] = quotes[p.Symbol]
	}
	snapshot := make(map[string]any, len(coreETFs))
	for _, sym := range coreETFs {
		if q, ok := quotes[sym]; ok {
			snapshot[sym] = map[string]any{"price": q}
		}
	}

	out := types.Payload{
		"indices":  indices,
		"yields":   yields,
		"etfs":     map[string]any{"snapshot": snapshot},
		"news_top": headlines,
		"extras":   map[string]any{"server_time_utc": types.UTCStamp(l.svcCtx.Now())},
	}
	if newsErr != nil {
		out["news_error"] = newsErr.Error()
	}
	return out, nil
}

func (l *MarketLogic) headlines() ([]types.Headline, error) {
	out := make([]types.Headline, 0, len(headlineFeeds)*headlinesPerSymbol)
	for _, sym := range headlineFeeds {
		items, err := l.src.news(l.ctx, sym, marketNewsDays, 0)
		if err != nil {
			return out, err
		}
		if len(items) > headlinesPerSymbol {
			items = items[:headlinesPerSymbol]
		}
		for _, n := range items {
			out = append(out, types.Headline{
				Headline:     n.Headline,
				URL:          n.URL,
				SourceSymbol: sym,
				Datetime:     n.Datetime,
			})
		}
	}
	return out, nil
}
