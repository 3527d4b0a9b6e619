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
	"dailyproxy-api/pkg/macro/fred"
)

const (
	analyzeNewsDays  = 30
	analyzeNewsLimit = 10
	openOrdersLimit  = 50
)

type AnalyzeLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
	src    sources
}

func NewAnalyzeLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AnalyzeLogic {
	return &AnalyzeLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
		src:    newSources(svcCtx),
	}
}

// Analyze aggregates quote, profile, news, macro and optional holdings and
// account data for one ticker. Failed parts surface as <part>_error keys.
func (l *AnalyzeLogic) Analyze(req *types.AnalyzeReq) (types.Payload, error) {
	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	if ticker == "" {
		return nil, errSymbolRequired
	}
	etf := strings.ToUpper(strings.TrimSpace(req.ETF))
	if etf == "" {
		etf = "SPY"
	}
	includeHoldings := types.ParseBool(req.IncludeETFHoldings, false)
	includeAccount := types.ParseBool(req.IncludeAccount, false)

	out := &payload{data: types.Payload{"ticker": ticker}}

	parts := []func(){
		func() {
			q, err := l.src.quote(l.ctx, ticker)
			out.part("price", q, err)
		},
		func() {
			p, err := l.src.profile(l.ctx, ticker)
			out.part("company", p, err)
		},
		func() {
			n, err := l.src.news(l.ctx, ticker, analyzeNewsDays, analyzeNewsLimit)
			out.part("news", n, err)
		},
		func() {
			obs, err := l.src.latest(l.ctx, fred.SeriesCPI)
			if errors.Is(err, ErrNotConfigured) {
				return
			}
			out.part("macro", obs, err)
		},
		func() {
			out.set("treasury", l.src.treasury(l.ctx))
		},
	}
	if includeHoldings {
		parts = append(parts, func() {
			h, err := l.src.holdings(l.ctx, etf)
			out.part("etf", h, err)
		})
	}
	if includeAccount && l.svcCtx.Broker != nil {
		parts = append(parts, func() { l.account(out) })
	}
	mr.FinishVoid(parts...)

	out.set("server_time_utc", types.UTCStamp(l.svcCtx.Now()))
	return out.data, nil
}

func (l *AnalyzeLogic) account(out *payload) {
	broker := l.svcCtx.Broker
	account, err := broker.Account(l.ctx)
	if err != nil {
		out.fail("alpaca", err)
		return
	}
	positions, err := broker.Positions(l.ctx)
	if err != nil {
		out.fail("alpaca", err)
		return
	}
	orders, err := broker.OpenOrders(l.ctx, openOrdersLimit)
	if err != nil {
		out.fail("alpaca", err)
		return
	}
	out.set("account", account)
	out.set("positions", positions)
	out.set("orders", orders)
}

// payload is a Payload guarded for concurrent writers.
type payload struct {
	mu   sync.Mutex
	data types.Payload
}

func (p *payload) set(key string, v any) {
	p.mu.Lock()
	p.data[key] = v
	p.mu.Unlock()
}

func (p *payload) fail(part string, err error) {
	p.set(part+"_error", err.Error())
}

func (p *payload) part(key string, v any, err error) {
	if err != nil {
		p.fail(key, err)
		return
	}
	p.set(key, v)
}
