package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"dailyproxy-api/internal/svc"
	"dailyproxy-api/internal/types"
)

type ProxyLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewProxyLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ProxyLogic {
	return &ProxyLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Proxy serves the /analyze payload keyed by symbol.
func (l *ProxyLogic) Proxy(req *types.ProxyReq) (types.Payload, error) {
	return NewAnalyzeLogic(l.ctx, l.svcCtx).Analyze(&types.AnalyzeReq{
		Ticker:             req.Symbol,
		ETF:                req.ETF,
		IncludeAccount:     req.IncludeAccount,
		IncludeETFHoldings: req.IncludeETFHoldings,
	})
}
