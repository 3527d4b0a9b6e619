package logic

import (
	"context"
	"fmt"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"dailyproxy-api/internal/svc"
	"dailyproxy-api/internal/types"
	"dailyproxy-api/pkg/technical"
)

var intradayResolutions = map[string]bool{"1": true, "5": true, "15": true, "30": true, "60": true}

const maxCandleDays = 365

type CandlesLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewCandlesLogic(ctx context.Context, svcCtx *svc.ServiceContext) *CandlesLogic {
	return &CandlesLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Candles builds the technical snapshot under the configured request deadline.
func (l *CandlesLogic) Candles(req *types.CandlesReq) (*types.CandlesResp, error) {
	symbol := strings.TrimSpace(req.Symbol)
	if symbol == "" {
		return nil, technical.ErrEmptySymbol
	}
	res := strings.TrimSpace(req.IntradayRes)
	if res == "" {
		res = technical.DefaultIntradayRes
	}
	if !intradayResolutions[res] {
		return nil, fmt.Errorf("intraday_res must be one of 1, 5, 15, 30, 60")
	}
	if req.Days <= 0 || req.Days > maxCandleDays {
		return nil, fmt.Errorf("days must be between 1 and %d", maxCandleDays)
	}

	ctx := l.ctx
	if d := l.svcCtx.Config.RequestDeadline(); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	snap, err := l.svcCtx.Technical.Snapshot(ctx, technical.Query{
		Symbol:      symbol,
		IntradayRes: res,
		Days:        req.Days,
		Debug:       types.ParseBool(req.Debug, false),
	})
	if err != nil {
		return nil, err
	}
	return &types.CandlesResp{Snapshot: snap, ServerTimeUTC: types.UTCStamp(l.svcCtx.Now())}, nil
}
