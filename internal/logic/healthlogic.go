package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"dailyproxy-api/internal/svc"
	"dailyproxy-api/internal/types"
)

type HealthLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewHealthLogic(ctx context.Context, svcCtx *svc.ServiceContext) *HealthLogic {
	return &HealthLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *HealthLogic) Root() (*types.StatusResp, error) {
	return &types.StatusResp{
		Status:  "ok",
		Message: "Daily Proxy API is running!",
		TimeUTC: types.UTCStamp(l.svcCtx.Now()),
	}, nil
}

func (l *HealthLogic) Healthcheck() (*types.StatusResp, error) {
	return &types.StatusResp{
		Status:  "running",
		TimeUTC: types.UTCStamp(l.svcCtx.Now()),
	}, nil
}
