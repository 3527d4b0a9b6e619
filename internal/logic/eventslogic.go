package logic

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/mr"

	"dailyproxy-api/internal/svc"
	"dailyproxy-api/internal/types"
)

const (
	defaultEventDays = 14
	maxEventDays     = 90
)

type EventsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
	src    sources
}

func NewEventsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *EventsLogic {
	return &EventsLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
		src:    newSources(svcCtx),
	}
}

// Events returns upcoming earnings grouped by symbol and the filtered macro
// calendar. Upstream failures degrade to empty sections.
func (l *EventsLogic) Events(req *types.EventsReq) (types.Payload, error) {
	days := req.Days
	if days <= 0 {
		days = defaultEventDays
	}
	if days > maxEventDays {
		days = maxEventDays
	}
	wanted := make(map[string]bool)
	for _, s := range types.SplitSymbols(req.Symbols) {
		wanted[s] = true
	}

	now := l.svcCtx.Now().UTC()
	from := now
	to := now.AddDate(0, 0, days)

	earnings := make(map[string][]types.EarningEvent)
	macro := []json.RawMessage{}
	mr.FinishVoid(
		func() {
			items, err := l.src.earnings(l.ctx, from, to)
			if err != nil {
				l.Infof("events: earnings unavailable: %v", err)
				return
			}
			for _, it := range items {
				sym := strings.ToUpper(it.Symbol)
				if len(wanted) > 0 && !wanted[sym] {
					continue
				}
				earnings[sym] = append(earnings[sym], types.EarningEvent{
					Date:            it.Date,
					Hour:            it.Hour,
					EPSEstimate:     it.EPSEstimate,
					RevenueEstimate: it.RevenueEstimate,
				})
			}
		},
		func() {
			events, err := l.src.economicCalendar(l.ctx, from, to)
			if err != nil {
				l.Infof("events: macro calendar unavailable: %v", err)
				return
			}
			macro = events
		},
	)

	return types.Payload{
		"earnings":        earnings,
		"macro":           macro,
		"server_time_utc": types.UTCStamp(now),
	}, nil
}
