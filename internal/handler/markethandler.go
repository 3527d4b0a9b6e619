package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"dailyproxy-api/internal/logic"
	"dailyproxy-api/internal/svc"
)

func MarketHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := logic.NewMarketLogic(r.Context(), svcCtx)
		resp, err := l.Market()
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
