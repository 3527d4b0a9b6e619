package handler

import (
	"net/http"

	"dailyproxy-api/internal/svc"

	"github.com/zeromicro/go-zero/rest"
)

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.AddRoutes(Routes(serverCtx))
}

// Routes lists every endpoint served by the API.
func Routes(serverCtx *svc.ServiceContext) []rest.Route {
	return []rest.Route{
		{Method: http.MethodGet, Path: "/", Handler: RootHandler(serverCtx)},
		{Method: http.MethodGet, Path: "/healthcheck", Handler: HealthcheckHandler(serverCtx)},
		{Method: http.MethodGet, Path: "/price", Handler: PriceHandler(serverCtx)},
		{Method: http.MethodGet, Path: "/prices", Handler: PricesHandler(serverCtx)},
		{Method: http.MethodGet, Path: "/analyze", Handler: AnalyzeHandler(serverCtx)},
		{Method: http.MethodGet, Path: "/proxy", Handler: ProxyHandler(serverCtx)},
		{Method: http.MethodGet, Path: "/market", Handler: MarketHandler(serverCtx)},
		{Method: http.MethodGet, Path: "/candles", Handler: CandlesHandler(serverCtx)},
		{Method: http.MethodGet, Path: "/events", Handler: EventsHandler(serverCtx)},
	}
}
