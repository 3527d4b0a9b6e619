package main

import (
	"flag"
	"fmt"

	"dailyproxy-api/internal/cli"
	"dailyproxy-api/internal/config"
	"dailyproxy-api/internal/handler"
	"dailyproxy-api/internal/svc"

	"github.com/zeromicro/go-zero/rest"
)

var configFile = flag.String("f", "etc/dailyproxy.yaml", "the config file")

func main() {
	flag.Parse()

	cfg := config.MustLoad(*configFile)
	cli.LogConfigSummary(cfg)

	server := rest.MustNewServer(cfg.RestConf, rest.WithCors("*"))
	defer server.Stop()

	ctx := svc.NewServiceContext(*cfg)
	cli.LogDisabledAdapters(ctx.DisabledAdapters)
	handler.RegisterHandlers(server, ctx)

	fmt.Printf("Starting server at %s:%d...\n", cfg.Host, cfg.Port)
	server.Start()
}
