package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"dailyproxy-api/internal/cli"
	"dailyproxy-api/internal/config"
	"dailyproxy-api/internal/svc"
)

const shutdownTimeout = 10 * time.Second

var (
	configFile = flag.String("f", "etc/dailyproxy.yaml", "the config file")
	runOnStart = flag.Bool("now", true, "warm once before the first scheduled run")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Println("[main] Starting cache warmer...")

	appCfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("[main] Failed to load config %s: %v", *configFile, err)
	}
	log.Printf("[main] Configuration loaded:")
	for _, line := range cli.ConfigSummaryLines(appCfg) {
		log.Printf("  - %s", line)
	}

	svcCtx, err := svc.Build(*appCfg)
	if err != nil {
		log.Fatalf("[main] Failed to build service context: %v", err)
	}
	if !appCfg.RedisEnabled() {
		log.Printf("[main] Warning: no Redis configured, warmed entries stay in this process")
	}

	warmer := NewWarmer(svcCtx.Technical, appCfg.Warmer, appCfg.RequestDeadline())
	if len(warmer.symbols) == 0 {
		log.Fatalf("[main] Warmer.Watchlist is empty, nothing to warm")
	}
	spec := appCfg.Warmer.CronSpec()
	log.Printf("  - Watchlist: %v", warmer.symbols)
	log.Printf("  - Schedule: %s", spec)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := scheduler.AddFunc(spec, func() { warmer.Run(ctx) }); err != nil {
		log.Fatalf("[main] Invalid schedule %q: %v", spec, err)
	}
	if *runOnStart {
		warmer.Run(ctx)
	}
	scheduler.Start()
	log.Println("[main] Cache warmer started. Press Ctrl+C to stop.")

	<-ctx.Done()
	log.Println("[main] Shutdown signal received, waiting for running jobs...")

	select {
	case <-scheduler.Stop().Done():
		log.Println("[main] All jobs stopped cleanly")
	case <-time.After(shutdownTimeout):
		log.Println("[main] Shutdown timeout exceeded, forcing exit")
	}
	log.Println("[main] Cache warmer stopped")
}
