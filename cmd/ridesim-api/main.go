// README: Entry point; loads config, wires the run service and serves the simulation API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"ridesim/internal/config"
	httptransport "ridesim/internal/http"
	"ridesim/internal/infra"
	"ridesim/internal/modules/pricing"
	"ridesim/internal/modules/run"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config", "err", err)
	}
	logger, err := infra.NewLogger(os.Stderr, cfg.Log.Level)
	if err != nil {
		log.Fatal("init logger", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, logger, cfg); err != nil {
		logger.Fatal(err)
	}
}

func serve(ctx context.Context, logger *log.Logger, cfg config.Config) error {
	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		return fmt.Errorf("init db: %w", err)
	}
	defer dbPool.Close()

	redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr)
	if err != nil {
		return fmt.Errorf("init redis: %w", err)
	}
	defer redisClient.Close()

	rate := pricing.Rate{
		BaseFare: cfg.Fare.Base,
		PerUnit:  cfg.Fare.PerUnit,
		Currency: cfg.Fare.Currency,
	}

	runStore := run.NewStore(dbPool)
	runCache := run.NewCache(redisClient, cfg.Redis.TTL)
	runSvc := run.NewService(logger.WithPrefix("run"), runStore, runCache, rate)

	if logger.GetLevel() > log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httptransport.NewRouter(logger.WithPrefix("http"), runSvc)

	return httptransport.NewServer(logger, cfg.HTTP.Addr, router).Run(ctx)
}
