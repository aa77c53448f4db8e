package main

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"cartwidget/internal/cache"
	"cartwidget/internal/config"
	"cartwidget/internal/db"
	"cartwidget/internal/seed"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := cfg.NewLogger("seed")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.DBConnString == "" {
		logger.Fatal("DB_DSN is required")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, logger)
	if err != nil {
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	var listing seed.Invalidator
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer func() { _ = rdb.Close() }()
		listing = cache.NewRedis(rdb, cfg.CatalogCacheTTL)
	}

	n, err := seed.Apply(ctx, pool, listing)
	if err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}

	logger.Info("seed applied", zap.Int("products", n))
}
