package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"cartwidget/internal/cache"
	"cartwidget/internal/catalog"
	"cartwidget/internal/config"
	"cartwidget/internal/db"
	"cartwidget/internal/domain"
	"cartwidget/internal/httpserver"
	productrepo "cartwidget/internal/repository/product"
	productsvc "cartwidget/internal/service/product"
	"cartwidget/internal/sink"
	"cartwidget/internal/view"
	"cartwidget/internal/widget"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := cfg.NewLogger("api")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps := httpserver.Deps{AllowedOrigins: cfg.AllowedOrigins}

	// The catalog mirror is optional: without DB_DSN the widget only talks to
	// CATALOG_URL.
	if cfg.DBConnString != "" {
		pool, err := db.Connect(ctx, cfg.DBConnString, logger.Named("db"))
		if err != nil {
			logger.Fatal("connect to db", zap.Error(err))
		}
		defer pool.Close()
		deps.DB = pool
		deps.Catalog = mirrorService(ctx, cfg, pool, logger)
	}

	broadcaster := sink.NewBroadcaster(logger.Named("sink"))
	renderer := view.NewRenderer("")
	w := widget.New(widget.Options{
		Source:   catalog.NewHTTPSource(cfg.CatalogURL, cfg.CatalogTimeout, logger.Named("source")),
		Sink:     broadcaster,
		Renderer: renderer,
		Logger:   logger.Named("widget"),
		OnConfirm: func(total int64) {
			logger.Info("order confirmed", zap.String("total", domain.FormatCents(total)))
		},
	})
	deps.Widget = w
	deps.Events = broadcaster
	deps.Renderer = renderer

	srv := httpserver.New(cfg.HTTPAddr, logger.Named("http"), deps, broadcaster.MarkReady)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()
	go func() {
		if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("widget start", zap.Error(err))
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}

func mirrorService(ctx context.Context, cfg config.Config, pool *pgxpool.Pool, logger *zap.Logger) *productsvc.Service {
	var catalogCache cache.CatalogCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, serving catalog mirror uncached", zap.Error(err))
		} else {
			catalogCache = cache.NewRedis(rdb, cfg.CatalogCacheTTL)
		}
	}
	return productsvc.New(productrepo.NewPostgres(pool, logger.Named("products")), catalogCache, logger.Named("catalog-mirror"))
}
