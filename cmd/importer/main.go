package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"cartwidget/internal/cache"
	"cartwidget/internal/config"
	"cartwidget/internal/db"
	"cartwidget/internal/importer"
	productrepo "cartwidget/internal/repository/product"
	productsvc "cartwidget/internal/service/product"
)

func main() {
	var source string
	flag.StringVar(&source, "source", "", "Path or http(s) URL of a {\"products\":[...]} catalog payload")
	flag.Parse()

	if source == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger, err := cfg.NewLogger("importer")
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

	var catalogCache cache.CatalogCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		catalogCache = cache.NewRedis(rdb, cfg.CatalogCacheTTL)
	}
	svc := productsvc.New(productrepo.NewPostgres(pool, logger), catalogCache, logger)

	r, err := open(ctx, source)
	if err != nil {
		logger.Fatal("open source", zap.String("source", source), zap.Error(err))
	}
	defer r.Close()

	start := time.Now()
	count, err := importer.NewJSONImporter(r, svc, logger).Run(ctx)
	if err != nil {
		logger.Fatal("import failed", zap.Int("imported", count), zap.Error(err))
	}

	fmt.Printf("Imported %d products in %s\n", count, time.Since(start).Truncate(time.Millisecond))
}

func open(ctx context.Context, source string) (io.ReadCloser, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		return os.Open(source)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp.Body, nil
}
