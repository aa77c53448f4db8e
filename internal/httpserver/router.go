package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"cartwidget/internal/domain"
	"cartwidget/internal/sink"
	"cartwidget/internal/view"
)

// Widget is the orchestrator surface the handlers drive.
type Widget interface {
	Add(productID int)
	Remove(productID int)
	Increment(productID int)
	Decrement(productID int)
	Clear()
	Confirm() int64
	Reload(ctx context.Context) error
	Regions(ctx context.Context) (map[domain.Region]string, error)
}

// Events streams region replacements.
type Events interface {
	Subscribe() (uuid.UUID, <-chan sink.Update, func())
}

// CatalogService reads the catalog mirror.
type CatalogService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id int) (*domain.Product, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps carries everything the router wires. Catalog and DB are optional.
type Deps struct {
	Widget         Widget
	Events         Events
	Renderer       *view.Renderer
	Catalog        CatalogService
	DB             Pinger
	AllowedOrigins []string
	Title          string
}

// buildRouter wires routes for the widget.
func buildRouter(logger *zap.Logger, deps Deps) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery(), cors.New(corsConfig(deps.AllowedOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.DB))

	h := &handlers{deps: deps, logger: logger}
	router.GET("/", h.page)
	router.GET("/regions", h.regions)
	router.GET("/regions/:region", h.region)
	router.GET("/events", h.events)

	items := router.Group("/cart/items/:id")
	items.POST("/add", h.itemAction(deps.Widget.Add))
	items.POST("/increment", h.itemAction(deps.Widget.Increment))
	items.POST("/decrement", h.itemAction(deps.Widget.Decrement))
	items.POST("/remove", h.itemAction(deps.Widget.Remove))
	router.POST("/cart/clear", h.clear)
	router.POST("/cart/confirm", h.confirm)
	router.POST("/catalog/reload", h.reload)

	if deps.Catalog != nil {
		router.GET("/catalog/products", h.catalogProducts)
		router.GET("/catalog/products/:id", h.catalogProduct)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	cfg.AddAllowHeaders("HX-Request", "HX-Trigger", "HX-Target", "HX-Current-URL")
	return cfg
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		logger.Debug("http request", fields...)
	}
}
