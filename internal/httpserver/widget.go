package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cartwidget/internal/catalog"
	"cartwidget/internal/domain"
)

const defaultTitle = "Shop"

type handlers struct {
	deps   Deps
	logger *zap.Logger
}

type itemURI struct {
	ID int `uri:"id" binding:"required,min=1"`
}

func (h *handlers) page(c *gin.Context) {
	regions, err := h.deps.Widget.Regions(c.Request.Context())
	if err != nil {
		h.logger.Error("render regions", zap.Error(err))
		c.String(http.StatusInternalServerError, "render failed")
		return
	}
	title := h.deps.Title
	if title == "" {
		title = defaultTitle
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := h.deps.Renderer.Page(title, "/events", regions).Render(c.Request.Context(), c.Writer); err != nil {
		h.logger.Error("render page", zap.Error(err))
	}
}

func (h *handlers) regions(c *gin.Context) {
	regions, err := h.deps.Widget.Regions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
		return
	}
	out := make(map[string]string, len(regions))
	for region, html := range regions {
		out[string(region)] = html
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) region(c *gin.Context) {
	region, ok := domain.ParseRegion(c.Param("region"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown region"})
		return
	}
	regions, err := h.deps.Widget.Regions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(regions[region]))
}

// events streams region replacements as server-sent events named after the
// region. The current content of every region is sent first.
func (h *handlers) events(c *gin.Context) {
	id, updates, cancel := h.deps.Events.Subscribe()
	defer cancel()

	ctx := c.Request.Context()
	regions, err := h.deps.Widget.Regions(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "render failed"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	for _, region := range domain.Regions {
		c.SSEvent(string(region), regions[region])
	}
	c.Writer.Flush()

	for {
		select {
		case <-ctx.Done():
			h.logger.Debug("event stream closed", zap.String("subscriber", id.String()))
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			c.SSEvent(string(u.Region), u.Content)
			c.Writer.Flush()
		}
	}
}

func (h *handlers) itemAction(action func(productID int)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var uri itemURI
		if err := c.ShouldBindUri(&uri); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
			return
		}
		action(uri.ID)
		c.Status(http.StatusNoContent)
	}
}

func (h *handlers) clear(c *gin.Context) {
	h.deps.Widget.Clear()
	c.Status(http.StatusNoContent)
}

func (h *handlers) confirm(c *gin.Context) {
	total := h.deps.Widget.Confirm()
	c.JSON(http.StatusOK, gin.H{
		"total":      domain.FormatCents(total),
		"totalCents": total,
	})
}

func (h *handlers) reload(c *gin.Context) {
	// The load outlives a client that hangs up; its outcome lands in the
	// error region either way.
	ctx := context.WithoutCancel(c.Request.Context())
	if err := h.deps.Widget.Reload(ctx); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) catalogProducts(c *gin.Context) {
	products, err := h.deps.Catalog.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list catalog", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog unavailable"})
		return
	}
	c.JSON(http.StatusOK, catalog.Encode(products))
}

func (h *handlers) catalogProduct(c *gin.Context) {
	var uri itemURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	product, err := h.deps.Catalog.Get(c.Request.Context(), uri.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		h.logger.Error("get catalog product", zap.Int("id", uri.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog unavailable"})
		return
	}
	c.JSON(http.StatusOK, catalog.EncodeProduct(*product))
}
