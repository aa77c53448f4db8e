package importer

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"cartwidget/internal/catalog"
	"cartwidget/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// JSONImporter loads a catalog payload ({"products":[...]}) into the mirror.
type JSONImporter struct {
	reader io.Reader
	writer ProductWriter
	logger *zap.Logger
}

func NewJSONImporter(r io.Reader, w ProductWriter, logger *zap.Logger) *JSONImporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JSONImporter{reader: r, writer: w, logger: logger}
}

// Run decodes the payload and upserts every product in order. It stops at the
// first failed write and reports how many products were stored before it.
func (i *JSONImporter) Run(ctx context.Context) (int, error) {
	products, err := catalog.Decode(i.reader)
	if err != nil {
		return 0, err
	}
	return Store(ctx, i.writer, products, i.logger)
}

// Store upserts products through w.
func Store(ctx context.Context, w ProductWriter, products []domain.Product, logger *zap.Logger) (int, error) {
	imported := 0
	for _, p := range products {
		if p.Title == "" {
			return imported, fmt.Errorf("invalid product %d: missing title", p.ID)
		}
		if _, err := w.Upsert(ctx, p); err != nil {
			return imported, fmt.Errorf("upsert product %d: %w", p.ID, err)
		}
		imported++
	}
	if logger != nil {
		logger.Info("products imported", zap.Int("count", imported))
	}
	return imported, nil
}
