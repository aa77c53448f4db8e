package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"cartwidget/internal/domain"
)

// Products is the demo catalog. Stock levels cover the low-stock and
// out-of-stock paths of the widget.
var Products = []domain.Product{
	{ID: 1, Title: "Demo T-Shirt", Description: "Soft cotton tee for demo purposes", PriceCents: 1999, Stock: 25, Thumbnail: "https://cdn.dummyjson.com/products/images/mens-shirts/Blue%20&%20Black%20Check%20Shirt/thumbnail.png"},
	{ID: 2, Title: "Demo Mug", Description: "Ceramic mug with demo logo", PriceCents: 1299, Stock: 4, Thumbnail: "https://cdn.dummyjson.com/products/images/kitchen-accessories/Boxed%20Blender/thumbnail.png"},
	{ID: 3, Title: "Demo Sticker Pack", Description: "Ten vinyl stickers", PriceCents: 499, Stock: 0, Thumbnail: ""},
	{ID: 4, Title: "Demo Notebook", Description: "A5 dotted notebook", PriceCents: 850, Stock: 2, Thumbnail: ""},
}

// BatchSender is satisfied by *pgxpool.Pool.
type BatchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Invalidator drops a cached catalog listing.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Apply upserts the demo catalog in one batch. It is idempotent via ON CONFLICT.
// When cache is non-nil the cached listing is dropped once the rows are written.
func Apply(ctx context.Context, pool BatchSender, cache Invalidator) (int, error) {
	const q = `
INSERT INTO products (id, title, description, price_cents, stock, thumbnail)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE
SET title = EXCLUDED.title,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    stock = EXCLUDED.stock,
    thumbnail = EXCLUDED.thumbnail,
    updated_at = now()
`
	batch := &pgx.Batch{}
	for _, p := range Products {
		batch.Queue(q, p.ID, p.Title, p.Description, p.PriceCents, p.Stock, p.Thumbnail)
	}

	if err := send(ctx, pool, batch); err != nil {
		return 0, err
	}
	if cache != nil {
		if err := cache.Invalidate(ctx); err != nil {
			return len(Products), fmt.Errorf("invalidate catalog cache: %w", err)
		}
	}
	return len(Products), nil
}

func send(ctx context.Context, pool BatchSender, batch *pgx.Batch) error {
	results := pool.SendBatch(ctx, batch)
	defer results.Close()

	for _, p := range Products {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert product %d: %w", p.ID, err)
		}
	}
	return nil
}
