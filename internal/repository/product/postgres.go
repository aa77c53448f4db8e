package product

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"cartwidget/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `
SELECT id, title, description, price_cents, stock, thumbnail
FROM products
ORDER BY id
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Error("product repo: list", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.PriceCents, &p.Stock, &p.Thumbnail); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("product repo: list rows", zap.Error(err))
		return nil, err
	}
	r.logger.Debug("product repo: list", zap.Int("count", len(result)))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int) (*domain.Product, error) {
	const q = `
SELECT id, title, description, price_cents, stock, thumbnail
FROM products
WHERE id = $1
`
	var p domain.Product
	err := r.pool.QueryRow(ctx, q, id).Scan(&p.ID, &p.Title, &p.Description, &p.PriceCents, &p.Stock, &p.Thumbnail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("product repo: get not found", zap.Int("id", id))
			return nil, domain.ErrNotFound
		}
		r.logger.Error("product repo: get", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (id, title, description, price_cents, stock, thumbnail)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
    title = EXCLUDED.title,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    stock = EXCLUDED.stock,
    thumbnail = EXCLUDED.thumbnail,
    updated_at = now()
RETURNING id
`
	res := product
	err := r.pool.QueryRow(ctx, q,
		product.ID,
		product.Title,
		product.Description,
		product.PriceCents,
		product.Stock,
		product.Thumbnail,
	).Scan(&res.ID)
	if err != nil {
		r.logger.Error("product repo: upsert", zap.Int("id", product.ID), zap.Error(err))
		return nil, err
	}
	r.logger.Debug("product repo: upserted", zap.Int("id", res.ID), zap.String("title", res.Title))
	return &res, nil
}
