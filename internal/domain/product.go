package domain

import "errors"

// ErrNotFound indicates the requested product is not in the catalog mirror.
var ErrNotFound = errors.New("not found")

// Product is a catalog entry as last fetched from the catalog endpoint.
type Product struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PriceCents  int64  `json:"priceCents"`
	Stock       int    `json:"stock"`
	Thumbnail   string `json:"thumbnail"`
}
