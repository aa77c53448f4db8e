package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"cartwidget/internal/domain"
)

// Source fetches the full product catalog.
type Source interface {
	Fetch(ctx context.Context) ([]domain.Product, error)
}

// StatusError reports a non-success HTTP status from the catalog endpoint.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error: %d", e.Code)
}

// HTTPSource issues a GET to a fixed catalog URL.
type HTTPSource struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// NewHTTPSource builds a source for url. A zero timeout leaves the transport
// defaults in charge.
func NewHTTPSource(url string, timeout time.Duration, logger *zap.Logger) *HTTPSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]domain.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("catalog fetch failed", zap.String("url", s.url), zap.Error(err))
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		s.logger.Warn("catalog fetch rejected", zap.String("url", s.url), zap.Int("status", resp.StatusCode))
		return nil, &StatusError{Code: resp.StatusCode}
	}

	products, err := Decode(resp.Body)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("catalog fetched",
		zap.String("url", s.url),
		zap.Int("count", len(products)),
		zap.Duration("elapsed", time.Since(start)))
	return products, nil
}

// Payload is the wire shape of the catalog endpoint.
type Payload struct {
	Products []ProductPayload `json:"products"`
}

// ProductPayload is one product on the wire; price is a decimal amount.
type ProductPayload struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Thumbnail   string  `json:"thumbnail"`
}

// ErrInvalidPayload marks a catalog body that decoded but broke the product
// constraints.
var ErrInvalidPayload = errors.New("invalid catalog payload")

// Decode reads a catalog payload and converts it to domain products,
// preserving order.
func Decode(r io.Reader) ([]domain.Product, error) {
	var payload struct {
		Products *[]ProductPayload `json:"products"`
	}
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if payload.Products == nil {
		return nil, fmt.Errorf("%w: missing products field", ErrInvalidPayload)
	}

	items := *payload.Products
	products := make([]domain.Product, 0, len(items))
	seen := make(map[int]struct{}, len(items))
	for _, p := range items {
		if p.ID <= 0 {
			return nil, fmt.Errorf("%w: product id %d is not positive", ErrInvalidPayload, p.ID)
		}
		if p.Price < 0 || p.Stock < 0 {
			return nil, fmt.Errorf("%w: product %d has negative price or stock", ErrInvalidPayload, p.ID)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate product id %d", ErrInvalidPayload, p.ID)
		}
		seen[p.ID] = struct{}{}
		products = append(products, domain.Product{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			PriceCents:  domain.CentsFromDecimal(p.Price),
			Stock:       p.Stock,
			Thumbnail:   p.Thumbnail,
		})
	}
	return products, nil
}

// Encode builds the wire payload for products.
func Encode(products []domain.Product) Payload {
	out := Payload{Products: make([]ProductPayload, 0, len(products))}
	for _, p := range products {
		out.Products = append(out.Products, EncodeProduct(p))
	}
	return out
}

func EncodeProduct(p domain.Product) ProductPayload {
	return ProductPayload{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       domain.DecimalFromCents(p.PriceCents),
		Stock:       p.Stock,
		Thumbnail:   p.Thumbnail,
	}
}
