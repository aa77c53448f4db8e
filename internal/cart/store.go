// Package cart holds the cart line items and the user-facing cart mutations.
package cart

import (
	"go.uber.org/zap"

	"cartwidget/internal/derive"
	"cartwidget/internal/domain"
)

// ProductLookup resolves a product in the current catalog.
type ProductLookup interface {
	FindProduct(id int) (domain.Product, bool)
}

// Store owns the cart lines. Every method assumes the caller holds the run
// loop and notifies the cart-dependent regions when it returns.
type Store struct {
	catalog ProductLookup
	notify  domain.Notifier
	logger  *zap.Logger
	lines   []domain.CartLine
}

func NewStore(catalog ProductLookup, notify domain.Notifier, logger *zap.Logger) *Store {
	if notify == nil {
		notify = func(...domain.Region) {}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{catalog: catalog, notify: notify, logger: logger}
}

// Lines returns a copy of the cart lines in add order.
func (s *Store) Lines() []domain.CartLine {
	return append([]domain.CartLine(nil), s.lines...)
}

// FindLine returns the line for id, if any.
func (s *Store) FindLine(id int) (domain.CartLine, bool) {
	return derive.FindCartLine(s.lines, id)
}

// Total is the sum of price snapshot * quantity over all lines.
func (s *Store) Total() int64 {
	return derive.Total(s.lines)
}

// Add puts one unit of productID in the cart, creating a line when needed.
// Unknown products, out-of-stock products and lines already at stock are
// left untouched.
func (s *Store) Add(productID int) {
	defer s.changed()

	product, ok := s.catalog.FindProduct(productID)
	if !ok {
		s.refuse("add", productID, "unknown product")
		return
	}
	if i := derive.CartLineIndex(s.lines, productID); i >= 0 {
		s.bump(i, product.Stock)
		return
	}
	if product.Stock <= 0 {
		s.refuse("add", productID, "out of stock")
		return
	}
	s.lines = append(s.lines, domain.CartLine{
		ID:         product.ID,
		Title:      product.Title,
		PriceCents: product.PriceCents,
		Quantity:   1,
	})
}

// Remove drops the line for productID, if any.
func (s *Store) Remove(productID int) {
	defer s.changed()

	i := derive.CartLineIndex(s.lines, productID)
	if i < 0 {
		return
	}
	s.lines = append(s.lines[:i:i], s.lines[i+1:]...)
}

// Increment adds one unit to an existing line while it stays within stock.
func (s *Store) Increment(productID int) {
	defer s.changed()

	product, ok := s.catalog.FindProduct(productID)
	if !ok {
		s.refuse("increment", productID, "unknown product")
		return
	}
	i := derive.CartLineIndex(s.lines, productID)
	if i < 0 {
		s.refuse("increment", productID, "not in cart")
		return
	}
	s.bump(i, product.Stock)
}

// Decrement removes one unit; a line at quantity 1 is removed entirely.
func (s *Store) Decrement(productID int) {
	defer s.changed()

	i := derive.CartLineIndex(s.lines, productID)
	if i < 0 {
		return
	}
	if s.lines[i].Quantity > 1 {
		s.lines[i].Quantity--
		return
	}
	s.lines = append(s.lines[:i:i], s.lines[i+1:]...)
}

// Clear empties the cart.
func (s *Store) Clear() {
	defer s.changed()
	s.lines = nil
}

// Confirm computes the total, hands it to confirm synchronously and then
// clears the cart. It returns the confirmed total.
func (s *Store) Confirm(confirm func(totalCents int64)) int64 {
	total := s.Total()
	if confirm != nil {
		confirm(total)
	}
	s.logger.Info("cart confirmed", zap.Int("lines", len(s.lines)), zap.String("total", domain.FormatCents(total)))
	s.Clear()
	return total
}

func (s *Store) bump(i, stock int) {
	if s.lines[i].Quantity >= stock {
		s.refuse("increment", s.lines[i].ID, "stock exhausted")
		return
	}
	s.lines[i].Quantity++
}

func (s *Store) refuse(action string, productID int, why string) {
	s.logger.Debug("cart action ignored",
		zap.String("action", action),
		zap.Int("product_id", productID),
		zap.String("reason", why))
}

func (s *Store) changed() {
	s.notify(domain.RegionCart, domain.RegionTotal, domain.RegionProducts)
}
