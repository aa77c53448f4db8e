// Package derive holds pure lookups and aggregates over catalog and cart state.
package derive

import "cartwidget/internal/domain"

// FindCartLine returns the cart line for id, if any.
func FindCartLine(lines []domain.CartLine, id int) (domain.CartLine, bool) {
	if i := CartLineIndex(lines, id); i >= 0 {
		return lines[i], true
	}
	return domain.CartLine{}, false
}

// FindProduct returns the catalog product for id, if any.
func FindProduct(products []domain.Product, id int) (domain.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// Total sums price snapshot * quantity over lines. The live catalog price is
// never consulted.
func Total(lines []domain.CartLine) int64 {
	var total int64
	for _, l := range lines {
		total += l.SubtotalCents()
	}
	return total
}

// StockFor returns the current catalog stock for id, or 0 when the product is
// no longer in the catalog.
func StockFor(products []domain.Product, id int) int {
	if p, ok := FindProduct(products, id); ok {
		return p.Stock
	}
	return 0
}

// CartLineIndex returns the position of the line for id, or -1.
func CartLineIndex(lines []domain.CartLine, id int) int {
	for i, l := range lines {
		if l.ID == id {
			return i
		}
	}
	return -1
}
