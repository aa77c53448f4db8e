// Package view renders the widget regions as HTML fragments. Output is a pure
// function of State.
package view

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"cartwidget/internal/derive"
	"cartwidget/internal/domain"
)

// LowStockThreshold marks product cards whose stock is below it.
const LowStockThreshold = 10

// State is everything the regions are derived from.
type State struct {
	Products []domain.Product
	Loading  bool
	Error    string
	Cart     []domain.CartLine
}

// Renderer builds region components. ActionBase prefixes every control's
// target route.
type Renderer struct {
	ActionBase string
}

func NewRenderer(actionBase string) *Renderer {
	return &Renderer{ActionBase: strings.TrimRight(actionBase, "/")}
}

// Component returns the component for region.
func (r *Renderer) Component(region domain.Region, st State) templ.Component {
	switch region {
	case domain.RegionProducts:
		return r.products(st)
	case domain.RegionCart:
		return r.cart(st)
	case domain.RegionTotal:
		return r.total(st)
	case domain.RegionError:
		return errorBanner(st)
	default:
		return templ.NopComponent
	}
}

// Render serialises one region.
func (r *Renderer) Render(ctx context.Context, region domain.Region, st State) (string, error) {
	var buf bytes.Buffer
	if err := r.Component(region, st).Render(ctx, &buf); err != nil {
		return "", fmt.Errorf("render %s: %w", region, err)
	}
	return buf.String(), nil
}

// RenderAll serialises every region.
func (r *Renderer) RenderAll(ctx context.Context, st State) (map[domain.Region]string, error) {
	out := make(map[domain.Region]string, len(domain.Regions))
	for _, region := range domain.Regions {
		html, err := r.Render(ctx, region, st)
		if err != nil {
			return nil, err
		}
		out[region] = html
	}
	return out, nil
}

func (r *Renderer) products(st State) templ.Component {
	return fragment(func(b *builder) {
		if st.Loading {
			b.line(`<div class="loading-container">`)
			b.line(`<div class="spinner"></div>`)
			b.line(`<p class="loading-text">Loading products...</p>`)
			b.line(`</div>`)
			return
		}
		if len(st.Products) == 0 {
			b.line(`<div class="loading-container">`)
			b.line(`<p class="loading-text">No products available</p>`)
			b.line(`</div>`)
			return
		}
		for _, p := range st.Products {
			r.productCard(b, p, st.Cart)
		}
	})
}

func (r *Renderer) productCard(b *builder, p domain.Product, cart []domain.CartLine) {
	stockClass := "product-stock"
	if p.Stock < LowStockThreshold {
		stockClass += " low-stock"
	}

	b.line(`<div class="product-card" data-product-id="%d">`, p.ID)
	b.line(`<img src="%s" alt="%s" class="product-image">`, esc(string(templ.URL(p.Thumbnail))), esc(p.Title))
	b.line(`<h3 class="product-title">%s</h3>`, esc(p.Title))
	b.line(`<p class="product-description">%s</p>`, esc(p.Description))
	b.line(`<p class="product-price">$%s</p>`, domain.FormatCents(p.PriceCents))
	b.line(`<p class="%s">Stock: %d units</p>`, stockClass, p.Stock)
	b.line(`<div class="product-actions">`)

	if line, ok := derive.FindCartLine(cart, p.ID); ok {
		r.quantityControls(b, "quantity-controls", p.ID, line.Quantity, p.Stock)
		b.line(`<button class="btn btn-danger btn-remove" %s>Remove</button>`, r.action(p.ID, "remove"))
	} else if p.Stock == 0 {
		b.line(`<button class="btn btn-primary btn-full" %s disabled>Out of stock</button>`, r.action(p.ID, "add"))
	} else {
		b.line(`<button class="btn btn-primary btn-full" %s>Add to cart</button>`, r.action(p.ID, "add"))
	}

	b.line(`</div>`)
	b.line(`</div>`)
}

func (r *Renderer) cart(st State) templ.Component {
	return fragment(func(b *builder) {
		if len(st.Cart) == 0 {
			b.line(`<div class="cart-empty">`)
			b.line(`<div class="cart-empty-icon">&#128722;</div>`)
			b.line(`<p>Your cart is empty</p>`)
			b.line(`<p class="cart-empty-hint">Add products to get started</p>`)
			b.line(`</div>`)
			return
		}
		for _, item := range st.Cart {
			stock := derive.StockFor(st.Products, item.ID)
			b.line(`<div class="cart-item" data-product-id="%d">`, item.ID)
			b.line(`<h4 class="cart-item-title">%s</h4>`, esc(item.Title))
			b.line(`<p class="cart-item-price">$%s x %d = $%s</p>`,
				domain.FormatCents(item.PriceCents), item.Quantity, domain.FormatCents(item.SubtotalCents()))
			b.line(`<div class="cart-item-controls">`)
			r.quantityControls(b, "cart-item-quantity", item.ID, item.Quantity, stock)
			b.line(`<button class="btn btn-remove" %s>Remove</button>`, r.action(item.ID, "remove"))
			b.line(`</div>`)
			b.line(`</div>`)
		}
	})
}

func (r *Renderer) quantityControls(b *builder, class string, id, quantity, stock int) {
	b.line(`<div class="%s">`, class)
	b.line(`<button class="quantity-btn" %s>&minus;</button>`, r.action(id, "decrement"))
	b.line(`<span class="quantity-display">%d</span>`, quantity)
	if quantity >= stock {
		b.line(`<button class="quantity-btn" %s disabled>+</button>`, r.action(id, "increment"))
	} else {
		b.line(`<button class="quantity-btn" %s>+</button>`, r.action(id, "increment"))
	}
	b.line(`</div>`)
}

func (r *Renderer) total(st State) templ.Component {
	return fragment(func(b *builder) {
		if len(st.Cart) == 0 {
			return
		}
		b.line(`<div class="total-amount">`)
		b.line(`<span>Total:</span>`)
		b.line(`<span class="total-price">$%s</span>`, domain.FormatCents(derive.Total(st.Cart)))
		b.line(`</div>`)
		b.line(`<div class="cart-actions">`)
		b.line(`<button class="btn btn-primary btn-full" hx-post="%s/cart/confirm" hx-swap="none">Confirm cart</button>`, r.ActionBase)
		b.line(`<button class="btn btn-danger btn-full" hx-post="%s/cart/clear" hx-swap="none">Clear cart</button>`, r.ActionBase)
		b.line(`</div>`)
	})
}

func errorBanner(st State) templ.Component {
	return fragment(func(b *builder) {
		if st.Error == "" {
			return
		}
		b.line(`<div class="error-message">`)
		b.line(`<span>%s</span>`, esc(st.Error))
		b.line(`</div>`)
	})
}

func (r *Renderer) action(id int, verb string) string {
	return fmt.Sprintf(`hx-post="%s/cart/items/%d/%s" hx-swap="none"`, r.ActionBase, id, verb)
}

func esc(s string) string {
	return templ.EscapeString(s)
}

// builder accumulates a fragment line by line.
type builder struct {
	strings.Builder
}

func (b *builder) line(format string, args ...any) {
	if len(args) == 0 {
		b.WriteString(format)
	} else {
		fmt.Fprintf(b, format, args...)
	}
	b.WriteByte('\n')
}

func fragment(build func(b *builder)) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b builder
		build(&b)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
