package view

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"cartwidget/internal/domain"
)

func render(t *testing.T, region domain.Region, st State) string {
	t.Helper()
	out, err := NewRenderer("").Render(context.Background(), region, st)
	if err != nil {
		t.Fatalf("render %s: %v", region, err)
	}
	return out
}

func TestProductsLoadingWinsOverContent(t *testing.T) {
	out := render(t, domain.RegionProducts, State{
		Loading:  true,
		Products: []domain.Product{{ID: 1, Title: "A", Stock: 3}},
	})
	if !strings.Contains(out, "Loading products...") {
		t.Fatalf("expected loading indicator, got %s", out)
	}
	if strings.Contains(out, "product-card") {
		t.Fatalf("expected no cards while loading")
	}
}

func TestProductsEmptyState(t *testing.T) {
	out := render(t, domain.RegionProducts, State{})
	if !strings.Contains(out, "No products available") {
		t.Fatalf("expected empty-state message, got %s", out)
	}
}

func TestProductCards(t *testing.T) {
	st := State{
		Products: []domain.Product{
			{ID: 1, Title: "Mascara", Description: "Lash <b>volume</b>", PriceCents: 999, Stock: 2, Thumbnail: "https://cdn.test/1.png"},
			{ID: 2, Title: "Palette", PriceCents: 1999, Stock: 0},
			{ID: 3, Title: "Lipstick", PriceCents: 500, Stock: 40},
		},
		Cart: []domain.CartLine{{ID: 1, Title: "Mascara", PriceCents: 999, Quantity: 2}},
	}
	out := render(t, domain.RegionProducts, st)

	if strings.Index(out, "Mascara") > strings.Index(out, "Palette") || strings.Index(out, "Palette") > strings.Index(out, "Lipstick") {
		t.Fatalf("expected cards in catalog order")
	}
	if strings.Contains(out, "<b>volume</b>") || !strings.Contains(out, "Lash &lt;b&gt;volume&lt;/b&gt;") {
		t.Fatalf("expected escaped description, got %s", out)
	}
	if !strings.Contains(out, `hx-post="/cart/items/1/increment" hx-swap="none" disabled>+</button>`) {
		t.Fatalf("expected increment disabled at stock, got %s", out)
	}
	if !strings.Contains(out, `hx-post="/cart/items/1/remove"`) {
		t.Fatalf("expected remove control for carted product")
	}
	if strings.Contains(out, `hx-post="/cart/items/1/add"`) {
		t.Fatalf("expected no add control for carted product")
	}
	if !strings.Contains(out, `hx-post="/cart/items/2/add" hx-swap="none" disabled>Out of stock</button>`) {
		t.Fatalf("expected disabled out-of-stock control, got %s", out)
	}
	if !strings.Contains(out, `hx-post="/cart/items/3/add" hx-swap="none">Add to cart</button>`) {
		t.Fatalf("expected enabled add control for product 3")
	}
	if !strings.Contains(out, `<p class="product-stock low-stock">Stock: 2 units</p>`) {
		t.Fatalf("expected low stock marker")
	}
	if !strings.Contains(out, `<p class="product-stock">Stock: 40 units</p>`) {
		t.Fatalf("expected plain stock for product 3")
	}
	if !strings.Contains(out, "$9.99") {
		t.Fatalf("expected formatted price")
	}
}

func TestThumbnailSanitized(t *testing.T) {
	out := render(t, domain.RegionProducts, State{
		Products: []domain.Product{{ID: 1, Title: "X", Stock: 1, Thumbnail: "javascript:alert(1)"}},
	})
	if strings.Contains(out, "javascript:") {
		t.Fatalf("expected unsafe thumbnail to be sanitized, got %s", out)
	}
}

func TestCartRegion(t *testing.T) {
	if out := render(t, domain.RegionCart, State{}); !strings.Contains(out, "Your cart is empty") {
		t.Fatalf("expected empty cart placeholder, got %s", out)
	}

	st := State{
		Products: []domain.Product{{ID: 1, Stock: 5}},
		Cart: []domain.CartLine{
			{ID: 1, Title: "A", PriceCents: 1000, Quantity: 2},
			{ID: 9, Title: "Gone", PriceCents: 250, Quantity: 1},
		},
	}
	out := render(t, domain.RegionCart, st)
	if !strings.Contains(out, "$10.00 x 2 = $20.00") {
		t.Fatalf("expected line subtotal, got %s", out)
	}
	if !strings.Contains(out, `hx-post="/cart/items/1/increment" hx-swap="none">+</button>`) {
		t.Fatalf("expected enabled increment below stock")
	}
	if !strings.Contains(out, `hx-post="/cart/items/9/increment" hx-swap="none" disabled>+</button>`) {
		t.Fatalf("expected increment disabled for vanished product, got %s", out)
	}
	if strings.Index(out, `data-product-id="1"`) > strings.Index(out, `data-product-id="9"`) {
		t.Fatalf("expected rows in cart order")
	}
}

func TestTotalRegion(t *testing.T) {
	if out := render(t, domain.RegionTotal, State{}); out != "" {
		t.Fatalf("expected blank total for empty cart, got %q", out)
	}
	out := render(t, domain.RegionTotal, State{Cart: []domain.CartLine{
		{ID: 1, PriceCents: 1000, Quantity: 2},
		{ID: 2, PriceCents: 500, Quantity: 1},
	}})
	if !strings.Contains(out, `<span class="total-price">$25.00</span>`) {
		t.Fatalf("expected total 25.00, got %s", out)
	}
	if !strings.Contains(out, `hx-post="/cart/confirm"`) || !strings.Contains(out, `hx-post="/cart/clear"`) {
		t.Fatalf("expected confirm and clear actions")
	}
}

func TestErrorRegion(t *testing.T) {
	if out := render(t, domain.RegionError, State{}); out != "" {
		t.Fatalf("expected blank error region, got %q", out)
	}
	out := render(t, domain.RegionError, State{Error: "Could not load products. HTTP error: 500"})
	if !strings.Contains(out, "<span>Could not load products. HTTP error: 500</span>") {
		t.Fatalf("expected message verbatim, got %s", out)
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	st := State{
		Products: []domain.Product{{ID: 1, Title: "A", PriceCents: 100, Stock: 3}},
		Cart:     []domain.CartLine{{ID: 1, Title: "A", PriceCents: 100, Quantity: 1}},
		Error:    "boom",
	}
	r := NewRenderer("/widget/")
	first, err := r.RenderAll(context.Background(), st)
	if err != nil {
		t.Fatalf("RenderAll: %v", err)
	}
	second, err := r.RenderAll(context.Background(), st)
	if err != nil {
		t.Fatalf("RenderAll: %v", err)
	}
	for _, region := range domain.Regions {
		if first[region] != second[region] {
			t.Fatalf("region %s differs between renders", region)
		}
	}
	if !strings.Contains(first[domain.RegionProducts], `hx-post="/widget/cart/items/1/remove"`) {
		t.Fatalf("expected action base prefix, got %s", first[domain.RegionProducts])
	}
}

func TestPageEmbedsRegions(t *testing.T) {
	r := NewRenderer("")
	regions := map[domain.Region]string{
		domain.RegionProducts: "<p>P</p>",
		domain.RegionCart:     "<p>C</p>",
		domain.RegionTotal:    "",
		domain.RegionError:    "",
	}
	var buf bytes.Buffer
	if err := r.Page("Shop", "/events", regions).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render page: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `<section id="products-container" class="products-grid" sse-swap="products"><p>P</p></section>`) {
		t.Fatalf("expected products container, got %s", out)
	}
	if !strings.Contains(out, `sse-connect="/events"`) {
		t.Fatalf("expected sse connection")
	}
}
