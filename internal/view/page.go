package view

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"cartwidget/internal/domain"
)

const (
	htmxScript = "https://unpkg.com/htmx.org@2.0.4"
	sseScript  = "https://unpkg.com/htmx-ext-sse@2.2.2/sse.js"
)

// regionContainers maps regions to the element ids of the page layout.
var regionContainers = map[domain.Region]string{
	domain.RegionProducts: "products-container",
	domain.RegionCart:     "cart-container",
	domain.RegionTotal:    "total-container",
	domain.RegionError:    "error-container",
}

// Page lays out the full widget with the given pre-rendered regions. Regions
// subscribe to eventsURL and swap in replacements named after the region.
func (r *Renderer) Page(title, eventsURL string, regions map[domain.Region]string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b builder
		b.line(`<!DOCTYPE html>`)
		b.line(`<html lang="en">`)
		b.line(`<head>`)
		b.line(`<meta charset="utf-8">`)
		b.line(`<title>%s</title>`, esc(title))
		b.line(`<script src="%s"></script>`, htmxScript)
		b.line(`<script src="%s"></script>`, sseScript)
		b.line(`</head>`)
		b.line(`<body hx-ext="sse" sse-connect="%s">`, esc(eventsURL))
		b.line(`<div id="%s" sse-swap="%s">%s</div>`, regionContainers[domain.RegionError], domain.RegionError, regions[domain.RegionError])
		b.line(`<main class="layout">`)
		b.line(`<section id="%s" class="products-grid" sse-swap="%s">%s</section>`, regionContainers[domain.RegionProducts], domain.RegionProducts, regions[domain.RegionProducts])
		b.line(`<aside class="cart">`)
		b.line(`<h2>Cart</h2>`)
		b.line(`<div id="%s" sse-swap="%s">%s</div>`, regionContainers[domain.RegionCart], domain.RegionCart, regions[domain.RegionCart])
		b.line(`<div id="%s" sse-swap="%s">%s</div>`, regionContainers[domain.RegionTotal], domain.RegionTotal, regions[domain.RegionTotal])
		b.line(`</aside>`)
		b.line(`</main>`)
		b.line(`</body>`)
		b.line(`</html>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
