// Package widget wires user actions to the catalog and cart stores and store
// changes to region renders.
package widget

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"cartwidget/internal/cart"
	"cartwidget/internal/catalog"
	"cartwidget/internal/domain"
	"cartwidget/internal/sink"
	"cartwidget/internal/view"
)

// Options configures a Widget.
type Options struct {
	Source   catalog.Source
	Sink     sink.Sink
	Renderer *view.Renderer
	Logger   *zap.Logger
	// OnConfirm receives the cart total before the cart is cleared. It runs
	// with the run loop held and must not call back into the Widget.
	OnConfirm func(totalCents int64)
}

// Widget is the orchestrator. Its mutex is the run loop: every action and the
// renders it triggers complete before the next action starts.
type Widget struct {
	loop      sync.Mutex
	catalog   *catalog.Store
	cart      *cart.Store
	renderer  *view.Renderer
	sink      sink.Sink
	logger    *zap.Logger
	onConfirm func(int64)
}

func New(opts Options) *Widget {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = view.NewRenderer("")
	}
	w := &Widget{
		renderer:  renderer,
		sink:      opts.Sink,
		logger:    logger,
		onConfirm: opts.OnConfirm,
	}
	w.catalog = catalog.NewStore(&w.loop, opts.Source, w.refresh, logger.Named("catalog"))
	w.cart = cart.NewStore(w.catalog, w.refresh, logger.Named("cart"))
	return w
}

// Start waits for the sink to accept content, renders every region from the
// initial state and runs the initial catalog load. A failed load is surfaced
// in the error region, not returned.
func (w *Widget) Start(ctx context.Context) error {
	if r, ok := w.sink.(sink.Readier); ok {
		select {
		case <-r.Ready():
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	w.loop.Lock()
	w.refresh(domain.Regions...)
	w.loop.Unlock()

	if err := w.catalog.Load(ctx); err != nil && !errors.Is(err, context.Canceled) {
		w.logger.Warn("initial catalog load failed", zap.Error(err))
	}
	return nil
}

// Reload runs another catalog fetch attempt.
func (w *Widget) Reload(ctx context.Context) error {
	return w.catalog.Load(ctx)
}

func (w *Widget) Add(productID int) {
	w.run(func() { w.cart.Add(productID) })
}

func (w *Widget) Remove(productID int) {
	w.run(func() { w.cart.Remove(productID) })
}

func (w *Widget) Increment(productID int) {
	w.run(func() { w.cart.Increment(productID) })
}

func (w *Widget) Decrement(productID int) {
	w.run(func() { w.cart.Decrement(productID) })
}

func (w *Widget) Clear() {
	w.run(w.cart.Clear)
}

// Confirm hands the total to OnConfirm, clears the cart and returns the total.
func (w *Widget) Confirm() int64 {
	var total int64
	w.run(func() { total = w.cart.Confirm(w.onConfirm) })
	return total
}

// State returns a copy of the current state.
func (w *Widget) State() view.State {
	w.loop.Lock()
	defer w.loop.Unlock()
	return w.state()
}

// Regions renders every region from the current state.
func (w *Widget) Regions(ctx context.Context) (map[domain.Region]string, error) {
	return w.renderer.RenderAll(ctx, w.State())
}

func (w *Widget) run(action func()) {
	w.loop.Lock()
	defer w.loop.Unlock()
	action()
}

// refresh re-renders regions into the sink. Callers hold the loop.
func (w *Widget) refresh(regions ...domain.Region) {
	if w.sink == nil {
		return
	}
	st := w.state()
	seen := make(map[domain.Region]bool, len(regions))
	for _, region := range regions {
		if seen[region] {
			continue
		}
		seen[region] = true
		html, err := w.renderer.Render(context.Background(), region, st)
		if err != nil {
			w.logger.Error("render region", zap.String("region", string(region)), zap.Error(err))
			continue
		}
		w.sink.Replace(region, html)
	}
}

func (w *Widget) state() view.State {
	return view.State{
		Products: append([]domain.Product(nil), w.catalog.Products()...),
		Loading:  w.catalog.Loading(),
		Error:    w.catalog.Err(),
		Cart:     w.cart.Lines(),
	}
}
