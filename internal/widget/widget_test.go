package widget

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"cartwidget/internal/catalog"
	"cartwidget/internal/domain"
	"cartwidget/internal/sink"
)

type stubSource struct {
	mu       sync.Mutex
	products []domain.Product
	err      error
	gate     chan struct{}
	started  chan struct{}
}

func (s *stubSource) set(products []domain.Product, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products, s.err = products, err
}

func (s *stubSource) Fetch(ctx context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	gate, started := s.gate, s.started
	s.mu.Unlock()
	if started != nil {
		close(started)
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products, s.err
}

func twoProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Title: "A", PriceCents: 1000, Stock: 2},
		{ID: 2, Title: "B", PriceCents: 500, Stock: 4},
	}
}

func started(t *testing.T, src *stubSource) (*Widget, *sink.Memory) {
	t.Helper()
	mem := sink.NewMemory()
	w := New(Options{Source: src, Sink: mem})
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return w, mem
}

func TestStartRendersAllRegionsThenLoads(t *testing.T) {
	src := &stubSource{products: twoProducts()}
	w, mem := started(t, src)

	for _, region := range domain.Regions {
		if mem.Writes(region) == 0 {
			t.Fatalf("expected region %s rendered at startup", region)
		}
	}
	if !strings.Contains(mem.Content(domain.RegionProducts), `data-product-id="2"`) {
		t.Fatalf("expected catalog rendered after load, got %s", mem.Content(domain.RegionProducts))
	}
	if !strings.Contains(mem.Content(domain.RegionCart), "Your cart is empty") {
		t.Fatalf("expected empty cart placeholder")
	}
	if st := w.State(); st.Loading || len(st.Products) != 2 {
		t.Fatalf("unexpected state after start %+v", st)
	}
}

func TestStartWaitsForSink(t *testing.T) {
	src := &stubSource{products: twoProducts()}
	b := sink.NewBroadcaster(nil)
	w := New(Options{Source: src, Sink: b})

	done := make(chan error, 1)
	go func() { done <- w.Start(context.Background()) }()

	select {
	case <-done:
		t.Fatalf("Start returned before the sink was ready")
	case <-time.After(50 * time.Millisecond):
	}
	if b.Snapshot()[domain.RegionCart] != "" {
		t.Fatalf("expected nothing rendered before ready")
	}

	b.MarkReady()
	if err := <-done; err != nil {
		t.Fatalf("Start: %v", err)
	}
	if b.Snapshot()[domain.RegionCart] == "" {
		t.Fatalf("expected cart rendered after ready")
	}
}

func TestStartCanceledBeforeReady(t *testing.T) {
	w := New(Options{Source: &stubSource{}, Sink: sink.NewBroadcaster(nil)})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.Start(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}

func TestStockScenario(t *testing.T) {
	w, mem := started(t, &stubSource{products: twoProducts()})

	w.Add(1)
	w.Add(1)
	w.Add(1)
	if lines := w.State().Cart; len(lines) != 1 || lines[0].Quantity != 2 {
		t.Fatalf("expected qty capped at 2, got %+v", lines)
	}
	if !strings.Contains(mem.Content(domain.RegionTotal), "$20.00") {
		t.Fatalf("expected total region updated, got %s", mem.Content(domain.RegionTotal))
	}

	w.Decrement(1)
	if lines := w.State().Cart; lines[0].Quantity != 1 {
		t.Fatalf("expected qty 1, got %+v", lines)
	}
	w.Decrement(1)
	if len(w.State().Cart) != 0 {
		t.Fatalf("expected empty cart")
	}
	if mem.Content(domain.RegionTotal) != "" {
		t.Fatalf("expected blank total for empty cart")
	}
}

func TestConfirmSurfacesTotalThenClears(t *testing.T) {
	var confirmed int64
	mem := sink.NewMemory()
	w := New(Options{
		Source:    &stubSource{products: twoProducts()},
		Sink:      mem,
		OnConfirm: func(total int64) { confirmed = total },
	})
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	w.Add(1)
	w.Increment(1)
	w.Add(2)

	if total := w.Confirm(); total != 2500 {
		t.Fatalf("expected 2500, got %d", total)
	}
	if confirmed != 2500 {
		t.Fatalf("expected callback with 2500, got %d", confirmed)
	}
	if len(w.State().Cart) != 0 {
		t.Fatalf("expected cart cleared")
	}
	if !strings.Contains(mem.Content(domain.RegionCart), "Your cart is empty") {
		t.Fatalf("expected cart region re-rendered empty")
	}
}

func TestFailedLoadKeepsCart(t *testing.T) {
	src := &stubSource{products: twoProducts()}
	w, mem := started(t, src)
	w.Add(2)
	w.Add(2)

	src.set(nil, &catalog.StatusError{Code: 502})
	if err := w.Reload(context.Background()); err == nil {
		t.Fatalf("expected reload error")
	}

	st := w.State()
	if st.Error == "" {
		t.Fatalf("expected error message")
	}
	if len(st.Cart) != 1 || st.Cart[0].Quantity != 2 {
		t.Fatalf("expected cart untouched, got %+v", st.Cart)
	}
	if !strings.Contains(mem.Content(domain.RegionError), "HTTP error: 502") {
		t.Fatalf("expected error region, got %s", mem.Content(domain.RegionError))
	}

	src.set([]domain.Product{{ID: 7, Title: "New", PriceCents: 100, Stock: 1}}, nil)
	if err := w.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	st = w.State()
	if st.Error != "" || len(st.Products) != 1 || st.Products[0].ID != 7 {
		t.Fatalf("expected error cleared and catalog replaced, got %+v", st)
	}
	if mem.Content(domain.RegionError) != "" {
		t.Fatalf("expected error region cleared")
	}
	// Product 2 vanished: its cart row keeps the snapshot but cannot grow.
	if !strings.Contains(mem.Content(domain.RegionCart), `hx-post="/cart/items/2/increment" hx-swap="none" disabled>+</button>`) {
		t.Fatalf("expected increment disabled for vanished product, got %s", mem.Content(domain.RegionCart))
	}
}

func TestCartActionsRunWhileLoading(t *testing.T) {
	src := &stubSource{products: twoProducts()}
	w, mem := started(t, src)

	src.mu.Lock()
	src.gate = make(chan struct{})
	src.started = make(chan struct{})
	gate, begun := src.gate, src.started
	src.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- w.Reload(context.Background()) }()
	<-begun

	w.Add(1)
	if !w.State().Loading {
		t.Fatalf("expected loading during fetch")
	}
	if !strings.Contains(mem.Content(domain.RegionProducts), "Loading products...") {
		t.Fatalf("expected loading indicator during fetch")
	}
	if len(w.State().Cart) != 1 {
		t.Fatalf("expected cart action applied against stale catalog")
	}

	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if w.State().Loading {
		t.Fatalf("expected loading cleared")
	}
}

func TestRegionsMatchSink(t *testing.T) {
	w, mem := started(t, &stubSource{products: twoProducts()})
	w.Add(2)

	regions, err := w.Regions(context.Background())
	if err != nil {
		t.Fatalf("Regions: %v", err)
	}
	for _, region := range domain.Regions {
		if regions[region] != mem.Content(region) {
			t.Fatalf("region %s differs from sink content", region)
		}
	}
}
