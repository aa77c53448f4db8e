// Package catalog holds the fetched product catalog together with its loading
// and error flags.
package catalog

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"cartwidget/internal/derive"
	"cartwidget/internal/domain"
)

// Store owns catalog state. Readers and the setters assume the caller holds the
// run loop; Load acquires it itself because it has to let go during I/O.
type Store struct {
	loop     sync.Locker
	source   Source
	notify   domain.Notifier
	logger   *zap.Logger
	products []domain.Product
	inFlight int
	errMsg   string
}

// NewStore builds an empty catalog. loop serialises every state mutation with
// the rest of the widget.
func NewStore(loop sync.Locker, source Source, notify domain.Notifier, logger *zap.Logger) *Store {
	if notify == nil {
		notify = func(...domain.Region) {}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{loop: loop, source: source, notify: notify, logger: logger}
}

// Products returns the current product sequence in catalog order.
func (s *Store) Products() []domain.Product {
	return s.products
}

// Loading reports whether a fetch is in flight.
func (s *Store) Loading() bool {
	return s.inFlight > 0
}

// Err returns the message of the last failed fetch, or "".
func (s *Store) Err() string {
	return s.errMsg
}

// FindProduct looks up a product by id in the current catalog.
func (s *Store) FindProduct(id int) (domain.Product, bool) {
	return derive.FindProduct(s.products, id)
}

// Load runs one fetch attempt. It returns the fetch error, which is already
// reflected in Err; callers only need it for logging.
func (s *Store) Load(ctx context.Context) error {
	s.loop.Lock()
	s.setLoading(true)
	s.setError("")
	s.loop.Unlock()

	products, err := s.source.Fetch(ctx)

	s.loop.Lock()
	defer s.loop.Unlock()
	defer s.setLoading(false)

	if err != nil {
		s.logger.Warn("catalog load failed", zap.Error(err))
		s.setError("Could not load products. " + err.Error())
		return err
	}
	s.setProducts(products)
	s.logger.Info("catalog loaded", zap.Int("count", len(products)))
	return nil
}

func (s *Store) setLoading(loading bool) {
	if loading {
		s.inFlight++
	} else if s.inFlight > 0 {
		s.inFlight--
	}
	s.notify(domain.RegionProducts)
}

func (s *Store) setError(msg string) {
	s.errMsg = msg
	s.notify(domain.RegionError)
}

func (s *Store) setProducts(products []domain.Product) {
	s.products = append([]domain.Product(nil), products...)
	s.notify(domain.RegionProducts, domain.RegionCart)
}
