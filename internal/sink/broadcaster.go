package sink

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cartwidget/internal/domain"
)

const subscriberBuffer = 32

// Update is one region replacement.
type Update struct {
	Region  domain.Region
	Content string
}

// Broadcaster keeps the latest content per region and fans replacements out
// to subscribers. Slow subscribers miss updates rather than block the writer.
type Broadcaster struct {
	mu        sync.Mutex
	latest    map[domain.Region]string
	subs      map[uuid.UUID]chan Update
	ready     chan struct{}
	readyOnce sync.Once
	logger    *zap.Logger
}

func NewBroadcaster(logger *zap.Logger) *Broadcaster {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Broadcaster{
		latest: make(map[domain.Region]string),
		subs:   make(map[uuid.UUID]chan Update),
		ready:  make(chan struct{}),
		logger: logger,
	}
}

// MarkReady opens the sink for content. Safe to call more than once.
func (b *Broadcaster) MarkReady() {
	b.readyOnce.Do(func() { close(b.ready) })
}

func (b *Broadcaster) Ready() <-chan struct{} {
	return b.ready
}

func (b *Broadcaster) Replace(region domain.Region, content string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.latest[region] = content
	for id, ch := range b.subs {
		select {
		case ch <- Update{Region: region, Content: content}:
		default:
			b.logger.Warn("subscriber lagging, update dropped",
				zap.String("subscriber", id.String()),
				zap.String("region", string(region)))
		}
	}
}

// Snapshot returns the latest content of every region.
func (b *Broadcaster) Snapshot() map[domain.Region]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[domain.Region]string, len(domain.Regions))
	for _, r := range domain.Regions {
		out[r] = b.latest[r]
	}
	return out
}

// Subscribe registers a subscriber. The returned cancel func unregisters it
// and closes the channel.
func (b *Broadcaster) Subscribe() (uuid.UUID, <-chan Update, func()) {
	id := uuid.New()
	ch := make(chan Update, subscriberBuffer)

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()
	b.logger.Debug("subscriber joined", zap.String("subscriber", id.String()))

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
			b.logger.Debug("subscriber left", zap.String("subscriber", id.String()))
		})
	}
	return id, ch, cancel
}

// Subscribers reports the number of live subscribers.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
