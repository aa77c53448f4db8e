// Package sink holds the surfaces rendered regions are written to.
package sink

import (
	"sync"

	"cartwidget/internal/domain"
)

// Sink accepts serialized region content. Each call replaces the region's
// previous content wholesale.
type Sink interface {
	Replace(region domain.Region, content string)
}

// Readier is implemented by sinks that only accept content after some setup.
type Readier interface {
	Ready() <-chan struct{}
}

// Memory keeps the latest content per region and counts writes.
type Memory struct {
	mu      sync.Mutex
	content map[domain.Region]string
	writes  map[domain.Region]int
}

func NewMemory() *Memory {
	return &Memory{
		content: make(map[domain.Region]string),
		writes:  make(map[domain.Region]int),
	}
}

func (m *Memory) Replace(region domain.Region, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.content[region] = content
	m.writes[region]++
}

// Content returns the latest content for region.
func (m *Memory) Content(region domain.Region) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.content[region]
}

// Writes returns how many times region was replaced.
func (m *Memory) Writes(region domain.Region) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes[region]
}
