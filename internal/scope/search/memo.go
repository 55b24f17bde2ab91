package search

import (
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// DefaultMemoCapacity is used when a non-positive capacity is given.
const DefaultMemoCapacity = 256

// Memo caches Process results for a catalog snapshot.
// Cached slices are shared between callers and must not be modified.
type Memo struct {
	engine   *Engine
	capacity int

	mu      sync.Mutex
	version uint64
	entries map[uint64][]*Product
}

// NewMemo wraps engine with a result cache holding up to capacity entries.
func NewMemo(engine *Engine, capacity int) *Memo {
	if capacity <= 0 {
		capacity = DefaultMemoCapacity
	}
	return &Memo{
		engine:   engine,
		capacity: capacity,
		entries:  make(map[uint64][]*Product),
	}
}

// Engine returns the wrapped engine.
func (m *Memo) Engine() *Engine {
	return m.engine
}

// Process returns the cached result for the inputs or computes it.
// version identifies the products slice; a newer version drops every entry.
// Requests still holding an older snapshot are computed but never cached.
func (m *Memo) Process(version uint64, products []*Product, query string, filters Filters, mode SortMode, viewed []ViewedItem) ([]*Product, bool) {
	key := memoKey(query, filters, mode, viewed)

	m.mu.Lock()
	if version > m.version {
		m.version = version
		m.entries = make(map[uint64][]*Product)
	}
	if version < m.version {
		m.mu.Unlock()
		return m.engine.Process(products, query, filters, mode, viewed), false
	}
	if cached, ok := m.entries[key]; ok {
		m.mu.Unlock()
		return cached, true
	}
	m.mu.Unlock()

	result := m.engine.Process(products, query, filters, mode, viewed)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.version == version {
		if len(m.entries) >= m.capacity {
			m.entries = make(map[uint64][]*Product)
		}
		m.entries[key] = result
	}
	return result, false
}

// Len returns the number of cached results.
func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func memoKey(query string, filters Filters, mode SortMode, viewed []ViewedItem) uint64 {
	d := xxhash.New()
	write := func(s string) {
		_, _ = d.WriteString(s)
		_, _ = d.Write([]byte{0x1e})
	}

	write(query)
	write(filters.key())
	write(string(mode))
	// Only recommendation ordering depends on the history.
	if mode == SortRecommendation {
		write(strconv.Itoa(len(viewed)))
		for _, v := range viewed {
			write(v.ID)
			write(v.Brand)
			write(v.Model)
		}
	}
	return d.Sum64()
}
