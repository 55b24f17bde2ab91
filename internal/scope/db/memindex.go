package db

import (
	"sync"

	"github.com/dsjohal14/mukrindo/internal/scope/search"
)

// MemIndex is a thread-safe in-memory snapshot of the product catalog.
// Every Replace produces a new version; snapshots are never modified in place.
type MemIndex struct {
	mu       sync.RWMutex
	products []*search.Product
	byID     map[string]*search.Product
	version  uint64
}

// NewMemIndex creates a new empty index
func NewMemIndex() *MemIndex {
	return &MemIndex{
		products: []*search.Product{},
		byID:     make(map[string]*search.Product),
	}
}

// Replace swaps in a new catalog and returns its version.
// Nil products and repeated IDs (after the first) are dropped.
func (m *MemIndex) Replace(products []*search.Product) uint64 {
	next := make([]*search.Product, 0, len(products))
	byID := make(map[string]*search.Product, len(products))
	for _, p := range products {
		if p == nil {
			continue
		}
		if _, dup := byID[p.ID]; dup {
			continue
		}
		byID[p.ID] = p
		next = append(next, p)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = next
	m.byID = byID
	m.version++
	return m.version
}

// Snapshot returns the current catalog and its version.
// The returned slice must be treated as read-only.
func (m *MemIndex) Snapshot() ([]*search.Product, uint64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.products, m.version
}

// Get retrieves a product by ID
func (m *MemIndex) Get(id string) (*search.Product, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.byID[id]
	return p, ok
}

// Has checks if a product exists in the index
func (m *MemIndex) Has(id string) bool {
	_, ok := m.Get(id)
	return ok
}

// Count returns the number of products in the index
func (m *MemIndex) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.products)
}

// Version returns the current snapshot version; zero means never loaded.
func (m *MemIndex) Version() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}
