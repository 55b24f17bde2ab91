// Package history keeps each visitor's recently viewed listings.
package history

import (
	"context"
	"errors"
	"sync"

	"github.com/dsjohal14/mukrindo/internal/scope/search"
)

// DefaultMaxItems is how many listings a history keeps.
const DefaultMaxItems = 10

// ErrMissingSession is returned when no session is given.
var ErrMissingSession = errors.New("session is required")

// Repository stores recently viewed listings per session, most recent first.
type Repository interface {
	// Get returns the session history; unknown sessions have an empty history
	Get(ctx context.Context, session string) ([]search.ViewedItem, error)

	// Append moves item to the front, dropping an older entry with the same ID
	// and truncating the history to its maximum length
	Append(ctx context.Context, session string, item search.ViewedItem) error
}

// Ensure both repositories implement Repository
var _ Repository = (*MemoryRepository)(nil)
var _ Repository = (*RedisRepository)(nil)

// prepend returns a new history with item in front.
func prepend(history []search.ViewedItem, item search.ViewedItem, limit int) []search.ViewedItem {
	out := make([]search.ViewedItem, 0, min(len(history)+1, limit))
	out = append(out, item)
	for _, v := range history {
		if len(out) >= limit {
			break
		}
		if v.ID == item.ID {
			continue
		}
		out = append(out, v)
	}
	return out
}

// MemoryRepository is an in-process Repository, used in tests and
// when no Redis is configured.
type MemoryRepository struct {
	mu       sync.RWMutex
	limit    int
	sessions map[string][]search.ViewedItem
}

// NewMemoryRepository creates an empty repository keeping limit items per session.
func NewMemoryRepository(limit int) *MemoryRepository {
	if limit <= 0 {
		limit = DefaultMaxItems
	}
	return &MemoryRepository{
		limit:    limit,
		sessions: make(map[string][]search.ViewedItem),
	}
}

// Get returns a copy of the session history
func (m *MemoryRepository) Get(_ context.Context, session string) ([]search.ViewedItem, error) {
	if session == "" {
		return nil, ErrMissingSession
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := m.sessions[session]
	out := make([]search.ViewedItem, len(items))
	copy(out, items)
	return out, nil
}

// Append records a view
func (m *MemoryRepository) Append(_ context.Context, session string, item search.ViewedItem) error {
	if session == "" {
		return ErrMissingSession
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session] = prepend(m.sessions[session], item, m.limit)
	return nil
}
