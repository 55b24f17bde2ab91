package db

import (
	"context"
	"fmt"

	"github.com/dsjohal14/mukrindo/internal/scope/search"
)

// Source is where the product catalog is read from.
// Both FileSource (JSONL) and PostgresSource implement this interface
type Source interface {
	// Load returns the full catalog
	Load(ctx context.Context) ([]*search.Product, error)

	// Close releases the source
	Close() error
}

// Ensure both sources implement Source
var _ Source = (*FileSource)(nil)
var _ Source = (*PostgresSource)(nil)

// Reload reads the catalog from src into idx and returns the new version.
// On error the index keeps its previous snapshot.
func Reload(ctx context.Context, src Source, idx *MemIndex) (uint64, error) {
	products, err := src.Load(ctx)
	if err != nil {
		return idx.Version(), fmt.Errorf("failed to load catalog: %w", err)
	}
	return idx.Replace(products), nil
}

// OpenSource picks Postgres when databaseURL is set, the JSONL file otherwise
func OpenSource(ctx context.Context, databaseURL, catalogFile string) (Source, error) {
	if databaseURL != "" {
		src, err := NewPostgresSource(ctx, databaseURL)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	src, err := NewFileSource(catalogFile)
	if err != nil {
		return nil, err
	}
	return src, nil
}
