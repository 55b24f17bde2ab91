// Package db provides the product catalog sources and the in-memory catalog index.
package db

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/dsjohal14/mukrindo/internal/libs/obs"
	"github.com/dsjohal14/mukrindo/internal/scope/search"
	"github.com/rs/zerolog"
)

// maxLineSize bounds a single JSONL record
const maxLineSize = 4 << 20

// FileSource reads a catalog exported as JSONL, one product per line
type FileSource struct {
	path   string
	logger zerolog.Logger
}

// NewFileSource creates a source for the given JSONL file
func NewFileSource(path string) (*FileSource, error) {
	if path == "" {
		return nil, fmt.Errorf("catalog file path is required")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	return &FileSource{path: path, logger: obs.Logger("file-source")}, nil
}

// Path returns the catalog file path
func (s *FileSource) Path() string {
	return s.path
}

// Load reads every product in the file. Blank lines are skipped, and so are
// lines that do not decode, with a warning. A file with records but none
// decodable is an error so the caller keeps its previous snapshot.
func (s *FileSource) Load(ctx context.Context) ([]*search.Product, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer func() { _ = f.Close() }()

	products := make([]*search.Product, 0)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	line, skipped := 0, 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var p search.Product
		if err := sonic.Unmarshal(raw, &p); err != nil {
			skipped++
			s.logger.Warn().Err(err).Str("path", s.path).Int("line", line).Msg("skipping undecodable product")
			continue
		}
		products = append(products, &p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	if skipped > 0 && len(products) == 0 {
		return nil, fmt.Errorf("no decodable products in %s (%d lines skipped)", s.path, skipped)
	}

	return products, nil
}

// Close is a no-op; the file is opened per Load
func (s *FileSource) Close() error {
	return nil
}

// WriteJSONL writes products as JSONL, replacing path
func WriteJSONL(path string, products []*search.Product) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create catalog file: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := bufio.NewWriter(f)
	for i, p := range products {
		data, err := sonic.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to encode product %d: %w", i, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write product %d: %w", i, err)
		}
	}
	return w.Flush()
}
