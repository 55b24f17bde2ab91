package db

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dsjohal14/mukrindo/internal/scope/search"
)

const sampleJSONL = `{"_id":"a1","carName":"Toyota Avanza G","brand":"Toyota","model":"Avanza","variant":"G","type":"MPV","transmission":"Manual","fuelType":"Bensin","price":140000000,"yearOfAssembly":2020,"createdAt":"2024-01-01T00:00:00Z"}

{"_id":"b2","carName":"Honda Brio","brand":"Honda","model":"Brio","year":2019,"createdAt":"2024-06-01T00:00:00Z"}
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.jsonl")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write catalog: %v", err)
	}
	return path
}

func TestNewFileSource(t *testing.T) {
	if _, err := NewFileSource(""); err == nil {
		t.Error("expected error for empty path")
	}
	if _, err := NewFileSource(filepath.Join(t.TempDir(), "missing.jsonl")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFileSourceLoad(t *testing.T) {
	src, err := NewFileSource(writeCatalog(t, sampleJSONL))
	if err != nil {
		t.Fatalf("NewFileSource failed: %v", err)
	}
	defer func() { _ = src.Close() }()

	products, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}

	avanza := products[0]
	if avanza.ID != "a1" || avanza.Brand != "Toyota" {
		t.Errorf("unexpected first product: %+v", avanza)
	}
	if price, ok := avanza.PriceValue(); !ok || price != 140_000_000 {
		t.Errorf("expected price 140000000, got %d (present=%v)", price, ok)
	}
	if !avanza.CreatedAt.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected createdAt %v", avanza.CreatedAt)
	}

	brio := products[1]
	if _, ok := brio.PriceValue(); ok {
		t.Error("expected brio to have no price")
	}
	if brio.Year() != 2019 {
		t.Errorf("expected legacy year 2019, got %d", brio.Year())
	}
}

func TestFileSourceSkipsMalformedLines(t *testing.T) {
	src, err := NewFileSource(writeCatalog(t, "{\"_id\":\"ok\"}\nnot json\n{\"_id\":\"bad\",\"brand\":42}\n{\"_id\":\"ok2\"}\n"))
	if err != nil {
		t.Fatalf("NewFileSource failed: %v", err)
	}

	products, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(products) != 2 || products[0].ID != "ok" || products[1].ID != "ok2" {
		t.Errorf("expected products ok and ok2, got %d products", len(products))
	}
}

func TestFileSourceAllLinesMalformed(t *testing.T) {
	src, err := NewFileSource(writeCatalog(t, "not json\n[1,2]\n"))
	if err != nil {
		t.Fatalf("NewFileSource failed: %v", err)
	}

	if _, err := src.Load(context.Background()); err == nil {
		t.Error("expected error when no line decodes")
	}
}

func TestFileSourceLenientRecords(t *testing.T) {
	content := `{"_id":"d","brand":"Daihatsu","createdAt":"2024-01-01"}
{"_id":"e","brand":"Suzuki","price":1.4e8,"createdAt":"2024-02-01T00:00:00.000Z"}
`
	src, err := NewFileSource(writeCatalog(t, content))
	if err != nil {
		t.Fatalf("NewFileSource failed: %v", err)
	}

	products, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if !products[0].CreatedAt.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("expected date-only createdAt to parse, got %v", products[0].CreatedAt)
	}
	if price, ok := products[1].PriceValue(); !ok || price != 140_000_000 {
		t.Errorf("expected price 140000000, got %d (present=%v)", price, ok)
	}
}

func TestFileSourceCancelled(t *testing.T) {
	src, err := NewFileSource(writeCatalog(t, sampleJSONL))
	if err != nil {
		t.Fatalf("NewFileSource failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestWriteJSONLThenReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.jsonl")
	products := []*search.Product{
		{ID: "x", Brand: "Suzuki", Model: "Ertiga", Price: search.PriceOf(180_000_000)},
		{ID: "y", Brand: "Daihatsu", Model: "Xenia"},
	}
	if err := WriteJSONL(path, products); err != nil {
		t.Fatalf("WriteJSONL failed: %v", err)
	}

	src, err := NewFileSource(path)
	if err != nil {
		t.Fatalf("NewFileSource failed: %v", err)
	}
	idx := NewMemIndex()
	version, err := Reload(context.Background(), src, idx)
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if version != 1 || idx.Count() != 2 {
		t.Errorf("expected version 1 with 2 products, got version %d with %d", version, idx.Count())
	}
	if p, ok := idx.Get("y"); !ok || p.Price != nil {
		t.Errorf("expected unpriced product y, got %+v", p)
	}
}

type failingSource struct{}

func (failingSource) Load(context.Context) ([]*search.Product, error) {
	return nil, errors.New("boom")
}

func (failingSource) Close() error { return nil }

func TestReloadKeepsSnapshotOnError(t *testing.T) {
	idx := NewMemIndex()
	idx.Replace([]*search.Product{{ID: "keep"}})

	version, err := Reload(context.Background(), failingSource{}, idx)
	if err == nil {
		t.Fatal("expected error")
	}
	if version != 1 {
		t.Errorf("expected version to stay 1, got %d", version)
	}
	if !idx.Has("keep") {
		t.Error("expected previous snapshot to survive")
	}
}

func TestOpenSource(t *testing.T) {
	path := writeCatalog(t, sampleJSONL)

	src, err := OpenSource(context.Background(), "", path)
	if err != nil {
		t.Fatalf("OpenSource failed: %v", err)
	}
	if fs, ok := src.(*FileSource); !ok || fs.Path() != path {
		t.Errorf("expected file source for %s, got %T", path, src)
	}

	if _, err := OpenSource(context.Background(), "", ""); err == nil {
		t.Error("expected error without database URL or catalog file")
	}
}
