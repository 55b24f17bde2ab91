package db

import (
	"context"
	"os"
	"testing"
)

func TestNewPostgresSourceInvalidConnection(t *testing.T) {
	ctx := context.Background()

	// Test with invalid connection string
	_, err := NewPostgresSource(ctx, "invalid://connection")
	if err == nil {
		t.Error("expected error with invalid connection string, got nil")
	}
}

func TestPostgresSourceLoad(t *testing.T) {
	connString := os.Getenv("DATABASE_URL")
	if connString == "" {
		t.Skip("requires DATABASE_URL")
	}

	ctx := context.Background()
	src, err := NewPostgresSource(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer func() { _ = src.Close() }()

	idx := NewMemIndex()
	version, err := Reload(ctx, src, idx)
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if version != 1 {
		t.Errorf("expected version 1, got %d", version)
	}
}
