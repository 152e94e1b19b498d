package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestSQLiteStoreContract(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "mendel.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	exerciseStore(t, store)
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "mendel.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := store.SaveGenome(ctx, sampleGenome("g1", "pea", fixedTime)); err != nil {
		t.Fatalf("save genome: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened := NewSQLiteStore(dbPath)
	if err := reopened.Init(ctx); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() {
		_ = reopened.Close()
	})
	genome, ok, err := reopened.GetGenome(ctx, "g1")
	if err != nil {
		t.Fatalf("get genome: %v", err)
	}
	if !ok || genome.ID != "g1" {
		t.Fatalf("expected persisted genome, got ok=%v %+v", ok, genome)
	}
}

func TestSQLiteStoreRequiresInit(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "mendel.db"))
	if _, _, err := store.GetGenome(context.Background(), "g1"); err == nil {
		t.Fatal("expected error before init")
	}
}
