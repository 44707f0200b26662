package stores

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate store: %v", err)
	}
	return store
}

func testGeneration(workspace string, kind GenerationKind, at time.Time) *Generation {
	return &Generation{
		ID:           uuid.New().String(),
		Workspace:    workspace,
		Kind:         kind,
		OutputDigest: "0f343b0931126a20f133d67c2b018a3b1b9b5e2c1e4e8f4f4f0e6c9a8d7b6a5f",
		DistVersion:  "0.4.0",
		CreatedAt:    at,
	}
}

func TestNewSQLiteStoreRequiresPath(t *testing.T) {
	if _, err := NewSQLiteStore(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestRecordAndLatestGeneration(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	older := testGeneration("/ws", GenerationKindPlan, base)
	newer := testGeneration("/ws", GenerationKindGenerate, base.Add(time.Minute))

	if err := store.RecordGeneration(ctx, older); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.RecordGeneration(ctx, newer); err != nil {
		t.Fatalf("record: %v", err)
	}

	latest, err := store.LatestGeneration(ctx, "/ws")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest == nil {
		t.Fatal("expected a record")
	}
	if latest.ID != newer.ID {
		t.Errorf("latest = %s, want %s", latest.ID, newer.ID)
	}
	if latest.Kind != GenerationKindGenerate {
		t.Errorf("kind = %s", latest.Kind)
	}
	if !latest.CreatedAt.Equal(newer.CreatedAt) {
		t.Errorf("created_at = %s, want %s", latest.CreatedAt, newer.CreatedAt)
	}
}

func TestLatestGenerationEmpty(t *testing.T) {
	store := newTestStore(t)

	latest, err := store.LatestGeneration(context.Background(), "/ws")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest != nil {
		t.Errorf("expected nil for empty history, got %+v", latest)
	}
}

func TestListGenerationsScopedToWorkspace(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		gen := testGeneration("/ws-a", GenerationKindPlan, base.Add(time.Duration(i)*time.Minute))
		if err := store.RecordGeneration(ctx, gen); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	other := testGeneration("/ws-b", GenerationKindGenerate, base)
	if err := store.RecordGeneration(ctx, other); err != nil {
		t.Fatalf("record: %v", err)
	}

	gens, err := store.ListGenerations(ctx, "/ws-a", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(gens) != 3 {
		t.Fatalf("expected 3 records, got %d", len(gens))
	}
	// Newest first.
	for i := 1; i < len(gens); i++ {
		if gens[i].CreatedAt.After(gens[i-1].CreatedAt) {
			t.Errorf("records out of order at %d", i)
		}
	}

	gens, err = store.ListGenerations(ctx, "/ws-a", 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(gens) != 2 {
		t.Errorf("limit not honored: got %d records", len(gens))
	}
}
