package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) Repository {
	t.Helper()

	repo, err := NewSQLite(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("Close failed: %v", err)
		}
	})
	return repo
}

func TestNewSQLiteIdempotentSchema(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sessions.db")

	repo, err := NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("first NewSQLite failed: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Opening again over an existing file must not fail.
	repo, err = NewSQLite(dbPath)
	if err != nil {
		t.Fatalf("second NewSQLite failed: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

func TestSessionActiveUnknown(t *testing.T) {
	repo := newTestStore(t)

	active, err := repo.SessionActive(context.Background(), "missing")
	if err != nil {
		t.Fatalf("SessionActive failed: %v", err)
	}
	if active {
		t.Error("Expected unknown session to be inactive")
	}
}

func TestUpsertSessionIdempotent(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	if err := repo.UpsertSession(ctx, "s1", "opschat_user", "multi_tool_agent"); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	first, err := repo.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if first == nil {
		t.Fatal("Expected session row after upsert")
	}

	// Second upsert must refresh, not duplicate.
	time.Sleep(1100 * time.Millisecond)
	if err := repo.UpsertSession(ctx, "s1", "opschat_user", "multi_tool_agent"); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	second, err := repo.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("created_at changed on upsert: %v -> %v", first.CreatedAt, second.CreatedAt)
	}
	if !second.LastUsedAt.After(first.LastUsedAt) {
		t.Errorf("last_used_at not refreshed: %v -> %v", first.LastUsedAt, second.LastUsedAt)
	}
	if !second.IsActive {
		t.Error("Expected session to be active after upsert")
	}
}

func TestDeactivateAndReactivate(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	if err := repo.UpsertSession(ctx, "s2", "opschat_user", "multi_tool_agent"); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	if err := repo.DeactivateSession(ctx, "s2"); err != nil {
		t.Fatalf("DeactivateSession failed: %v", err)
	}

	active, err := repo.SessionActive(ctx, "s2")
	if err != nil {
		t.Fatalf("SessionActive failed: %v", err)
	}
	if active {
		t.Error("Expected session to be inactive after deactivate")
	}

	// Row is logically deleted, not removed.
	row, err := repo.GetSession(ctx, "s2")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if row == nil {
		t.Fatal("Expected deactivated row to still exist")
	}

	// Upsert reactivates the same row.
	if err := repo.UpsertSession(ctx, "s2", "opschat_user", "multi_tool_agent"); err != nil {
		t.Fatalf("reactivating upsert failed: %v", err)
	}

	active, err = repo.SessionActive(ctx, "s2")
	if err != nil {
		t.Fatalf("SessionActive failed: %v", err)
	}
	if !active {
		t.Error("Expected session to be active after reactivating upsert")
	}
}

func TestDeactivateUnknownSessionIsNoop(t *testing.T) {
	repo := newTestStore(t)

	if err := repo.DeactivateSession(context.Background(), "never-seen"); err != nil {
		t.Errorf("Expected no-op success for unknown session, got %v", err)
	}
}
