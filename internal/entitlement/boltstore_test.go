package entitlement

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/marketsafe/bot/internal/audit"
)

func newTestBoltStore(t *testing.T) *BoltStore {
	t.Helper()
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBoltPutOverwrites(t *testing.T) {
	s := newTestBoltStore(t)
	ctx := context.Background()

	first := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
	if err := s.Put(ctx, &Record{UserID: 42, ExpiresAt: first}); err != nil {
		t.Fatalf("put: %v", err)
	}

	second := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
	if err := s.Put(ctx, &Record{UserID: 42, ExpiresAt: second}); err != nil {
		t.Fatalf("second put: %v", err)
	}

	rec, err := s.Get(ctx, 42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !rec.ExpiresAt.Equal(second) {
		t.Fatalf("expected overwrite to %s, got %s", second, rec.ExpiresAt)
	}
}

func TestBoltGetAbsent(t *testing.T) {
	s := newTestBoltStore(t)
	if _, err := s.Get(context.Background(), 1); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBoltDistinctUsersDoNotInterfere(t *testing.T) {
	s := newTestBoltStore(t)
	ctx := context.Background()

	ledger := NewLedger(s, audit.Nop{})
	if err := ledger.Grant(ctx, 100, time.Hour); err != nil {
		t.Fatalf("grant 100: %v", err)
	}
	if err := ledger.Grant(ctx, 200, time.Hour); err != nil {
		t.Fatalf("grant 200: %v", err)
	}

	if !ledger.IsActive(ctx, 100) || !ledger.IsActive(ctx, 200) {
		t.Fatalf("both users should be active")
	}
	if ledger.IsActive(ctx, 300) {
		t.Fatalf("user 300 was never granted")
	}
}
