package entitlement

import (
	"context"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/marketsafe/bot/internal/audit"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestGrantActivatesImmediately(t *testing.T) {
	store := NewGormStore(openTestDB(t))
	ledger := NewLedger(store, audit.Nop{})

	ctx := context.Background()
	if ledger.IsActive(ctx, 555) {
		t.Fatalf("expected user 555 inactive before grant")
	}

	if err := ledger.Grant(ctx, 555, PremiumDuration); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if !ledger.IsActive(ctx, 555) {
		t.Fatalf("expected user 555 active after grant")
	}

	rec, err := store.Get(ctx, 555)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	left := time.Until(rec.ExpiresAt)
	if left < PremiumDuration-time.Minute || left > PremiumDuration+time.Minute {
		t.Fatalf("expected ~30 day expiry, got %s", left)
	}
}

func TestExpiryIsEvaluatedAtReadTime(t *testing.T) {
	store := NewGormStore(openTestDB(t))
	ledger := NewLedger(store, audit.Nop{})

	ctx := context.Background()
	if err := ledger.Grant(ctx, 1, 24*time.Hour); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if !ledger.IsActive(ctx, 1) {
		t.Fatalf("expected active right after grant")
	}

	// Same record, clock moved past the expiry.
	ledger.WithClock(func() time.Time { return time.Now().Add(25 * time.Hour) })
	if ledger.IsActive(ctx, 1) {
		t.Fatalf("expected inactive once the clock passes expires_at")
	}
}

func TestRegrantResetsNotExtends(t *testing.T) {
	store := NewGormStore(openTestDB(t))
	ledger := NewLedger(store, audit.Nop{})

	ctx := context.Background()
	if err := ledger.Grant(ctx, 7, 30*24*time.Hour); err != nil {
		t.Fatalf("first grant: %v", err)
	}
	secondStart := time.Now()
	if err := ledger.Grant(ctx, 7, 24*time.Hour); err != nil {
		t.Fatalf("second grant: %v", err)
	}

	rec, err := store.Get(ctx, 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := secondStart.Add(24 * time.Hour)
	if diff := rec.ExpiresAt.Sub(want); diff < -time.Minute || diff > time.Minute {
		t.Fatalf("expected expiry = second grant time + D2, got %s (off by %s)", rec.ExpiresAt, diff)
	}
}

func TestMissingRecordReadsInactive(t *testing.T) {
	store := NewGormStore(openTestDB(t))
	ledger := NewLedger(store, audit.Nop{})

	if ledger.IsActive(context.Background(), 404) {
		t.Fatalf("absent record must read as never active")
	}
}

func TestZeroExpiryReadsInactive(t *testing.T) {
	db := openTestDB(t)
	store := NewGormStore(db)
	ledger := NewLedger(store, audit.Nop{})

	// A record with a zero timestamp stands in for a corrupt stored value.
	if err := db.Create(&Record{UserID: 9}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	if ledger.IsActive(context.Background(), 9) {
		t.Fatalf("corrupt expiry must fail safe to inactive")
	}
}

func TestGetAbsentReturnsErrNotFound(t *testing.T) {
	store := NewGormStore(openTestDB(t))
	if _, err := store.Get(context.Background(), 12345); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
