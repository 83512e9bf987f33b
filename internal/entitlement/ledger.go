package entitlement

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/marketsafe/bot/internal/audit"
)

// PremiumDuration is the standard premium grant length.
const PremiumDuration = 30 * 24 * time.Hour

// Ledger applies payment outcomes to the store and derives current status.
type Ledger struct {
	store Store
	audit audit.Logger
	now   func() time.Time
}

func NewLedger(store Store, auditLog audit.Logger) *Ledger {
	return &Ledger{store: store, audit: auditLog, now: time.Now}
}

// WithClock substitutes the time source. Used in tests.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// Grant resets the user's expiry to now+duration. A repeated grant replaces,
// never extends, the previous expiry. Every call produces its own audit line,
// even for a duplicated payment confirmation.
func (l *Ledger) Grant(ctx context.Context, userID int64, duration time.Duration) error {
	expires := l.now().UTC().Add(duration)
	rec := &Record{UserID: userID, ExpiresAt: expires}
	if err := l.store.Put(ctx, rec); err != nil {
		return err
	}
	log.Printf("user %d granted premium until %s", userID, expires.Format(time.RFC3339))
	l.audit.Event("GRANT_PREMIUM | user=%d | until=%s", userID, expires.Format(time.RFC3339))
	return nil
}

// IsActive reports whether the user currently holds a live entitlement.
// A missing record, a failed read or a corrupt timestamp all read as inactive.
func (l *Ledger) IsActive(ctx context.Context, userID int64) bool {
	rec, err := l.store.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("entitlement read failed for user %d: %v", userID, err)
		}
		return false
	}
	if rec.ExpiresAt.IsZero() {
		return false
	}
	return l.now().UTC().Before(rec.ExpiresAt)
}

// ExpiresAt returns the stored expiry, if any.
func (l *Ledger) ExpiresAt(ctx context.Context, userID int64) (time.Time, bool) {
	rec, err := l.store.Get(ctx, userID)
	if err != nil {
		return time.Time{}, false
	}
	return rec.ExpiresAt, true
}

// RecordConsult marks a paid consultation for human follow-up. No
// entitlement-store state changes; the audit line is the whole record.
func (l *Ledger) RecordConsult(userID int64) {
	l.audit.Event("CONSULT_PAID | user=%d", userID)
}
