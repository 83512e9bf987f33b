package payment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/marketsafe/bot/internal/audit"
	"github.com/marketsafe/bot/internal/entitlement"
)

type memStore struct {
	recs map[int64]*entitlement.Record
}

func newMemStore() *memStore {
	return &memStore{recs: make(map[int64]*entitlement.Record)}
}

func (m *memStore) Get(ctx context.Context, userID int64) (*entitlement.Record, error) {
	rec, ok := m.recs[userID]
	if !ok {
		return nil, entitlement.ErrNotFound
	}
	return rec, nil
}

func (m *memStore) Put(ctx context.Context, rec *entitlement.Record) error {
	m.recs[rec.UserID] = rec
	return nil
}

type failingStore struct{ memStore }

func (f *failingStore) Put(ctx context.Context, rec *entitlement.Record) error {
	return errors.New("disk full")
}

type recordingAudit struct {
	lines []string
}

func (r *recordingAudit) Event(format string, args ...any) {
	r.lines = append(r.lines, format)
}

func TestPremiumTokenGrantsBeneficiary(t *testing.T) {
	store := newMemStore()
	ledger := entitlement.NewLedger(store, audit.Nop{})
	a := NewAdapter(ledger, audit.Nop{})

	ack := a.Apply(context.Background(), Event{
		PayerID:          1,
		CorrelationToken: "premium:555",
		Amount:           29900,
		Currency:         "RUB",
	})
	if !strings.Contains(ack, "Premium") {
		t.Fatalf("expected premium confirmation, got %q", ack)
	}

	rec, ok := store.recs[555]
	if !ok {
		t.Fatalf("expected grant for beneficiary 555, not the payer")
	}
	left := time.Until(rec.ExpiresAt)
	if left < 29*24*time.Hour || left > 31*24*time.Hour {
		t.Fatalf("expected ~30 day grant, got %s", left)
	}
	if _, ok := store.recs[1]; ok {
		t.Fatalf("payer must not be granted when the token names a beneficiary")
	}
}

func TestMalformedTokenFallsBackToPayer(t *testing.T) {
	cases := []string{"", "premium", "premium:", "premium:abc", ":555"}
	for _, token := range cases {
		intent := ParseIntent(token, 42)
		if intent.Beneficiary != 42 {
			t.Fatalf("token %q: beneficiary = %d, want payer 42", token, intent.Beneficiary)
		}
	}
}

func TestMalformedTokenStillAcknowledged(t *testing.T) {
	ledger := entitlement.NewLedger(newMemStore(), audit.Nop{})
	a := NewAdapter(ledger, audit.Nop{})

	ack := a.Apply(context.Background(), Event{PayerID: 42, CorrelationToken: "???"})
	if ack == "" {
		t.Fatalf("a payment must never be silently swallowed")
	}
}

func TestSupportChangesNoState(t *testing.T) {
	store := newMemStore()
	ledger := entitlement.NewLedger(store, audit.Nop{})
	a := NewAdapter(ledger, audit.Nop{})

	ack := a.Apply(context.Background(), Event{PayerID: 7, CorrelationToken: "support:7"})
	if !strings.Contains(ack, "Спасибо") {
		t.Fatalf("expected thank-you, got %q", ack)
	}
	if len(store.recs) != 0 {
		t.Fatalf("support payment must not touch the entitlement store")
	}
}

func TestConsultAuditsWithoutStoreChange(t *testing.T) {
	store := newMemStore()
	rec := &recordingAudit{}
	ledger := entitlement.NewLedger(store, rec)
	a := NewAdapter(ledger, audit.Nop{})

	ack := a.Apply(context.Background(), Event{PayerID: 8, CorrelationToken: "consult:8"})
	if !strings.Contains(ack, "консультацию") {
		t.Fatalf("expected consult confirmation, got %q", ack)
	}
	if len(store.recs) != 0 {
		t.Fatalf("consult must not touch the entitlement store")
	}
	found := false
	for _, l := range rec.lines {
		if strings.Contains(l, "CONSULT_PAID") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected CONSULT_PAID audit line, got %v", rec.lines)
	}
}

func TestUnknownKindGenericAck(t *testing.T) {
	store := newMemStore()
	ledger := entitlement.NewLedger(store, audit.Nop{})
	a := NewAdapter(ledger, audit.Nop{})

	ack := a.Apply(context.Background(), Event{PayerID: 9, CorrelationToken: "mystery:9"})
	if !strings.Contains(ack, "Оплата получена") {
		t.Fatalf("expected generic acknowledgment, got %q", ack)
	}
	if len(store.recs) != 0 {
		t.Fatalf("unknown kind must not grant anything")
	}
}

func TestStorageFailureIsAcknowledgedWithWarning(t *testing.T) {
	ledger := entitlement.NewLedger(&failingStore{*newMemStore()}, audit.Nop{})
	a := NewAdapter(ledger, audit.Nop{})

	ack := a.Apply(context.Background(), Event{PayerID: 3, CorrelationToken: "premium:3"})
	if !strings.Contains(ack, "⚠️") {
		t.Fatalf("a lost grant must be surfaced, got %q", ack)
	}
}
