// Package payment turns provider confirmations into entitlement changes.
package payment

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/marketsafe/bot/internal/audit"
	"github.com/marketsafe/bot/internal/entitlement"
)

// Entitlement kinds carried in the correlation token.
const (
	KindPremium = "premium"
	KindSupport = "support"
	KindConsult = "consult"
)

// Event is one successful payment confirmation. Amount and currency are
// informational; only the correlation token drives control flow.
type Event struct {
	PayerID           int64
	CorrelationToken  string
	Amount            int64
	Currency          string
	ProviderReference string
}

// Intent is the structured meaning of a correlation token.
type Intent struct {
	Kind        string
	Beneficiary int64
}

// ParseIntent splits the token on the first colon. A missing or malformed
// token, or a beneficiary that does not parse, falls back to the payer —
// the payment is honored rather than rejected.
func ParseIntent(token string, payerID int64) Intent {
	kind, rest, found := strings.Cut(token, ":")
	if !found || kind == "" {
		return Intent{Kind: kind, Beneficiary: payerID}
	}
	uid, err := strconv.ParseInt(strings.TrimSpace(rest), 10, 64)
	if err != nil || uid <= 0 {
		return Intent{Kind: kind, Beneficiary: payerID}
	}
	return Intent{Kind: kind, Beneficiary: uid}
}

// Adapter applies confirmed payments to the ledger. Each confirmation is
// consumed exactly once by the dispatcher and never retained.
type Adapter struct {
	ledger *entitlement.Ledger
	audit  audit.Logger
}

func NewAdapter(ledger *entitlement.Ledger, auditLog audit.Logger) *Adapter {
	return &Adapter{ledger: ledger, audit: auditLog}
}

// Apply dispatches one confirmation and returns the user-visible
// acknowledgment. Every path acknowledges; a payment is never silently
// swallowed, including the fallback and unrecognized-kind cases.
func (a *Adapter) Apply(ctx context.Context, ev Event) string {
	a.audit.Event("SUCCESS_PAYMENT | user=%d | payload=%s | provider_ref=%s | total=%d %s",
		ev.PayerID, ev.CorrelationToken, ev.ProviderReference, ev.Amount, ev.Currency)

	intent := ParseIntent(ev.CorrelationToken, ev.PayerID)

	switch intent.Kind {
	case KindPremium:
		if err := a.ledger.Grant(ctx, intent.Beneficiary, entitlement.PremiumDuration); err != nil {
			log.Printf("premium grant failed for user %d: %v", intent.Beneficiary, err)
			return "⚠️ Оплата зарегистрирована, но произошла внутренняя ошибка — свяжитесь с поддержкой."
		}
		return "✅ Оплата подтверждена. Вам выдан Premium на 30 дней. Спасибо за поддержку!"

	case KindSupport:
		return "☕ Спасибо за поддержку проекта! Ваш вклад очень важен."

	case KindConsult:
		a.ledger.RecordConsult(intent.Beneficiary)
		return "✅ Оплата за консультацию получена. С вами свяжется наш специалист."

	default:
		log.Printf("unrecognized entitlement kind %q in payment from user %d", intent.Kind, ev.PayerID)
		return "✅ Оплата получена. Спасибо!"
	}
}
