package tg

import (
	"strconv"
	"strings"
)

// ActionKind is the closed set of menu actions. Callback data is decoded
// into it exactly once, at the transport boundary; everything downstream
// switches on the enum.
type ActionKind int

const (
	ActionUnknown ActionKind = iota
	ActionDelivery
	ActionReturns
	ActionHowToReturn
	ActionGenerateClaim
	ActionRightsBuyer
	ActionRightsSeller
	ActionFAQ
	ActionContacts
	ActionAskAI
	ActionLegalAI
	ActionAICancel
	ActionMainMenu
	ActionSeller
	ActionExample
	ActionBuyPremium
	ActionSupport
	ActionConsult
)

// Action is a decoded callback. Seller carries the vendor id, Example the
// index into the example-question list.
type Action struct {
	Kind    ActionKind
	Seller  string
	Example int
}

var menuActions = map[string]ActionKind{
	"menu_delivery":       ActionDelivery,
	"menu_returns":        ActionReturns,
	"menu_howtoreturn":    ActionHowToReturn,
	"menu_generate_claim": ActionGenerateClaim,
	"menu_rights_buyer":   ActionRightsBuyer,
	"menu_rights_seller":  ActionRightsSeller,
	"menu_faq":            ActionFAQ,
	"menu_contacts":       ActionContacts,
	"menu_ask_ai":         ActionAskAI,
	"menu_legal_ai":       ActionLegalAI,
	"ai_cancel":           ActionAICancel,
	"menu_main":           ActionMainMenu,
	"menu_buy_premium":    ActionBuyPremium,
	"menu_support":        ActionSupport,
	"menu_consult":        ActionConsult,
}

// DecodeAction maps raw callback data onto the action enum. Anything that
// does not match decodes to ActionUnknown; nothing falls through silently.
func DecodeAction(data string) Action {
	if kind, ok := menuActions[data]; ok {
		return Action{Kind: kind}
	}
	if seller, ok := strings.CutPrefix(data, "seller_"); ok && seller != "" {
		return Action{Kind: ActionSeller, Seller: seller}
	}
	if idx, ok := strings.CutPrefix(data, "example_"); ok {
		if n, err := strconv.Atoi(idx); err == nil && n >= 0 && n < len(exampleQuestions) {
			return Action{Kind: ActionExample, Example: n}
		}
	}
	return Action{Kind: ActionUnknown}
}
