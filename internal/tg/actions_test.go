package tg

import "testing"

func TestDecodeActionMenuEntries(t *testing.T) {
	cases := []struct {
		data string
		want ActionKind
	}{
		{"menu_delivery", ActionDelivery},
		{"menu_returns", ActionReturns},
		{"menu_howtoreturn", ActionHowToReturn},
		{"menu_generate_claim", ActionGenerateClaim},
		{"menu_rights_buyer", ActionRightsBuyer},
		{"menu_rights_seller", ActionRightsSeller},
		{"menu_faq", ActionFAQ},
		{"menu_contacts", ActionContacts},
		{"menu_ask_ai", ActionAskAI},
		{"menu_legal_ai", ActionLegalAI},
		{"ai_cancel", ActionAICancel},
		{"menu_main", ActionMainMenu},
		{"menu_buy_premium", ActionBuyPremium},
		{"menu_support", ActionSupport},
		{"menu_consult", ActionConsult},
	}
	for _, tc := range cases {
		got := DecodeAction(tc.data)
		if got.Kind != tc.want {
			t.Errorf("DecodeAction(%q).Kind = %d, want %d", tc.data, got.Kind, tc.want)
		}
	}
}

func TestDecodeActionSeller(t *testing.T) {
	a := DecodeAction("seller_wb")
	if a.Kind != ActionSeller || a.Seller != "wb" {
		t.Fatalf("got kind=%d seller=%q, want seller action for wb", a.Kind, a.Seller)
	}
	if DecodeAction("seller_").Kind != ActionUnknown {
		t.Fatal("empty seller id should decode to unknown")
	}
}

func TestDecodeActionExample(t *testing.T) {
	a := DecodeAction("example_2")
	if a.Kind != ActionExample || a.Example != 2 {
		t.Fatalf("got kind=%d example=%d, want example 2", a.Kind, a.Example)
	}
	for _, data := range []string{"example_-1", "example_99", "example_x"} {
		if DecodeAction(data).Kind != ActionUnknown {
			t.Errorf("DecodeAction(%q) should be unknown", data)
		}
	}
}

func TestDecodeActionUnknown(t *testing.T) {
	for _, data := range []string{"", "bogus", "menu_", "MENU_DELIVERY"} {
		if DecodeAction(data).Kind != ActionUnknown {
			t.Errorf("DecodeAction(%q) should be unknown", data)
		}
	}
}

func TestMenusMatchDecoder(t *testing.T) {
	// every button in every keyboard must decode to a known action
	check := func(name, data string) {
		t.Helper()
		if DecodeAction(data).Kind == ActionUnknown {
			t.Errorf("%s button %q decodes to unknown action", name, data)
		}
	}
	for _, row := range mainMenu().InlineKeyboard {
		for _, btn := range row {
			check("mainMenu", *btn.CallbackData)
		}
	}
	for _, row := range sellerMenu().InlineKeyboard {
		for _, btn := range row {
			check("sellerMenu", *btn.CallbackData)
		}
	}
	for _, row := range exampleMenu().InlineKeyboard {
		for _, btn := range row {
			check("exampleMenu", *btn.CallbackData)
		}
	}
}
