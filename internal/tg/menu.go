package tg

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func mainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📦 Сроки доставки", "menu_delivery"),
			tgbotapi.NewInlineKeyboardButtonData("🔁 Возврат и обмен", "menu_returns"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🛒 Как вернуть товар", "menu_howtoreturn"),
			tgbotapi.NewInlineKeyboardButtonData("✍️ Автогенератор претензии", "menu_generate_claim"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⚖️ Права покупателя", "menu_rights_buyer"),
			tgbotapi.NewInlineKeyboardButtonData("🏷️ Права продавца", "menu_rights_seller"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🤖 Задать вопрос (ИИ)", "menu_ask_ai"),
			tgbotapi.NewInlineKeyboardButtonData("📚 Юридический анализ", "menu_legal_ai"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❓ FAQ", "menu_faq"),
			tgbotapi.NewInlineKeyboardButtonData("☎️ Контакты", "menu_contacts"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💎 Premium — 299 ₽", "menu_buy_premium"),
			tgbotapi.NewInlineKeyboardButtonData("☕ Поддержать проект — 100 ₽", "menu_support"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💼 Консультация — 999 ₽", "menu_consult"),
		),
	)
}

func sellerMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Ozon", "seller_ozon"),
			tgbotapi.NewInlineKeyboardButtonData("Wildberries", "seller_wb"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Yandex.Market", "seller_yandex"),
		),
	)
}

func exampleMenu() tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(exampleQuestions)+1)
	for i, q := range exampleQuestions {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(q, fmt.Sprintf("example_%d", i)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Отменить", "ai_cancel"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
