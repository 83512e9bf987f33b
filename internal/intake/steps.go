package intake

import (
	"regexp"
	"strings"
	"unicode"
)

// Step identifies a node of the claim dialogue.
type Step string

const (
	StepFIO          Step = "fio"
	StepContact      Step = "contact"
	StepSellerSelect Step = "seller_select"
	StepOrderID      Step = "order_id"
	StepDate         Step = "date"
	StepProduct      Step = "product"
	StepDefect       Step = "defect"
	StepDemand       Step = "demand"
	StepAmount       Step = "amount"
)

// Sellers enumerates the vendor choices of the branch step. Keys are the
// callback identifiers, values the display names written into the claim.
var Sellers = map[string]string{
	"ozon":   "Ozon",
	"wb":     "Wildberries",
	"yandex": "Yandex.Market",
}

// node describes one step of the dialogue graph. A nil validate marks the
// decision node, which advances through SelectSeller instead of free text.
type node struct {
	field    string
	prompt   string
	errText  string
	validate func(string) (string, bool)
	next     Step
}

var (
	emailRe  = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w{2,}$`)
	phoneRe  = regexp.MustCompile(`^[+\d][\d\s\-()]{5,}$`)
	dateRe   = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`)
	amountRe = regexp.MustCompile(`^\d+$`)
)

// steps is the dialogue graph. Linear except for the seller decision node;
// the explicit next edges keep future branching a local edit.
var steps = map[Step]node{
	StepFIO: {
		field:    "fio",
		prompt:   "✍️ Давай составим претензию. Введите, пожалуйста, полное ФИО (например: Иванов Иван Иванович):",
		errText:  "❌ Введите корректное ФИО (минимум 3 символа).",
		validate: validateFIO,
		next:     StepContact,
	},
	StepContact: {
		field:    "contact",
		prompt:   "Введите контакт (телефон или e-mail). Пример: +7 912 123-45-67 или user@example.com",
		errText:  "❌ Неверный формат контакта. Укажите корректный телефон или email.",
		validate: validateContact,
		next:     StepSellerSelect,
	},
	StepSellerSelect: {
		field:  "seller",
		prompt: "Выберите магазин:",
		next:   StepOrderID,
	},
	StepOrderID: {
		field:    "order_id",
		prompt:   "Введите номер заказа (или артикул):",
		errText:  "❌ Слишком короткий номер заказа. Попробуйте ещё раз.",
		validate: minLen(2),
		next:     StepDate,
	},
	StepDate: {
		field:    "date",
		prompt:   "Введите дату покупки в формате ДД.MM.ГГГГ (например: 25.10.2025)",
		errText:  "❌ Неверный формат даты. Используйте DD.MM.YYYY",
		validate: match(dateRe),
		next:     StepProduct,
	},
	StepProduct: {
		field:    "product",
		prompt:   "Напишите название товара (коротко):",
		errText:  "Напишите, пожалуйста, название товара.",
		validate: nonEmpty,
		next:     StepDefect,
	},
	StepDefect: {
		field:    "defect",
		prompt:   "Кратко опишите проблему (1–3 предложения):",
		errText:  "Опишите проблему, пожалуйста.",
		validate: nonEmpty,
		next:     StepDemand,
	},
	StepDemand: {
		field:    "demand",
		prompt:   "Что вы требуете? (возврат / обмен / ремонт / компенсация)",
		errText:  "Укажите, пожалуйста, требование.",
		validate: nonEmpty,
		next:     StepAmount,
	},
	StepAmount: {
		field:    "amount",
		prompt:   "Укажите сумму к возврату (только цифры, 0 если нет):",
		errText:  "❌ Сумма должна содержать только цифры (например: 0 или 1500).",
		validate: match(amountRe),
		next:     "",
	},
}

// validateFIO accepts trimmed input of at least three runes and normalizes
// every whitespace-separated token to capitalized form.
func validateFIO(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len([]rune(s)) < 3 {
		return "", false
	}
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " "), true
}

func capitalize(w string) string {
	r := []rune(strings.ToLower(w))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func validateContact(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if emailRe.MatchString(s) || phoneRe.MatchString(s) {
		return s, true
	}
	return "", false
}

func nonEmpty(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}

func minLen(n int) func(string) (string, bool) {
	return func(s string) (string, bool) {
		s = strings.TrimSpace(s)
		return s, len([]rune(s)) >= n
	}
}

func match(re *regexp.Regexp) func(string) (string, bool) {
	return func(s string) (string, bool) {
		s = strings.TrimSpace(s)
		return s, re.MatchString(s)
	}
}
