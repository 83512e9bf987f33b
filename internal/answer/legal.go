package answer

import (
	"fmt"
	"strings"
)

type legalRule struct {
	keyword string
	title   string
	article string
	desc    string
}

// legalRules map complaint keywords to the applicable consumer-protection
// statute. First match wins, so broader keywords come first.
var legalRules = []legalRule{
	{"возврат", "Возврат товара", "Ст. 25 Закона РФ «О защите прав потребителей»",
		"Можно вернуть товар надлежащего качества в течение 14 дней, если он не подошёл по форме, габаритам, фасону и т.п."},
	{"брак", "Ненадлежащее качество (брак)", "Ст. 18 Закона РФ «О защите прав потребителей»",
		"Покупатель вправе требовать замены, ремонта, возврата денег или снижения цены."},
	{"доставка", "Нарушение сроков доставки", "Ст. 23.1 Закона РФ «О защите прав потребителей»",
		"При нарушении сроков можно требовать неустойку, компенсацию и/или расторжение договора."},
	{"гарантия", "Гарантийный ремонт", "Ст. 20 Закона РФ «О защите прав потребителей»",
		"Гарантийный ремонт должен быть выполнен в разумный срок (не более установленного законом)."},
	{"обмен", "Обмен товара", "Ст. 24 Закона РФ «О защите прав потребителей»",
		"При обнаружении брака продавец обязан обменять товар либо вернуть деньги."},
}

// AnalyzeLegal matches the described problem against the keyword rules.
func AnalyzeLegal(text string) string {
	t := strings.ToLower(text)
	for _, r := range legalRules {
		if strings.Contains(t, r.keyword) {
			return fmt.Sprintf("*%s*\n%s\n\n%s", r.title, r.article, r.desc)
		}
	}
	return "⚖️ Не удалось однозначно определить применимую норму.\n" +
		"Опиши ситуацию подробнее, и я попробую точнее подсказать."
}

// LooksLegal reports whether a question should get the statute analysis in
// addition to the web answer.
func LooksLegal(text string) bool {
	t := strings.ToLower(text)
	for _, k := range []string{"закон", "статья", "возврат", "брак", "гарантия", "обмен", "нарушение"} {
		if strings.Contains(t, k) {
			return true
		}
	}
	return false
}
