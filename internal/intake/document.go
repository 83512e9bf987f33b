package intake

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// RenderClaim materializes the complaint document from the collected fields.
// Every interpolated value is HTML-escaped so user input cannot inject markup
// into the rendered message.
func RenderClaim(fields map[string]string, now time.Time) string {
	get := func(key, fallback string) string {
		v, ok := fields[key]
		if !ok || v == "" {
			v = fallback
		}
		return html.EscapeString(v)
	}

	var b strings.Builder
	b.WriteString("📄 *Претензия продавцу*\n\n")
	fmt.Fprintf(&b, "*Кому:* %s\n", get("seller", "Продавец"))
	fmt.Fprintf(&b, "*От:* %s (%s)\n", get("fio", ""), get("contact", ""))
	fmt.Fprintf(&b, "*Заказ №:* %s от %s\n\n", get("order_id", ""), get("date", ""))
	fmt.Fprintf(&b, "*Товар:* %s\n", get("product", ""))
	fmt.Fprintf(&b, "*Описание проблемы:* %s\n", get("defect", ""))
	fmt.Fprintf(&b, "*Требование:* %s\n", get("demand", ""))
	fmt.Fprintf(&b, "*Сумма к возврату:* %s руб.\n\n", get("amount", ""))
	fmt.Fprintf(&b, "Дата составления: %s\n\n", now.Format("02.01.2006"))
	b.WriteString("Прошу удовлетворить требования в соответствии с законом о защите прав потребителей.")
	return b.String()
}
