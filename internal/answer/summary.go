package answer

import (
	"fmt"
	"html"
	"strings"
)

const (
	summaryMaxLen     = 800
	minSentenceLength = 40
)

// noResultsText asks the user to refine the query.
const noResultsText = "Я не нашёл релевантной информации. Попробуйте переформулировать вопрос:\n" +
	"- уточнить продавца/маркетплейс\n- указать даты/артикул\n- описать проблему короче и точнее."

// BuildAnswer formats the retrieved snippets into a short summary with a
// numbered source list. Query and titles are escaped before interpolation.
func BuildAnswer(query string, results []Result) string {
	if len(results) == 0 {
		return noResultsText
	}

	var pool strings.Builder
	for _, r := range results {
		pool.WriteString(r.Title)
		pool.WriteString(". ")
		if r.Snippet != "" {
			pool.WriteString(r.Snippet)
			pool.WriteString(" ")
		}
	}

	var kept []string
	total := 0
	for _, s := range sentences(pool.String()) {
		s = strings.TrimSpace(s)
		if len([]rune(s)) <= minSentenceLength {
			continue
		}
		if total+len(s) > summaryMaxLen {
			break
		}
		kept = append(kept, s)
		total += len(s) + 1
	}
	summary := strings.Join(kept, " ")
	if summary == "" {
		summary = results[0].Title
	}
	summary = html.EscapeString(summary)

	out := []string{
		fmt.Sprintf("🤖 *Краткий ответ по запросу:* _%s_\n", html.EscapeString(query)),
		summary,
		"\n*Источники:*",
	}
	for i, r := range results {
		title := html.EscapeString(r.Title)
		if title == "" {
			title = "Источник"
		}
		if r.URL != "" {
			out = append(out, fmt.Sprintf("%d. [%s](%s)", i+1, title, html.EscapeString(r.URL)))
		} else {
			out = append(out, fmt.Sprintf("%d. %s", i+1, title))
		}
	}
	out = append(out, "\nℹ️ Для уточнения добавьте продавца, дату покупки или артикул.")
	return strings.Join(out, "\n\n")
}

// sentences splits text after terminal punctuation followed by whitespace.
func sentences(text string) []string {
	var out []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.', '?', '!':
			if i+1 < len(runes) && (runes[i+1] == ' ' || runes[i+1] == '\n' || runes[i+1] == '\t') {
				out = append(out, string(runes[start:i+1]))
				start = i + 2
				i++
			}
		}
	}
	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	return out
}

// ShortenQuery drops short stop-ish words for the retry pass.
func ShortenQuery(query string) string {
	var kept []string
	for _, w := range strings.Fields(query) {
		if len([]rune(w)) > 2 {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}
