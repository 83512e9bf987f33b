package answer

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeSearcher struct {
	results map[string][]Result
	err     error
	queries []string
}

func (f *fakeSearcher) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.results[query], nil
}

type gate bool

func (g gate) IsActive(ctx context.Context, userID int64) bool { return bool(g) }

func TestWebAnswerSummarizesResults(t *testing.T) {
	fs := &fakeSearcher{results: map[string][]Result{
		"как вернуть товар": {
			{
				Title:   "Возврат товара на маркетплейсе",
				Snippet: "Покупатель вправе вернуть товар надлежащего качества в течение четырнадцати дней с момента покупки.",
				URL:     "https://example.com/returns",
			},
		},
	}}
	svc := NewService(fs, gate(false), 4)

	out, err := svc.WebAnswer(context.Background(), "как вернуть товар")
	if err != nil {
		t.Fatalf("web answer: %v", err)
	}
	if !strings.Contains(out, "четырнадцати дней") {
		t.Fatalf("expected long sentence in summary, got:\n%s", out)
	}
	if !strings.Contains(out, "https://example.com/returns") {
		t.Fatalf("expected source link, got:\n%s", out)
	}
}

func TestWebAnswerRetriesWithShortenedQuery(t *testing.T) {
	fs := &fakeSearcher{results: map[string][]Result{
		"как вернуть товар": {{Title: "Возврат", URL: "https://example.com"}},
	}}
	svc := NewService(fs, gate(false), 4)

	// "ну как вернуть товар" has no direct results; the retry drops "ну".
	out, err := svc.WebAnswer(context.Background(), "ну как вернуть товар")
	if err != nil {
		t.Fatalf("web answer: %v", err)
	}
	if len(fs.queries) != 2 {
		t.Fatalf("expected a retry pass, queries = %v", fs.queries)
	}
	if fs.queries[1] != "как вернуть товар" {
		t.Fatalf("retry query = %q", fs.queries[1])
	}
	if strings.Contains(out, "не нашёл") {
		t.Fatalf("retry results should be used:\n%s", out)
	}
}

func TestWebAnswerNoResultsMessage(t *testing.T) {
	svc := NewService(&fakeSearcher{}, gate(false), 4)
	out, err := svc.WebAnswer(context.Background(), "абракадабра неведомая")
	if err != nil {
		t.Fatalf("web answer: %v", err)
	}
	if !strings.Contains(out, "не нашёл") {
		t.Fatalf("expected refine-your-query message, got:\n%s", out)
	}
}

func TestWebAnswerPropagatesUpstreamError(t *testing.T) {
	svc := NewService(&fakeSearcher{err: errors.New("dial timeout")}, gate(false), 4)
	if _, err := svc.WebAnswer(context.Background(), "вопрос"); err == nil {
		t.Fatalf("expected upstream error to propagate")
	}
}

func TestLegalAnswerKeepsAnalysisOnWebFailure(t *testing.T) {
	svc := NewService(&fakeSearcher{err: errors.New("unreachable")}, gate(false), 4)
	out, err := svc.LegalAnswer(context.Background(), "продавец не принимает возврат")
	if err == nil {
		t.Fatalf("expected web error")
	}
	if !strings.Contains(out, "Ст. 25") {
		t.Fatalf("statute analysis must survive a web failure:\n%s", out)
	}
}

func TestPreambleReflectsPremium(t *testing.T) {
	svc := NewService(&fakeSearcher{}, gate(true), 4)
	if p := svc.Preamble(context.Background(), 1, false); !strings.Contains(p, "Premium") {
		t.Fatalf("premium user should get the premium preamble, got %q", p)
	}

	svc = NewService(&fakeSearcher{}, gate(false), 4)
	if p := svc.Preamble(context.Background(), 1, false); strings.Contains(p, "Premium") {
		t.Fatalf("non-premium user got premium framing: %q", p)
	}
}

func TestFrameTagsPremiumDeliveries(t *testing.T) {
	svc := NewService(&fakeSearcher{}, gate(true), 4)
	out := svc.Frame(context.Background(), 1, "ответ")
	if !strings.HasPrefix(out, "💎") || !strings.Contains(out, "ответ") {
		t.Fatalf("premium delivery should carry the tag, got %q", out)
	}

	svc = NewService(&fakeSearcher{}, gate(false), 4)
	if out := svc.Frame(context.Background(), 1, "ответ"); out != "ответ" {
		t.Fatalf("non-premium delivery must be unchanged, got %q", out)
	}
}

func TestAnalyzeLegalKeywords(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"хочу оформить возврат", "Ст. 25"},
		{"пришёл брак", "Ст. 18"},
		{"доставка задержана", "Ст. 23.1"},
		{"не делают гарантийный ремонт по гарантии", "Ст. 20"},
		{"нужен обмен", "Ст. 24"},
		{"просто вопрос", "Не удалось"},
	}
	for _, tc := range cases {
		got := AnalyzeLegal(tc.in)
		if !strings.Contains(got, tc.want) {
			t.Fatalf("AnalyzeLegal(%q) = %q, want mention of %q", tc.in, got, tc.want)
		}
	}
}

func TestBuildAnswerEscapesQueryAndTitles(t *testing.T) {
	out := BuildAnswer("<script>", []Result{{Title: "<b>Title</b>", URL: "https://e.com"}})
	if strings.Contains(out, "<script>") || strings.Contains(out, "<b>") {
		t.Fatalf("markup must be escaped:\n%s", out)
	}
}
