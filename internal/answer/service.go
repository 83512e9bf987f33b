package answer

import (
	"context"
)

// ActiveChecker is the feature gate read: is this user premium right now.
type ActiveChecker interface {
	IsActive(ctx context.Context, userID int64) bool
}

// Service produces answers from web search results. The premium gate only
// decides the preamble framing; answer production is identical for everyone.
type Service struct {
	searcher Searcher
	gate     ActiveChecker
	limit    int
}

func NewService(searcher Searcher, gate ActiveChecker, limit int) *Service {
	if limit <= 0 || limit > 10 {
		limit = 4
	}
	return &Service{searcher: searcher, gate: gate, limit: limit}
}

// Preamble is shown while the search runs.
func (s *Service) Preamble(ctx context.Context, userID int64, legal bool) string {
	premium := s.gate.IsActive(ctx, userID)
	switch {
	case legal && premium:
		return "⚖️ (Premium) Анализирую юридическую сторону... ⏳"
	case legal:
		return "⚖️ Анализирую юридическую сторону... ⏳"
	case premium:
		return "🔎 (Premium) Ищу информацию с приоритетом..."
	default:
		return "🔎 Ищу информацию... (это может занять несколько секунд)"
	}
}

// WebAnswer searches and summarizes. An empty first pass is retried with a
// stop-word-shortened query before giving up; an upstream failure is
// propagated for the caller to turn into an apology.
func (s *Service) WebAnswer(ctx context.Context, query string) (string, error) {
	results, err := s.searcher.Search(ctx, query, s.limit)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		if short := ShortenQuery(query); short != "" && short != query {
			if retried, err := s.searcher.Search(ctx, short, s.limit); err == nil {
				results = retried
			}
		}
	}
	return BuildAnswer(query, results), nil
}

// Frame marks a finished answer for delivery. Premium users get the premium
// tag on the message itself, so the perk stays visible on answers delivered
// later by the worker, not only on the preamble.
func (s *Service) Frame(ctx context.Context, userID int64, text string) string {
	if s.gate.IsActive(ctx, userID) {
		return "💎 _Premium_\n\n" + text
	}
	return text
}

// LegalAnswer combines the statute analysis with the web summary. The
// statute part never depends on the network; when the web part fails the
// analysis is still returned along with the error.
func (s *Service) LegalAnswer(ctx context.Context, query string) (string, error) {
	legal := AnalyzeLegal(query)
	web, err := s.WebAnswer(ctx, query)
	if err != nil {
		return legal, err
	}
	return legal + "\n\n" + web, nil
}
