package answer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Result is one search hit: title, snippet and source reference.
type Result struct {
	Title   string
	Snippet string
	URL     string
}

// Searcher returns an ordered list of results for a free-text query.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
}

// DuckDuckGo scrapes the HTML (no-JS) endpoint.
type DuckDuckGo struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
}

func NewDuckDuckGo() *DuckDuckGo {
	return &DuckDuckGo{
		BaseURL:   "https://html.duckduckgo.com/html/",
		UserAgent: "Mozilla/5.0 (compatible; MarketSafeBot/1.0)",
		Client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (d *DuckDuckGo) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 4
	}

	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.BaseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", d.UserAgent)

	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("search: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	var results []Result
	doc.Find(".result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		a := sel.Find("a.result__a").First()
		if a.Length() == 0 {
			a = sel.Find("a").First()
		}
		title := strings.TrimSpace(a.Text())
		href, _ := a.Attr("href")
		snippet := strings.TrimSpace(sel.Find(".result__snippet").First().Text())
		if title != "" && href != "" {
			results = append(results, Result{Title: title, Snippet: snippet, URL: href})
		}
		return len(results) < limit
	})

	// Degraded markup: fall back to bare anchors.
	if len(results) == 0 {
		doc.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			title := strings.TrimSpace(a.Text())
			href, _ := a.Attr("href")
			if title != "" && href != "" {
				results = append(results, Result{Title: title, URL: href})
			}
			return len(results) < limit
		})
	}

	return results, nil
}
