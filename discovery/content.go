package discovery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/pttcrawl/scraper"
)

// ExtractContent isolates the article body of a detail page and returns its
// cleaned text. It returns "" when the page has no content container, e.g. a
// removed or restricted post, or when nothing survives cleanup.
func ExtractContent(markup string, board scraper.BoardConfig) string {
	if markup == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return ""
	}

	body := doc.Find(board.ContentSelector).First()
	if body.Length() == 0 {
		return ""
	}

	if len(board.NoiseSelectors) > 0 {
		body.Find(board.NoiseSelector()).Remove()
	}

	return Normalize(strings.TrimSpace(body.Text()))
}
