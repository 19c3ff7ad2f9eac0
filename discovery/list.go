package discovery

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/pttcrawl/articles"
	"github.com/pevans/pttcrawl/scraper"
	"go.uber.org/zap"
)

var (
	errMissingAuthor = errors.New("entry has no author element")
	errMissingDate   = errors.New("entry has no date element")
)

// ParseList extracts article stubs from a listing page, in document order.
// Entries without a title link are deleted posts and are skipped silently.
// Entries missing their author or date are logged and skipped; one bad entry
// never stops the rest of the page from parsing.
func ParseList(markup string, board scraper.BoardConfig, logger *zap.Logger) []articles.Stub {
	stubs := []articles.Stub{}
	if markup == "" {
		return stubs
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		logger.Error("failed to parse listing page", zap.Error(err))
		return stubs
	}

	doc.Find(board.EntrySelector).Each(func(i int, entry *goquery.Selection) {
		stub, ok, err := parseEntry(entry, board)
		if err != nil {
			logger.Warn("skipping listing entry",
				zap.Int("index", i),
				zap.String("title", stub.Title),
				zap.Error(err),
			)
			return
		}
		if ok {
			stubs = append(stubs, stub)
		}
	})

	return stubs
}

// parseEntry returns ok=false with no error for a deleted post.
func parseEntry(entry *goquery.Selection, board scraper.BoardConfig) (articles.Stub, bool, error) {
	link := entry.Find(board.TitleSelector).First()
	if link.Length() == 0 {
		return articles.Stub{}, false, nil
	}

	href, exists := link.Attr("href")
	if !exists {
		return articles.Stub{}, false, nil
	}

	stub := articles.Stub{
		Title: strings.TrimSpace(link.Text()),
		URL:   board.Resolve(href),
	}

	author := entry.Find(board.AuthorSelector).First()
	if author.Length() == 0 {
		return stub, false, errMissingAuthor
	}
	stub.Author = strings.TrimSpace(author.Text())

	date := entry.Find(board.DateSelector).First()
	if date.Length() == 0 {
		return stub, false, errMissingDate
	}
	stub.Date = strings.TrimSpace(date.Text())

	return stub, true, nil
}
