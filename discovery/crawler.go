package discovery

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/pttcrawl/articles"
	"github.com/pevans/pttcrawl/scraper"
	"go.uber.org/zap"
)

// Stats summarizes the most recent crawl.
type Stats struct {
	PagesFetched int
	StubsSeen    int
	Kept         int
	Dropped      int
}

// Crawler walks a board's listing pages from newest to oldest and collects
// the articles it finds. It is not safe for concurrent use.
type Crawler struct {
	page   Page
	board  scraper.BoardConfig
	logger *zap.Logger
	stats  Stats
}

// NewCrawler creates a crawler for board that fetches through page. A nil
// logger is replaced with a no-op logger.
func NewCrawler(page Page, board scraper.BoardConfig, logger *zap.Logger) *Crawler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Crawler{
		page:   page,
		board:  board,
		logger: logger,
	}
}

// Stats returns the counters from the last Crawl or CrawlFeed.
func (c *Crawler) Stats() Stats {
	return c.stats
}

// Crawl fetches up to maxPages listing pages, starting at the board index and
// following each page's previous-page link. It stops early when a listing
// page cannot be fetched or has no previous-page link. What was gathered up
// to that point is returned without error. Only a cancelled ctx produces an
// error, alongside the partial result.
func (c *Crawler) Crawl(ctx context.Context, maxPages int) ([]articles.Article, error) {
	c.stats = Stats{}
	result := []articles.Article{}
	current := c.board.IndexURL()

	for page := 0; page < maxPages; page++ {
		c.logger.Info("crawling listing page",
			zap.Int("page", page+1),
			zap.String("url", current),
		)

		markup, err := c.page.Fetch(ctx, current)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			c.logger.Warn("stopping crawl: listing page unavailable", zap.String("url", current))
			break
		}
		c.stats.PagesFetched++

		items, err := c.collect(ctx, ParseList(markup, c.board, c.logger))
		result = append(result, items...)
		if err != nil {
			return result, err
		}

		href, ok := FindPrevPage(markup, c.board)
		if !ok {
			c.logger.Info("stopping crawl: no previous page", zap.String("url", current))
			break
		}
		current = c.board.Resolve(href)
	}

	c.logger.Info("crawl finished",
		zap.Int("pages", c.stats.PagesFetched),
		zap.Int("articles", c.stats.Kept),
		zap.Int("dropped", c.stats.Dropped),
	)
	return result, nil
}

// CrawlFeed collects the articles listed in the board's Atom feed instead of
// walking listing pages.
func (c *Crawler) CrawlFeed(ctx context.Context) ([]articles.Article, error) {
	c.stats = Stats{}
	url := c.board.FeedURL()

	c.logger.Info("crawling feed", zap.String("url", url))

	markup, err := c.page.Fetch(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			return []articles.Article{}, ctx.Err()
		}
		c.logger.Warn("stopping crawl: feed unavailable", zap.String("url", url))
		return []articles.Article{}, nil
	}
	c.stats.PagesFetched++

	stubs, err := ParseFeed(markup)
	if err != nil {
		c.logger.Error("failed to parse feed", zap.String("url", url), zap.Error(err))
		return []articles.Article{}, nil
	}

	return c.collect(ctx, stubs)
}

// collect fetches the detail page for every stub and keeps the ones with a
// non-empty body. A detail page that cannot be fetched drops only that stub.
func (c *Crawler) collect(ctx context.Context, stubs []articles.Stub) ([]articles.Article, error) {
	items := make([]articles.Article, 0, len(stubs))

	for _, stub := range stubs {
		c.stats.StubsSeen++

		markup, err := c.page.Fetch(ctx, stub.URL)
		if err != nil {
			if ctx.Err() != nil {
				return items, ctx.Err()
			}
			c.stats.Dropped++
			continue
		}

		content := ExtractContent(markup, c.board)
		if content == "" {
			c.logger.Debug("dropping article without content", zap.String("url", stub.URL))
			c.stats.Dropped++
			continue
		}

		items = append(items, articles.NewArticle(stub, content))
		c.stats.Kept++
	}

	return items, nil
}

// FindPrevPage returns the href of the listing page's previous-page link. The
// link is matched on its label text, so a relabelled button reads as the last
// page.
func FindPrevPage(markup string, board scraper.BoardConfig) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", false
	}

	link := doc.Find(board.PrevPageSelector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(s.Text(), board.PrevPageLabel)
	}).First()

	href, exists := link.Attr("href")
	if !exists || href == "" {
		return "", false
	}
	return href, true
}
