package discovery

import (
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/pevans/pttcrawl/articles"
)

// feedDateLayout matches the listing's display date, e.g. "1/01".
const feedDateLayout = "1/02"

// ParseFeed turns a board's Atom (or RSS) feed into article stubs, in feed
// order. Items without a link are skipped.
func ParseFeed(markup string) ([]articles.Stub, error) {
	fp := gofeed.NewParser()
	feed, err := fp.ParseString(markup)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	stubs := make([]articles.Stub, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Link == "" {
			continue
		}
		stubs = append(stubs, FeedItemToStub(item))
	}

	return stubs, nil
}

// FeedItemToStub maps a feed entry onto the fields a listing entry would
// carry.
func FeedItemToStub(item *gofeed.Item) articles.Stub {
	stub := articles.Stub{
		Title: strings.TrimSpace(item.Title),
		URL:   item.Link,
	}

	if item.Author != nil && item.Author.Name != "" {
		stub.Author = item.Author.Name
	} else if len(item.Authors) > 0 && item.Authors[0] != nil {
		stub.Author = item.Authors[0].Name
	}

	// Published for Atom <published>, Updated as a fallback
	if item.PublishedParsed != nil {
		stub.Date = item.PublishedParsed.Format(feedDateLayout)
	} else if item.UpdatedParsed != nil {
		stub.Date = item.UpdatedParsed.Format(feedDateLayout)
	}

	return stub
}
