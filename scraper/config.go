package scraper

import "strings"

// BoardConfig defines where a board lives and how to pick articles out of its
// listing and detail pages.
type BoardConfig struct {
	Origin string // e.g. https://www.ptt.cc
	Board  string // e.g. Gossiping

	// Listing page
	EntrySelector    string
	TitleSelector    string
	AuthorSelector   string
	DateSelector     string
	PrevPageSelector string
	PrevPageLabel    string

	// Detail page
	ContentSelector string
	NoiseSelectors  []string
}

// DefaultBoardConfig returns the selectors for the PTT Gossiping board.
func DefaultBoardConfig() BoardConfig {
	return BoardConfig{
		Origin:           "https://www.ptt.cc",
		Board:            "Gossiping",
		EntrySelector:    "div.r-ent",
		TitleSelector:    "div.title a",
		AuthorSelector:   "div.author",
		DateSelector:     "div.date",
		PrevPageSelector: "a.btn.wide",
		PrevPageLabel:    "上頁",
		ContentSelector:  "#main-content",
		NoiseSelectors: []string{
			"div.push",
			"div.article-metaline",
			"div.article-metaline-right",
			"span.f2",
		},
	}
}

// IndexURL is the newest listing page of the board.
func (b BoardConfig) IndexURL() string {
	return b.origin() + "/bbs/" + b.Board + "/index.html"
}

// FeedURL is the board's Atom feed.
func (b BoardConfig) FeedURL() string {
	return b.origin() + "/atom/" + b.Board + ".xml"
}

// Resolve turns a site-relative href into an absolute URL by prefixing the
// origin.
func (b BoardConfig) Resolve(href string) string {
	return b.origin() + href
}

// NoiseSelector joins NoiseSelectors into a single selector group.
func (b BoardConfig) NoiseSelector() string {
	return strings.Join(b.NoiseSelectors, ", ")
}

func (b BoardConfig) origin() string {
	return strings.TrimRight(b.Origin, "/")
}
