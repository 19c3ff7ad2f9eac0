package articles

import "time"

// Stub is a reference to an article taken from a listing page, before its
// body has been fetched.
type Stub struct {
	Title  string
	Author string
	Date   string // display date from the listing, e.g. "1/01"
	URL    string
}

// Article is a fully extracted post. URL is the natural key.
type Article struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Date    string `json:"date"`
	URL     string `json:"url"`
	Content string `json:"content"`

	// Set by the store on insert. Zero for articles that have not been
	// read back from storage.
	CreatedAt time.Time `json:"created_at,omitzero"`
	RunID     string    `json:"run_id,omitempty"`
}

// NewArticle combines a stub with its cleaned body text.
func NewArticle(stub Stub, content string) Article {
	return Article{
		Title:   stub.Title,
		Author:  stub.Author,
		Date:    stub.Date,
		URL:     stub.URL,
		Content: content,
	}
}

// HasContent reports whether the article survived cleanup with a non-empty
// body. Articles without content never reach a sink.
func (a Article) HasContent() bool {
	return a.Content != ""
}

// WithContent filters out articles whose body is empty.
func WithContent(items []Article) []Article {
	kept := make([]Article, 0, len(items))
	for _, item := range items {
		if item.HasContent() {
			kept = append(kept, item)
		}
	}
	return kept
}
