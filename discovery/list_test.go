package discovery

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pevans/pttcrawl/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// entry renders one well-formed listing entry
func entry(title, author, date, href string) string {
	return fmt.Sprintf(`<div class="r-ent">
	<div class="nrec"><span class="hl f2">5</span></div>
	<div class="title"><a href="%s">%s</a></div>
	<div class="meta">
		<div class="author">%s</div>
		<div class="article-menu"></div>
		<div class="date">%s</div>
		<div class="mark"></div>
	</div>
</div>`, href, title, author, date)
}

// deletedEntry renders a deleted post, which has no title link
func deletedEntry() string {
	return `<div class="r-ent">
	<div class="nrec"></div>
	<div class="title">(本文已被刪除) [someone]</div>
	<div class="meta">
		<div class="author">-</div>
		<div class="date"> 1/01</div>
	</div>
</div>`
}

// listingPage wraps entries in a listing page. prevHref is omitted when
// empty, which renders the disabled button of the oldest page.
func listingPage(prevHref string, entries ...string) string {
	prev := `<a class="btn wide disabled">&lsaquo; 上頁</a>`
	if prevHref != "" {
		prev = fmt.Sprintf(`<a class="btn wide" href="%s">&lsaquo; 上頁</a>`, prevHref)
	}

	return `<html><body>
<div class="action-bar">
	<div class="btn-group btn-group-paging">
		<a class="btn wide" href="/bbs/Gossiping/index1.html">最舊</a>
		` + prev + `
		<a class="btn wide disabled">下頁 &rsaquo;</a>
		<a class="btn wide" href="/bbs/Gossiping/index.html">最新</a>
	</div>
</div>
<div class="r-list-container action-bar-margin bbs-screen">
` + strings.Join(entries, "\n") + `
</div>
</body></html>`
}

// TestParseList_WellFormedEntries verifies fields and document order
func TestParseList_WellFormedEntries(t *testing.T) {
	markup := listingPage("",
		entry("測試標題", "tester", " 1/01", "/bbs/Gossiping/M.123.A.html"),
		entry("[問卦] 第二篇", "other", "12/31", "/bbs/Gossiping/M.124.A.html"),
	)

	stubs := ParseList(markup, scraper.DefaultBoardConfig(), nil)

	require.Len(t, stubs, 2)
	assert.Equal(t, "測試標題", stubs[0].Title)
	assert.Equal(t, "tester", stubs[0].Author)
	assert.Equal(t, "1/01", stubs[0].Date)
	assert.Equal(t, "https://www.ptt.cc/bbs/Gossiping/M.123.A.html", stubs[0].URL)
	assert.Equal(t, "[問卦] 第二篇", stubs[1].Title)
	assert.Equal(t, "12/31", stubs[1].Date)
}

// TestParseList_SkipsDeletedEntries verifies N good and M deleted gives N
func TestParseList_SkipsDeletedEntries(t *testing.T) {
	markup := listingPage("",
		deletedEntry(),
		entry("a", "u1", "1/01", "/bbs/Gossiping/M.1.A.html"),
		deletedEntry(),
		entry("b", "u2", "1/02", "/bbs/Gossiping/M.2.A.html"),
		deletedEntry(),
		entry("c", "u3", "1/03", "/bbs/Gossiping/M.3.A.html"),
	)

	stubs := ParseList(markup, scraper.DefaultBoardConfig(), nil)

	require.Len(t, stubs, 3)
	assert.Equal(t, "a", stubs[0].Title)
	assert.Equal(t, "b", stubs[1].Title)
	assert.Equal(t, "c", stubs[2].Title)
}

// TestParseList_MissingMetaSkipsOnlyThatEntry verifies partial-failure isolation
func TestParseList_MissingMetaSkipsOnlyThatEntry(t *testing.T) {
	noAuthor := `<div class="r-ent">
	<div class="title"><a href="/bbs/Gossiping/M.9.A.html">no author</a></div>
	<div class="meta"><div class="date">1/09</div></div>
</div>`
	noDate := `<div class="r-ent">
	<div class="title"><a href="/bbs/Gossiping/M.8.A.html">no date</a></div>
	<div class="meta"><div class="author">u8</div></div>
</div>`

	markup := listingPage("",
		noAuthor,
		entry("good", "u1", "1/01", "/bbs/Gossiping/M.1.A.html"),
		noDate,
	)

	stubs := ParseList(markup, scraper.DefaultBoardConfig(), nil)

	require.Len(t, stubs, 1)
	assert.Equal(t, "good", stubs[0].Title)
}

// TestParseList_AnchorWithoutHref verifies anchors without href are skipped
func TestParseList_AnchorWithoutHref(t *testing.T) {
	markup := listingPage("", `<div class="r-ent">
	<div class="title"><a>broken</a></div>
	<div class="meta"><div class="author">u</div><div class="date">1/01</div></div>
</div>`)

	assert.Empty(t, ParseList(markup, scraper.DefaultBoardConfig(), nil))
}

// TestParseList_EmptyMarkup verifies empty input is not an error
func TestParseList_EmptyMarkup(t *testing.T) {
	stubs := ParseList("", scraper.DefaultBoardConfig(), nil)

	assert.NotNil(t, stubs)
	assert.Empty(t, stubs)
}

// TestParseList_NoEntries verifies a page with no entries
func TestParseList_NoEntries(t *testing.T) {
	stubs := ParseList(listingPage(""), scraper.DefaultBoardConfig(), nil)

	assert.Empty(t, stubs)
}

// TestFindPrevPage verifies the labelled link is found
func TestFindPrevPage(t *testing.T) {
	markup := listingPage("/bbs/Gossiping/index38999.html")

	href, ok := FindPrevPage(markup, scraper.DefaultBoardConfig())

	assert.True(t, ok)
	assert.Equal(t, "/bbs/Gossiping/index38999.html", href)
}

// TestFindPrevPage_Disabled verifies the oldest page has no previous link
func TestFindPrevPage_Disabled(t *testing.T) {
	_, ok := FindPrevPage(listingPage(""), scraper.DefaultBoardConfig())

	assert.False(t, ok)
}

// TestFindPrevPage_LabelChanged verifies the match is on the label text
func TestFindPrevPage_LabelChanged(t *testing.T) {
	markup := `<a class="btn wide" href="/bbs/Gossiping/index2.html">‹ Prev</a>`

	_, ok := FindPrevPage(markup, scraper.DefaultBoardConfig())

	assert.False(t, ok)
}
