package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pevans/pttcrawl/articles"
	"github.com/pevans/pttcrawl/discovery"
)

// printSummary prints crawl totals followed by a preview of each article
func printSummary(out io.Writer, items []articles.Article, stats discovery.Stats, xlsxPath string) {
	fmt.Fprintf(out, "Wrote %s\n", xlsxPath)
	fmt.Fprintf(out, "\nCrawled %d articles from %d pages (%d dropped)\n",
		len(items), stats.PagesFetched, stats.Dropped)

	for _, item := range items {
		fmt.Fprintln(out)
		fmt.Fprintln(out, strings.Repeat("=", 50))
		fmt.Fprintf(out, "標題: %s\n", item.Title)
		fmt.Fprintf(out, "作者: %s\n", item.Author)
		fmt.Fprintf(out, "日期: %s\n", item.Date)
		fmt.Fprintf(out, "連結: %s\n", item.URL)
		fmt.Fprintf(out, "內容預覽: %s\n", preview(item.Content, 100))
	}
}

// printJSON prints items in JSON format
func printJSON(out io.Writer, items []articles.Article) error {
	output := map[string]any{
		"articles": items,
		"total":    len(items),
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	fmt.Fprintln(out, string(data))
	return nil
}
