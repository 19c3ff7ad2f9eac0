package export

import (
	"fmt"

	"github.com/pevans/pttcrawl/articles"
	"github.com/xuri/excelize/v2"
)

// Sheet names and header rows of the exported workbook.
const (
	InfoSheet    = "文章資訊"
	ContentSheet = "文章內容"
)

var (
	infoHeader    = []any{"標題", "作者", "日期", "連結"}
	contentHeader = []any{"標題", "內容"}
)

// Write saves items to a workbook at path with two sheets: article metadata
// and article text. An existing file at path is replaced. Articles without
// content are left out.
func Write(items []articles.Article, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", InfoSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(ContentSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	if err := writeRow(f, InfoSheet, 1, infoHeader); err != nil {
		return err
	}
	if err := writeRow(f, ContentSheet, 1, contentHeader); err != nil {
		return err
	}

	row := 2
	for _, item := range articles.WithContent(items) {
		info := []any{item.Title, item.Author, item.Date, item.URL}
		if err := writeRow(f, InfoSheet, row, info); err != nil {
			return err
		}

		content := []any{item.Title, truncateCell(item.Content)}
		if err := writeRow(f, ContentSheet, row, content); err != nil {
			return err
		}
		row++
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("invalid row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

// truncateCell keeps text within the per-cell character limit of xlsx.
func truncateCell(text string) string {
	runes := []rune(text)
	if len(runes) <= excelize.TotalCellChars {
		return text
	}
	return string(runes[:excelize.TotalCellChars])
}
