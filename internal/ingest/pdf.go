// Package ingest turns PDF manuals into section records. Pages are split at
// numbered headings ("1. Introduction", "2.1 Overview"); the text between
// two headings becomes one section, located by the page it starts on.
package ingest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/mgtcty/manualqa/internal/domain"
)

var (
	headingRe   = regexp.MustCompile(`(?m)^\d+(\.\d+)*\s+.+`)
	dotLeaderRe = regexp.MustCompile(`\.{5,}`)
	newlineRe   = regexp.MustCompile(`\s*\n\s*`)
)

// ExtractSections reads a PDF file and returns its section records in page
// order.
func ExtractSections(path string) ([]domain.SectionRecord, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	var records []domain.SectionRecord
	total := reader.NumPage()
	for pageNum := 1; pageNum <= total; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("read page %d of %s: %w", pageNum, path, err)
		}
		records = append(records, SplitPage(pageNum, text)...)
	}
	return records, nil
}

// SplitPage segments one page of text into section records. Headings whose
// line carries a dot leader (table-of-contents entries) are skipped, as are
// headings with no body before the next heading.
func SplitPage(pageNumber int, text string) []domain.SectionRecord {
	matches := headingRe.FindAllStringIndex(text, -1)
	var records []domain.SectionRecord
	for i, m := range matches {
		title := collapseWhitespace(text[m[0]:m[1]])
		start := m[1]
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		content := collapseWhitespace(text[start:end])
		if content == "" || dotLeaderRe.MatchString(title) {
			continue
		}
		records = append(records, domain.SectionRecord{
			Number:  strconv.Itoa(pageNumber),
			Title:   title,
			Content: content,
		})
	}
	return records
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(newlineRe.ReplaceAllString(s, " "))
}
