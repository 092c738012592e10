package extract

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// PDFTextStrategy extracts the embedded text layer of a PDF. Scanned
// statements have no text layer; the strategy then returns an empty result
// and leaves the file to the OCR strategy.
type PDFTextStrategy struct{}

func NewPDFTextStrategy() *PDFTextStrategy {
	return &PDFTextStrategy{}
}

func (s *PDFTextStrategy) Name() string {
	return "pdf_text"
}

// Parse reads the text layer page by page. Output that fails the readability
// gate (identity-encoded fonts decode into garbage) is discarded in favour of
// an empty result so the OCR strategy's artifact carries the run.
func (s *PDFTextStrategy) Parse(ctx context.Context, path string) (string, error) {
	pages, err := extractPages(path)
	if err != nil {
		return "", fmt.Errorf("PDFTextStrategy: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	text := strings.TrimSpace(strings.Join(pages, "\n\n"))
	if !isReadableText(text) {
		return "", nil
	}
	return text, nil
}

// extractPages isolates the pdf library call. The library panics on some
// malformed files, so the recover guard turns that into an error.
func extractPages(path string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panicked: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	numPages := r.NumPage()
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}

		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}

	return pages, nil
}

// isReadableText requires a minimum amount of text and a majority of plain
// ASCII characters. Statements decoded through broken font maps fail both.
func isReadableText(text string) bool {
	if len(text) <= 50 {
		return false
	}

	total := 0
	readable := 0
	for _, r := range text {
		total++
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
			strings.ContainsRune(".,-/:;()'\"£$€%&@#!?+=*", r) {
			readable++
		}
	}
	return total > 0 && float64(readable)/float64(total) > 0.6
}
