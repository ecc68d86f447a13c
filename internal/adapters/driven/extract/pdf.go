package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.Extractor = (*PDFExtractor)(nil)

// PDFExtractor pulls text out of PDF files. The page count is exact.
type PDFExtractor struct{}

func (e *PDFExtractor) Extensions() []string {
	return []string{".pdf"}
}

func (e *PDFExtractor) Extract(data []byte) (*driven.Extraction, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pdf: %w", err)
	}

	pageCount := reader.NumPage()
	var content strings.Builder

	for i := 1; i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages that cannot be decoded
			continue
		}

		content.WriteString(strings.TrimSpace(text))
		content.WriteString("\n")
	}

	return &driven.Extraction{
		Text:       normalizeNewlines(content.String()),
		TotalPages: pageCount,
	}, nil
}
