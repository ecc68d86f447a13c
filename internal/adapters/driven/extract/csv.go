package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.Extractor = (*CSVExtractor)(nil)

// csvRowsPerPage is the data row count treated as one page
const csvRowsPerPage = 100

// CSVExtractor renders CSV files as an aligned text table, header first
type CSVExtractor struct{}

func (e *CSVExtractor) Extensions() []string {
	return []string{".csv"}
}

func (e *CSVExtractor) Extract(data []byte) (*driven.Extraction, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}

	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	for _, record := range records {
		fmt.Fprintln(tw, strings.Join(record, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return nil, fmt.Errorf("failed to render csv: %w", err)
	}

	dataRows := len(records) - 1
	if dataRows < 0 {
		dataRows = 0
	}
	pages := dataRows / csvRowsPerPage
	if pages < 1 {
		pages = 1
	}

	return &driven.Extraction{
		Text:       buf.String(),
		TotalPages: pages,
	}, nil
}
