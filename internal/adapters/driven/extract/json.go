package extract

import (
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.Extractor = (*JSONExtractor)(nil)

// JSONExtractor renders JSON files as indented text. Each top-level key of
// an object counts as one page; any other document shape is one page.
type JSONExtractor struct{}

func (e *JSONExtractor) Extensions() []string {
	return []string{".json"}
}

func (e *JSONExtractor) Extract(data []byte) (*driven.Extraction, error) {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}

	text, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render json: %w", err)
	}

	pages := 1
	if obj, ok := value.(map[string]any); ok && len(obj) > 1 {
		pages = len(obj)
	}

	return &driven.Extraction{
		Text:       string(text),
		TotalPages: pages,
	}, nil
}
