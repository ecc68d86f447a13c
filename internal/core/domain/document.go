package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// DocumentStatus reports whether text extraction succeeded
type DocumentStatus string

const (
	DocumentStatusProcessed DocumentStatus = "processed"
	DocumentStatusFailed    DocumentStatus = "failed"
)

// EmbeddingStatus tracks the indexing lifecycle of a document
type EmbeddingStatus string

const (
	EmbeddingStatusPending   EmbeddingStatus = "pending"
	EmbeddingStatusCompleted EmbeddingStatus = "completed"
	EmbeddingStatusFailed    EmbeddingStatus = "failed"
)

// SupportedExtensions is the set of uploadable file types, keyed by
// lowercase extension including the dot.
var SupportedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".json": true,
	".csv":  true,
}

// Document describes one uploaded and processed document in the catalog
type Document struct {
	ID              string          `json:"id"`
	Filename        string          `json:"filename"`
	DocumentType    string          `json:"document_type"` // extension without the dot
	UploadDate      time.Time       `json:"upload_date"`
	TotalPages      int             `json:"total_pages"` // estimated, see extractors
	Status          DocumentStatus  `json:"status"`
	EmbeddingStatus EmbeddingStatus `json:"embedding_status"`
	Error           string          `json:"error,omitempty"`
}

// Chunk is a bounded contiguous slice of a document's text, the unit of
// indexing and retrieval. Index is 0-based and contiguous within a document.
type Chunk struct {
	DocumentID   string `json:"document_id"`
	DocumentName string `json:"document_name"`
	Index        int    `json:"chunk_index"`
	Text         string `json:"text"`
	PageNumber   int    `json:"page_number"` // heuristic estimate, not true pagination
}

// ScoredChunk is a chunk paired with its retrieval similarity score
type ScoredChunk struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}

// FileExtension returns the lowercase extension of a filename, including
// the dot. Empty when the filename has none.
func FileExtension(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// ValidateFilename checks the upload filename against the supported set
func ValidateFilename(filename string) error {
	ext := FileExtension(filename)
	if ext == "" {
		return ErrMissingExtension
	}
	if !SupportedExtensions[ext] {
		return ErrUnsupportedType
	}
	return nil
}
