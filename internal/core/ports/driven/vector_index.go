package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// IndexEntry is one chunk staged for indexing, embedding included
type IndexEntry struct {
	Chunk     domain.Chunk
	Embedding []float32
}

// VectorIndex is the persistent similarity index shared across all
// documents and conversations.
//
// Concurrency contract: queries are safe to run concurrently with each
// other and with writes to unrelated documents; one Upsert call is atomic
// with respect to its own document's chunks. Re-upserting a document id
// replaces its previous entries.
type VectorIndex interface {
	// Upsert stores the entries for one document atomically, replacing any
	// entries previously stored under the same document id.
	Upsert(ctx context.Context, documentID string, entries []IndexEntry) error

	// Query returns the min(k, size) most similar chunks, ordered by
	// non-increasing score. Ties are broken by insertion order, which is
	// chunk-index-ascending within a document.
	Query(ctx context.Context, embedding []float32, k int) ([]domain.ScoredChunk, error)

	// Size returns the number of indexed chunks
	Size(ctx context.Context) (int, error)

	// Close releases the underlying store
	Close() error
}
