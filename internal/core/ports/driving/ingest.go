package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// IngestService processes document uploads into the similarity index
type IngestService interface {
	// Ingest validates the filename, extracts text, chunks it, embeds the
	// chunks and upserts them into the index. Indexing is synchronous.
	//
	// On an embedding failure the returned document record is still saved
	// with EmbeddingStatus "failed" and a non-empty Error, and the error
	// wraps domain.ErrEmbedding.
	Ingest(ctx context.Context, filename string, data []byte) (*domain.Document, error)

	// List returns all catalog entries
	List(ctx context.Context) ([]*domain.Document, error)
}
