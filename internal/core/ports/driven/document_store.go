package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// DocumentStore handles the document catalog (PostgreSQL)
type DocumentStore interface {
	// Save creates or updates a catalog entry
	Save(ctx context.Context, doc *domain.Document) error

	// List returns all catalog entries ordered by upload date
	List(ctx context.Context) ([]*domain.Document, error)

	// SetEmbeddingStatus records an indexing status transition.
	// errMsg is stored alongside a failed status and cleared otherwise.
	SetEmbeddingStatus(ctx context.Context, id string, status domain.EmbeddingStatus, errMsg string) error

	// Count returns total catalog size
	Count(ctx context.Context) (int, error)
}
