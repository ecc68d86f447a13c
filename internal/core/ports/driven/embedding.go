package driven

import (
	"context"
)

// EmbeddingService generates text embeddings for indexing and retrieval
type EmbeddingService interface {
	// Embed generates embeddings for a batch of chunk texts during ingest
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery generates an embedding for a retrieval query.
	// May use different model/parameters optimized for queries.
	EmbedQuery(ctx context.Context, query string) ([]float32, error)

	// Dimensions returns the embedding dimension size
	Dimensions() int

	// Model returns the model name being used
	Model() string

	// HealthCheck verifies the embedding service is available
	HealthCheck(ctx context.Context) error

	// Close releases resources held by the embedding service
	Close() error
}
