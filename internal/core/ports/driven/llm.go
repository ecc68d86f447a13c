package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// StreamHandler receives one content increment per call, in order.
// Returning a non-nil error aborts the stream.
type StreamHandler func(delta string) error

// LLMService drives the chat generation model
type LLMService interface {
	// StreamChat sends the prompt messages and streams the completion.
	// fn is invoked once per content increment; the accumulated answer is
	// the in-order concatenation of the increments. StreamChat returns
	// once the model signals completion, fn returns an error, or ctx is
	// cancelled.
	StreamChat(ctx context.Context, messages []domain.PromptMessage, fn StreamHandler) error

	// Complete sends the prompt messages and returns the full answer
	Complete(ctx context.Context, messages []domain.PromptMessage) (string, error)

	// Model returns the model name being used
	Model() string

	// Ping verifies the LLM service is available
	Ping(ctx context.Context) error

	// Close releases resources held by the LLM service
	Close() error
}
