package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ChatService answers questions over the indexed documents with a streamed,
// source-attributed response and durable multi-turn conversation state.
type ChatService interface {
	// Chat resolves (or creates) the conversation and returns a stream of
	// events: one THINKING event carrying the computed sources, then one
	// event per content increment whose Response is the full accumulated
	// text, ending with the final accumulated event after which the turn
	// is persisted. Any failure produces exactly one in-band error event
	// instead; Chat itself only fails when the message is empty.
	//
	// The channel is closed when the stream ends. Cancelling ctx stops
	// generation promptly without persisting a partial turn.
	Chat(ctx context.Context, message, conversationID string) (<-chan domain.ChatEvent, error)

	// History returns the completed turns for a conversation id, oldest
	// first. Unknown ids yield an empty slice, not an error.
	History(ctx context.Context, conversationID string) []domain.ChatTurn
}
