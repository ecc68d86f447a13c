package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ConversationStore durably persists conversation records, one per
// conversation id (PostgreSQL, or Redis when configured).
type ConversationStore interface {
	// Save writes the record for rec.ID, replacing any previous one
	Save(ctx context.Context, rec *domain.ConversationRecord) error

	// LoadAll reconstructs every persisted record at startup.
	// A corrupt or unreadable record must be skipped with a warning,
	// not abort the load of other conversations.
	LoadAll(ctx context.Context) (map[string]*domain.ConversationRecord, error)

	// Ping checks if the backing store is healthy
	Ping(ctx context.Context) error
}
