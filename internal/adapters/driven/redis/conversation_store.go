package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ConversationStore = (*ConversationStore)(nil)

const (
	// Key prefix for conversation records
	conversationPrefix = "conversation:"

	// Set of all conversation ids, used for LoadAll
	conversationIndexKey = "conversations"
)

// ConversationStore implements driven.ConversationStore using Redis.
// Records never expire; conversations survive restarts until deleted
// out of band.
type ConversationStore struct {
	client *redis.Client
	logger *slog.Logger
}

// NewConversationStore creates a new Redis-backed ConversationStore
func NewConversationStore(client *redis.Client, logger *slog.Logger) *ConversationStore {
	return &ConversationStore{client: client, logger: logger}
}

// Save stores the full record, replacing any previous version
func (s *ConversationStore) Save(ctx context.Context, rec *domain.ConversationRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, conversationPrefix+rec.ID, data, 0)
	pipe.SAdd(ctx, conversationIndexKey, rec.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}
	return nil
}

// LoadAll returns every stored conversation keyed by id. Records that fail
// to decode are skipped with a warning rather than failing the load.
func (s *ConversationStore) LoadAll(ctx context.Context) (map[string]*domain.ConversationRecord, error) {
	ids, err := s.client.SMembers(ctx, conversationIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	records := make(map[string]*domain.ConversationRecord, len(ids))
	for _, id := range ids {
		data, err := s.client.Get(ctx, conversationPrefix+id).Bytes()
		if err == redis.Nil {
			// Index entry without a record, drop it
			s.client.SRem(ctx, conversationIndexKey, id)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load conversation %s: %w", id, err)
		}

		var rec domain.ConversationRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			s.logger.Warn("skipping corrupt conversation record", "id", id, "error", err)
			continue
		}
		records[rec.ID] = &rec
	}
	return records, nil
}

// Ping checks if Redis is reachable
func (s *ConversationStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
