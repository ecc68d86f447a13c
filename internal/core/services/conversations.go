package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// ConversationRepository is the in-memory working set of conversations,
// backed by a durable ConversationStore. All reads and writes go through
// the repository; the store only sees whole records.
type ConversationRepository struct {
	store  driven.ConversationStore
	logger *slog.Logger

	mu            sync.RWMutex
	conversations map[string]*domain.Conversation

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

// NewConversationRepository creates a new repository
func NewConversationRepository(store driven.ConversationStore, logger *slog.Logger) *ConversationRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConversationRepository{
		store:         store,
		logger:        logger,
		conversations: make(map[string]*domain.Conversation),
		locks:         make(map[string]*sync.Mutex),
	}
}

// Init restores all persisted conversations. Corrupt records were already
// skipped by the store; Init only fails when the store is unreachable.
func (r *ConversationRepository) Init(ctx context.Context) error {
	records, err := r.store.LoadAll(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, rec := range records {
		r.conversations[id] = &domain.Conversation{
			ID:       rec.ID,
			History:  rec.History,
			Messages: rec.Messages,
		}
	}
	r.logger.Info("conversations restored", "count", len(records))
	return nil
}

// GetOrCreate returns the conversation for id, creating it when id is empty
// or unknown. The second return reports whether a new conversation was made.
func (r *ConversationRepository) GetOrCreate(id string) (*domain.Conversation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id != "" {
		if conv, ok := r.conversations[id]; ok {
			return conv, false
		}
	}
	if id == "" {
		id = uuid.NewString()
	}

	conv := &domain.Conversation{ID: id}
	r.conversations[id] = conv
	return conv, true
}

// Get returns the conversation for id, or nil when unknown
func (r *ConversationRepository) Get(id string) *domain.Conversation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.conversations[id]
}

// AppendTurn records one completed exchange and returns the durable record
// to persist. The caller must hold the conversation lock.
func (r *ConversationRepository) AppendTurn(conv *domain.Conversation, turn domain.ChatTurn) *domain.ConversationRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv.History = append(conv.History,
		domain.PromptMessage{Role: domain.RoleUser, Content: turn.UserMessage},
		domain.PromptMessage{Role: domain.RoleAssistant, Content: turn.Response},
	)
	conv.Messages = append(conv.Messages, turn)
	return conv.Record()
}

// History returns the completed turns for id, oldest first. Unknown ids
// yield an empty slice.
func (r *ConversationRepository) History(id string) []domain.ChatTurn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conv, ok := r.conversations[id]
	if !ok {
		r.logger.Warn("conversation not found", "id", id)
		return []domain.ChatTurn{}
	}
	out := make([]domain.ChatTurn, len(conv.Messages))
	copy(out, conv.Messages)
	return out
}

// Lock serializes work on one conversation id. The returned function
// releases the lock.
func (r *ConversationRepository) Lock(id string) func() {
	r.lockMu.Lock()
	l, ok := r.locks[id]
	if !ok {
		l = &sync.Mutex{}
		r.locks[id] = l
	}
	r.lockMu.Unlock()

	l.Lock()
	return l.Unlock
}

// Store exposes the durable backend for persistence tasks
func (r *ConversationRepository) Store() driven.ConversationStore {
	return r.store
}

// Close flushes all in-memory conversations to the store. Turns are saved
// as they complete, so this only catches writes that were still queued or
// failed transiently while the process was running.
func (r *ConversationRepository) Close(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var lastErr error
	for _, conv := range r.conversations {
		if len(conv.Messages) == 0 {
			continue
		}
		if err := r.store.Save(ctx, conv.Record()); err != nil {
			r.logger.Error("failed to flush conversation", "id", conv.ID, "error", err)
			lastErr = err
		}
	}
	return lastErr
}
