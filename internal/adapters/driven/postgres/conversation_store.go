package postgres

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ConversationStore = (*ConversationStore)(nil)

// ConversationStore implements driven.ConversationStore using PostgreSQL.
// History and messages are stored as JSONB blobs; the whole record is
// rewritten on every save.
type ConversationStore struct {
	db     *DB
	logger *slog.Logger
}

// NewConversationStore creates a new ConversationStore
func NewConversationStore(db *DB, logger *slog.Logger) *ConversationStore {
	return &ConversationStore{db: db, logger: logger}
}

// Save writes the full record, replacing any previous version
func (s *ConversationStore) Save(ctx context.Context, rec *domain.ConversationRecord) error {
	historyJSON, err := json.Marshal(rec.History)
	if err != nil {
		return err
	}
	messagesJSON, err := json.Marshal(rec.Messages)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO conversations (id, history, messages, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			history = EXCLUDED.history,
			messages = EXCLUDED.messages,
			updated_at = EXCLUDED.updated_at
	`

	_, err = s.db.ExecContext(ctx, query, rec.ID, historyJSON, messagesJSON, time.Now().UTC())
	return err
}

// LoadAll returns every stored conversation keyed by id. Rows that fail to
// decode are skipped with a warning rather than failing the load.
func (s *ConversationStore) LoadAll(ctx context.Context) (map[string]*domain.ConversationRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, history, messages FROM conversations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make(map[string]*domain.ConversationRecord)
	for rows.Next() {
		var (
			id           string
			historyJSON  []byte
			messagesJSON []byte
		)
		if err := rows.Scan(&id, &historyJSON, &messagesJSON); err != nil {
			return nil, err
		}

		rec := &domain.ConversationRecord{ID: id}
		if err := json.Unmarshal(historyJSON, &rec.History); err != nil {
			s.logger.Warn("skipping corrupt conversation record", "id", id, "error", err)
			continue
		}
		if err := json.Unmarshal(messagesJSON, &rec.Messages); err != nil {
			s.logger.Warn("skipping corrupt conversation record", "id", id, "error", err)
			continue
		}
		records[rec.ID] = rec
	}
	return records, rows.Err()
}

// Ping checks if the backing database is reachable
func (s *ConversationStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
