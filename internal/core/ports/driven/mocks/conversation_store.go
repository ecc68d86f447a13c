package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// MockConversationStore is a mock implementation of ConversationStore for testing
type MockConversationStore struct {
	mu       sync.RWMutex
	records  map[string]*domain.ConversationRecord
	saves    int
	failNext bool
}

// NewMockConversationStore creates a new MockConversationStore
func NewMockConversationStore() *MockConversationStore {
	return &MockConversationStore{
		records: make(map[string]*domain.ConversationRecord),
	}
}

func (m *MockConversationStore) Save(ctx context.Context, rec *domain.ConversationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext {
		m.failNext = false
		return context.DeadlineExceeded
	}
	m.saves++
	cp := *rec
	cp.History = append([]domain.PromptMessage(nil), rec.History...)
	cp.Messages = append([]domain.ChatTurn(nil), rec.Messages...)
	m.records[rec.ID] = &cp
	return nil
}

func (m *MockConversationStore) LoadAll(ctx context.Context) (map[string]*domain.ConversationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]*domain.ConversationRecord, len(m.records))
	for id, rec := range m.records {
		cp := *rec
		out[id] = &cp
	}
	return out, nil
}

func (m *MockConversationStore) Ping(ctx context.Context) error {
	return nil
}

// Helper methods for testing

func (m *MockConversationStore) SetFailNext(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = fail
}

// Saves returns the number of successful Save calls
func (m *MockConversationStore) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// Seed installs a record directly, bypassing Save accounting
func (m *MockConversationStore) Seed(rec *domain.ConversationRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = rec
}
