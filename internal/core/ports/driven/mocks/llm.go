package mocks

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// MockLLMService is a mock implementation of LLMService for testing.
// It streams a scripted sequence of deltas, or echoes the last user
// message when no script is set.
type MockLLMService struct {
	mu      sync.Mutex
	model   string
	deltas  []string
	err     error
	failAt  int // 0 = never; n = fail before delivering the nth delta
	prompts [][]domain.PromptMessage
}

// NewMockLLMService creates a new MockLLMService
func NewMockLLMService() *MockLLMService {
	return &MockLLMService{model: "mock-chat-model"}
}

func (m *MockLLMService) StreamChat(ctx context.Context, messages []domain.PromptMessage, fn driven.StreamHandler) error {
	m.mu.Lock()
	m.prompts = append(m.prompts, messages)
	deltas := m.deltas
	errOut := m.err
	failAt := m.failAt
	m.mu.Unlock()

	if len(deltas) == 0 {
		deltas = []string{m.echo(messages)}
	}

	for i, delta := range deltas {
		if failAt > 0 && i+1 == failAt {
			return context.DeadlineExceeded
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(delta); err != nil {
			return err
		}
	}
	return errOut
}

func (m *MockLLMService) Complete(ctx context.Context, messages []domain.PromptMessage) (string, error) {
	var sb strings.Builder
	err := m.StreamChat(ctx, messages, func(delta string) error {
		sb.WriteString(delta)
		return nil
	})
	return sb.String(), err
}

func (m *MockLLMService) Model() string {
	return m.model
}

func (m *MockLLMService) Ping(ctx context.Context) error {
	return nil
}

func (m *MockLLMService) Close() error {
	return nil
}

func (m *MockLLMService) echo(messages []domain.PromptMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == domain.RoleUser {
			return "echo: " + messages[i].Content
		}
	}
	return "echo:"
}

// Helper methods for testing

// SetDeltas scripts the streamed increments for subsequent calls
func (m *MockLLMService) SetDeltas(deltas ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deltas = deltas
}

// SetError makes the stream end with err after all deltas are delivered
func (m *MockLLMService) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetFailAt makes the stream fail before delivering the nth delta (1-based)
func (m *MockLLMService) SetFailAt(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failAt = n
}

// Prompts returns every prompt passed to StreamChat, in call order
func (m *MockLLMService) Prompts() [][]domain.PromptMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]domain.PromptMessage, len(m.prompts))
	copy(out, m.prompts)
	return out
}
