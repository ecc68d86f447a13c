package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/runtime"
	"github.com/custodia-labs/docchat/internal/worker"
)

// Ensure chatService implements ChatService
var _ driving.ChatService = (*chatService)(nil)

// retrievalK is the number of chunks retrieved as answer context
const retrievalK = 3

// chatService implements the ChatService interface
type chatService struct {
	repo     *ConversationRepository
	index    driven.VectorIndex
	services *runtime.Services
	pool     *worker.Pool
	logger   *slog.Logger
}

// NewChatService creates a new ChatService.
// pool may be nil; persistence then runs on the request goroutine.
func NewChatService(
	repo *ConversationRepository,
	index driven.VectorIndex,
	services *runtime.Services,
	pool *worker.Pool,
	logger *slog.Logger,
) driving.ChatService {
	if logger == nil {
		logger = slog.Default()
	}
	return &chatService{
		repo:     repo,
		index:    index,
		services: services,
		pool:     pool,
		logger:   logger,
	}
}

// Chat runs one retrieval-augmented exchange and streams its events.
// Every event repeats the conversation id, the user message, the sources
// and the full accumulated response so far.
func (s *chatService) Chat(ctx context.Context, message, conversationID string) (<-chan domain.ChatEvent, error) {
	if strings.TrimSpace(message) == "" {
		return nil, domain.ErrInvalidInput
	}

	events := make(chan domain.ChatEvent)
	go s.run(ctx, message, conversationID, events)
	return events, nil
}

// History returns the completed turns for a conversation id, oldest first
func (s *chatService) History(ctx context.Context, conversationID string) []domain.ChatTurn {
	return s.repo.History(conversationID)
}

// run drives one turn from retrieval to persistence. It owns the events
// channel and closes it on every path.
func (s *chatService) run(ctx context.Context, message, conversationID string, events chan<- domain.ChatEvent) {
	defer close(events)

	conv, created := s.repo.GetOrCreate(conversationID)

	// One turn at a time per conversation
	unlock := s.repo.Lock(conv.ID)
	defer unlock()

	// A new session is durable immediately, before its first turn lands
	if created {
		s.persist(conv.Record())
	}

	emit := func(ev domain.ChatEvent) bool {
		if ctx.Err() != nil {
			return false
		}
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	var sources []domain.Source
	fail := func(stage string, err error) {
		s.logger.Error("chat turn failed", "conversation_id", conv.ID, "stage", stage, "error", err)
		emit(domain.ChatEvent{
			Response:       domain.ErrorResponse,
			Sources:        sources,
			ConversationID: conv.ID,
			UserMessage:    message,
		})
	}

	embedder := s.services.EmbeddingService()
	llm := s.services.LLMService()
	if embedder == nil || llm == nil {
		fail("setup", domain.ErrServiceUnavailable)
		return
	}

	queryEmbedding, err := embedder.EmbedQuery(ctx, message)
	if err != nil {
		fail("embed", fmt.Errorf("%w: %v", domain.ErrEmbedding, err))
		return
	}

	scored, err := s.index.Query(ctx, queryEmbedding, retrievalK)
	if err != nil {
		fail("retrieve", fmt.Errorf("%w: %v", domain.ErrRetrieval, err))
		return
	}

	contextParts := make([]string, len(scored))
	sources = make([]domain.Source, len(scored))
	for i, sc := range scored {
		contextParts[i] = sc.Chunk.Text
		sources[i] = domain.Source{
			DocumentName:   sc.Chunk.DocumentName,
			PageNumber:     sc.Chunk.PageNumber,
			ContentSnippet: domain.Snippet(sc.Chunk.Text),
		}
	}

	// THINKING: sources are known before any model output exists
	if !emit(domain.ChatEvent{
		Response:       domain.ThinkingMarker,
		Sources:        sources,
		ConversationID: conv.ID,
		UserMessage:    message,
	}) {
		return
	}

	messages := []domain.PromptMessage{
		{Role: domain.RoleSystem, Content: domain.SystemPrompt},
		{Role: domain.RoleUser, Content: fmt.Sprintf("Context: %s\n\nQuestion: %s", strings.Join(contextParts, "\n"), message)},
	}
	messages = append(messages, conv.RecentHistory()...)

	var full strings.Builder
	streamErr := llm.StreamChat(ctx, messages, func(delta string) error {
		full.WriteString(delta)
		if !emit(domain.ChatEvent{
			Response:       full.String(),
			Sources:        sources,
			ConversationID: conv.ID,
			UserMessage:    message,
		}) {
			return ctx.Err()
		}
		return nil
	})
	if streamErr != nil {
		if ctx.Err() != nil {
			// Consumer walked away; no event, no persistence
			s.logger.Info("chat turn cancelled", "conversation_id", conv.ID)
			return
		}
		fail("generate", fmt.Errorf("%w: %v", domain.ErrGeneration, streamErr))
		return
	}

	turn := domain.ChatTurn{
		Response:       full.String(),
		Sources:        sources,
		ConversationID: conv.ID,
		UserMessage:    message,
	}
	rec := s.repo.AppendTurn(conv, turn)
	s.persist(rec)
}

// persist saves the conversation record off the request path. Persistence
// failures are logged, never surfaced to the stream.
func (s *chatService) persist(rec *domain.ConversationRecord) {
	save := func(ctx context.Context) error {
		return s.repo.Store().Save(ctx, rec)
	}

	if s.pool != nil && s.pool.Submit(worker.Task{Name: "save-conversation", Fn: save}) {
		return
	}
	if err := save(context.Background()); err != nil {
		s.logger.Error("failed to persist conversation", "conversation_id", rec.ID, "error", err)
	}
}
