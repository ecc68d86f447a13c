package services

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/worker"
)

// Ensure exportService implements ExportService
var _ driving.ExportService = (*exportService)(nil)

// exportService implements the ExportService interface
type exportService struct {
	repo     *ConversationRepository
	exporter driven.Exporter
	pool     *worker.Pool
	logger   *slog.Logger
}

// NewExportService creates a new ExportService.
// pool may be nil; rendering then runs on the request goroutine.
func NewExportService(
	repo *ConversationRepository,
	exporter driven.Exporter,
	pool *worker.Pool,
	logger *slog.Logger,
) driving.ExportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &exportService{
		repo:     repo,
		exporter: exporter,
		pool:     pool,
		logger:   logger,
	}
}

// Export renders the conversation and returns the generated filename
func (s *exportService) Export(ctx context.Context, conversationID, format string) (string, error) {
	if s.repo.Get(conversationID) == nil {
		return "", domain.ErrNotFound
	}
	turns := s.repo.History(conversationID)
	if len(turns) == 0 {
		return "", domain.ErrEmptyConversation
	}

	// Rendering is disk I/O; run it on the pool but wait for the result
	type result struct {
		filename string
		err      error
	}
	done := make(chan result, 1)
	render := func(context.Context) error {
		filename, err := s.exporter.Export(turns, conversationID, format)
		done <- result{filename: filename, err: err}
		return err
	}

	if s.pool == nil || !s.pool.Submit(worker.Task{Name: "export-conversation", Fn: render}) {
		_ = render(ctx)
	}

	select {
	case res := <-done:
		if res.err != nil {
			return "", res.err
		}
		s.logger.Info("conversation exported",
			"conversation_id", conversationID,
			"format", format,
			"filename", res.filename,
		)
		return res.filename, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Resolve maps an export filename to its on-disk path
func (s *exportService) Resolve(ctx context.Context, filename string) (string, error) {
	// No directory traversal out of the export dir
	if filename == "" || filename != filepath.Base(filename) {
		return "", domain.ErrNotFound
	}

	path := s.exporter.Path(filename)
	if _, err := os.Stat(path); err != nil {
		return "", domain.ErrNotFound
	}
	return path, nil
}
