package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/runtime"
)

// Ensure ingestService implements IngestService
var _ driving.IngestService = (*ingestService)(nil)

// ingestService implements the IngestService interface
type ingestService struct {
	documentStore driven.DocumentStore
	index         driven.VectorIndex
	registry      driven.ExtractorRegistry
	pipeline      driven.PostProcessorPipeline
	services      *runtime.Services
	uploadDir     string
	logger        *slog.Logger
}

// NewIngestService creates a new IngestService.
// uploadDir may be empty to skip keeping the raw upload on disk.
func NewIngestService(
	documentStore driven.DocumentStore,
	index driven.VectorIndex,
	registry driven.ExtractorRegistry,
	pipeline driven.PostProcessorPipeline,
	services *runtime.Services,
	uploadDir string,
	logger *slog.Logger,
) driving.IngestService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ingestService{
		documentStore: documentStore,
		index:         index,
		registry:      registry,
		pipeline:      pipeline,
		services:      services,
		uploadDir:     uploadDir,
		logger:        logger,
	}
}

// Ingest processes one uploaded file end to end: validate, extract, chunk,
// embed, index. Indexing is synchronous; the returned document reflects the
// final embedding status.
func (s *ingestService) Ingest(ctx context.Context, filename string, data []byte) (*domain.Document, error) {
	if err := domain.ValidateFilename(filename); err != nil {
		return nil, err
	}
	ext := domain.FileExtension(filename)

	extractor, ok := s.registry.ForExtension(ext)
	if !ok {
		return nil, domain.ErrUnsupportedType
	}

	doc := &domain.Document{
		ID:              uuid.NewString(),
		Filename:        filename,
		DocumentType:    strings.TrimPrefix(ext, "."),
		UploadDate:      time.Now().UTC(),
		EmbeddingStatus: domain.EmbeddingStatusPending,
	}

	extraction, err := extractor.Extract(data)
	if err != nil {
		doc.Status = domain.DocumentStatusFailed
		doc.EmbeddingStatus = domain.EmbeddingStatusFailed
		doc.Error = err.Error()
		if saveErr := s.documentStore.Save(ctx, doc); saveErr != nil {
			s.logger.Error("failed to save failed document", "id", doc.ID, "error", saveErr)
		}
		return doc, fmt.Errorf("%w: %v", domain.ErrExtraction, err)
	}

	doc.Status = domain.DocumentStatusProcessed
	doc.TotalPages = extraction.TotalPages

	if err := s.keepUpload(doc, filename, data); err != nil {
		// Raw file retention is best effort; the index is the source of truth
		s.logger.Warn("failed to keep uploaded file", "id", doc.ID, "error", err)
	}

	// The catalog entry exists before indexing starts; from here on only
	// the embedding status changes.
	if err := s.documentStore.Save(ctx, doc); err != nil {
		return doc, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	chunks := s.chunkDocument(doc, extraction)
	if err := s.indexChunks(ctx, doc, chunks); err != nil {
		doc.EmbeddingStatus = domain.EmbeddingStatusFailed
		doc.Error = err.Error()
		if statusErr := s.documentStore.SetEmbeddingStatus(ctx, doc.ID, doc.EmbeddingStatus, doc.Error); statusErr != nil {
			s.logger.Error("failed to record embedding failure", "id", doc.ID, "error", statusErr)
		}
		return doc, fmt.Errorf("%w: %v", domain.ErrEmbedding, err)
	}

	doc.EmbeddingStatus = domain.EmbeddingStatusCompleted
	if err := s.documentStore.SetEmbeddingStatus(ctx, doc.ID, doc.EmbeddingStatus, ""); err != nil {
		return doc, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	s.logger.Info("document ingested",
		"id", doc.ID,
		"filename", doc.Filename,
		"pages", doc.TotalPages,
		"chunks", len(chunks),
	)
	return doc, nil
}

// List returns all catalog entries
func (s *ingestService) List(ctx context.Context) ([]*domain.Document, error) {
	return s.documentStore.List(ctx)
}

// keepUpload writes the raw upload to the upload directory
func (s *ingestService) keepUpload(doc *domain.Document, filename string, data []byte) error {
	if s.uploadDir == "" {
		return nil
	}
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return err
	}
	name := doc.ID + "_" + filepath.Base(filename)
	return os.WriteFile(filepath.Join(s.uploadDir, name), data, 0o644)
}

// chunkDocument runs the post-processing pipeline and assigns each chunk a
// page estimate proportional to its offset within the text.
func (s *ingestService) chunkDocument(doc *domain.Document, extraction *driven.Extraction) []domain.Chunk {
	text := extraction.Text
	if strings.TrimSpace(text) == "" {
		return nil
	}

	pieces := s.pipeline.Process(text)
	chunks := make([]domain.Chunk, 0, len(pieces))
	for _, piece := range pieces {
		chunks = append(chunks, domain.Chunk{
			DocumentID:   doc.ID,
			DocumentName: doc.Filename,
			Index:        piece.Position,
			Text:         piece.Content,
			PageNumber:   estimatePage(piece.StartOffset, len(text), doc.TotalPages),
		})
	}
	return chunks
}

// indexChunks embeds every chunk first, then commits them in one upsert so
// a mid-batch embedding failure leaves no partial document in the index.
func (s *ingestService) indexChunks(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error {
	embedder := s.services.EmbeddingService()
	if embedder == nil {
		return domain.ErrServiceUnavailable
	}

	if len(chunks) == 0 {
		// Still clear any previous entries under this id
		return s.index.Upsert(ctx, doc.ID, nil)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	embeddings, err := embedder.Embed(ctx, texts)
	if err != nil {
		return err
	}
	if len(embeddings) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: %d texts, %d vectors", len(chunks), len(embeddings))
	}

	entries := make([]driven.IndexEntry, len(chunks))
	for i := range chunks {
		entries[i] = driven.IndexEntry{Chunk: chunks[i], Embedding: embeddings[i]}
	}
	return s.index.Upsert(ctx, doc.ID, entries)
}

// estimatePage maps a chunk's byte offset to an approximate page number
func estimatePage(offset, textLen, totalPages int) int {
	if totalPages <= 1 || textLen == 0 {
		return 1
	}
	page := offset*totalPages/textLen + 1
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
