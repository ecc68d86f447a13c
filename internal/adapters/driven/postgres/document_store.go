package postgres

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore implements driven.DocumentStore using PostgreSQL
type DocumentStore struct {
	db *DB
}

// NewDocumentStore creates a new DocumentStore
func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Save creates or updates a catalog entry
func (s *DocumentStore) Save(ctx context.Context, doc *domain.Document) error {
	query := `
		INSERT INTO documents (id, filename, document_type, upload_date, total_pages, status, embedding_status, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			filename = EXCLUDED.filename,
			document_type = EXCLUDED.document_type,
			upload_date = EXCLUDED.upload_date,
			total_pages = EXCLUDED.total_pages,
			status = EXCLUDED.status,
			embedding_status = EXCLUDED.embedding_status,
			error = EXCLUDED.error
	`

	_, err := s.db.ExecContext(ctx, query,
		doc.ID,
		doc.Filename,
		doc.DocumentType,
		doc.UploadDate,
		doc.TotalPages,
		doc.Status,
		doc.EmbeddingStatus,
		doc.Error,
	)
	return err
}

// List returns all documents ordered by upload time, oldest first
func (s *DocumentStore) List(ctx context.Context) ([]*domain.Document, error) {
	query := `
		SELECT id, filename, document_type, upload_date, total_pages, status, embedding_status, error
		FROM documents
		ORDER BY upload_date ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		doc := &domain.Document{}
		if err := rows.Scan(
			&doc.ID,
			&doc.Filename,
			&doc.DocumentType,
			&doc.UploadDate,
			&doc.TotalPages,
			&doc.Status,
			&doc.EmbeddingStatus,
			&doc.Error,
		); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// SetEmbeddingStatus records the indexing outcome for a document
func (s *DocumentStore) SetEmbeddingStatus(ctx context.Context, id string, status domain.EmbeddingStatus, errMsg string) error {
	query := `UPDATE documents SET embedding_status = $2, error = $3 WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, id, status, errMsg)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Count returns the number of catalog entries
func (s *DocumentStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count)
	return count, err
}
