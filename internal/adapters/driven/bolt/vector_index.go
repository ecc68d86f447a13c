package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"go.etcd.io/bbolt"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.VectorIndex = (*VectorIndex)(nil)

var (
	bucketEntries = []byte("entries")
	bucketDocs    = []byte("doc_entries")
)

// VectorIndex implements driven.VectorIndex on a single bbolt file.
//
// Entries are keyed by a monotonically increasing sequence number, so a
// cursor walk visits them in insertion order; similarity ties therefore
// resolve chunk-index-ascending within a document. bbolt serializes write
// transactions, which makes each per-document upsert atomic, while read
// transactions run concurrently.
type VectorIndex struct {
	db *bbolt.DB
}

// entryRecord is the stored form of one indexed chunk
type entryRecord struct {
	DocumentID   string    `json:"document_id"`
	DocumentName string    `json:"document_name"`
	ChunkIndex   int       `json:"chunk_index"`
	PageNumber   int       `json:"page_number"`
	Text         string    `json:"text"`
	Embedding    []float32 `json:"embedding"`
}

// Open opens (or creates) the index at the given path
func Open(path string) (*VectorIndex, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector index: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketEntries, bucketDocs} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &VectorIndex{db: db}, nil
}

// Upsert stores the entries for one document in a single write transaction,
// replacing any entries previously stored under the same document id.
func (v *VectorIndex) Upsert(ctx context.Context, documentID string, entries []driven.IndexEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return v.db.Update(func(tx *bbolt.Tx) error {
		entryBucket := tx.Bucket(bucketEntries)
		docBucket := tx.Bucket(bucketDocs)

		// Drop any previous entries for this document (idempotent re-upsert)
		if existing := docBucket.Get([]byte(documentID)); existing != nil {
			var seqs []uint64
			if err := json.Unmarshal(existing, &seqs); err == nil {
				for _, seq := range seqs {
					if err := entryBucket.Delete(seqKey(seq)); err != nil {
						return err
					}
				}
			}
		}

		seqs := make([]uint64, 0, len(entries))
		for _, entry := range entries {
			seq, err := entryBucket.NextSequence()
			if err != nil {
				return err
			}

			rec := entryRecord{
				DocumentID:   entry.Chunk.DocumentID,
				DocumentName: entry.Chunk.DocumentName,
				ChunkIndex:   entry.Chunk.Index,
				PageNumber:   entry.Chunk.PageNumber,
				Text:         entry.Chunk.Text,
				Embedding:    entry.Embedding,
			}
			data, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			if err := entryBucket.Put(seqKey(seq), data); err != nil {
				return err
			}
			seqs = append(seqs, seq)
		}

		seqData, err := json.Marshal(seqs)
		if err != nil {
			return err
		}
		return docBucket.Put([]byte(documentID), seqData)
	})
}

// Query scans the index and returns the min(k, size) most similar chunks,
// ordered by non-increasing cosine similarity.
func (v *VectorIndex) Query(ctx context.Context, embedding []float32, k int) ([]domain.ScoredChunk, error) {
	if k <= 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var scored []domain.ScoredChunk
	err := v.db.View(func(tx *bbolt.Tx) error {
		cursor := tx.Bucket(bucketEntries).Cursor()
		for key, value := cursor.First(); key != nil; key, value = cursor.Next() {
			var rec entryRecord
			if err := json.Unmarshal(value, &rec); err != nil {
				return fmt.Errorf("corrupt index entry %x: %w", key, err)
			}
			scored = append(scored, domain.ScoredChunk{
				Chunk: domain.Chunk{
					DocumentID:   rec.DocumentID,
					DocumentName: rec.DocumentName,
					Index:        rec.ChunkIndex,
					Text:         rec.Text,
					PageNumber:   rec.PageNumber,
				},
				Score: cosineSimilarity(embedding, rec.Embedding),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Stable sort keeps insertion order for equal scores
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k], nil
}

// Size returns the number of indexed chunks
func (v *VectorIndex) Size(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var n int
	err := v.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketEntries).Stats().KeyN
		return nil
	})
	return n, err
}

// Close releases the underlying store
func (v *VectorIndex) Close() error {
	return v.db.Close()
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
