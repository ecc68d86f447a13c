package mocks

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// MockVectorIndex is an in-memory mock implementation of VectorIndex for testing
type MockVectorIndex struct {
	mu       sync.RWMutex
	seq      uint64
	entries  map[uint64]driven.IndexEntry
	byDoc    map[string][]uint64
	failNext bool
}

// NewMockVectorIndex creates a new MockVectorIndex
func NewMockVectorIndex() *MockVectorIndex {
	return &MockVectorIndex{
		entries: make(map[uint64]driven.IndexEntry),
		byDoc:   make(map[string][]uint64),
	}
}

func (m *MockVectorIndex) Upsert(ctx context.Context, documentID string, entries []driven.IndexEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failNext {
		m.failNext = false
		return context.DeadlineExceeded
	}

	for _, seq := range m.byDoc[documentID] {
		delete(m.entries, seq)
	}
	seqs := make([]uint64, 0, len(entries))
	for _, e := range entries {
		m.seq++
		m.entries[m.seq] = e
		seqs = append(seqs, m.seq)
	}
	m.byDoc[documentID] = seqs
	return nil
}

func (m *MockVectorIndex) Query(ctx context.Context, embedding []float32, k int) ([]domain.ScoredChunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failNext {
		m.failNext = false
		return nil, context.DeadlineExceeded
	}

	seqs := make([]uint64, 0, len(m.entries))
	for seq := range m.entries {
		seqs = append(seqs, seq)
	}
	sort.Slice(seqs, func(i, j int) bool { return seqs[i] < seqs[j] })

	scored := make([]domain.ScoredChunk, 0, len(seqs))
	for _, seq := range seqs {
		e := m.entries[seq]
		scored = append(scored, domain.ScoredChunk{
			Chunk: e.Chunk,
			Score: cosine(embedding, e.Embedding),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	if k < len(scored) {
		scored = scored[:k]
	}
	return scored, nil
}

func (m *MockVectorIndex) Size(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}

func (m *MockVectorIndex) Close() error {
	return nil
}

// Helper methods for testing

func (m *MockVectorIndex) SetFailNext(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = fail
}

// DocumentChunks returns the stored chunks for a document, insertion order
func (m *MockVectorIndex) DocumentChunks(documentID string) []domain.Chunk {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var chunks []domain.Chunk
	for _, seq := range m.byDoc[documentID] {
		if e, ok := m.entries[seq]; ok {
			chunks = append(chunks, e.Chunk)
		}
	}
	return chunks
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
