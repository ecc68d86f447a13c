package postprocessors

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestChunker_ShortDocumentSingleChunk(t *testing.T) {
	c := NewChunker(DefaultChunkConfig())

	text := "A short document that easily fits in one chunk."
	chunks := c.Split(text)

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != text {
		t.Errorf("chunk must equal input, got %q", chunks[0])
	}
}

func TestChunker_RespectsMaxSize(t *testing.T) {
	cfg := ChunkConfig{MaxChunkSize: 100, Overlap: 20}
	c := NewChunker(cfg)

	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("The quick brown fox jumps over the lazy dog. ")
	}

	chunks := c.Split(b.String())
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if len(ch) == 0 {
			t.Errorf("chunk %d is empty", i)
		}
		if len(ch) > cfg.MaxChunkSize {
			t.Errorf("chunk %d has %d chars, limit %d", i, len(ch), cfg.MaxChunkSize)
		}
	}
}

func TestChunker_OverlapReconstruction(t *testing.T) {
	cfg := ChunkConfig{MaxChunkSize: 120, Overlap: 30}
	c := NewChunker(cfg)

	texts := []string{
		strings.Repeat("First paragraph of prose.\n\nSecond paragraph with more words in it.\n", 12),
		strings.Repeat("One sentence here. Another sentence there. ", 25),
		strings.Repeat("word ", 300),
		strings.Repeat("x", 1000), // no separators at all
	}

	for _, text := range texts {
		chunks := c.Split(text)

		// Drop each chunk's leading overlap (the previous chunk's tail)
		// and concatenate: the result must reproduce the input.
		var b strings.Builder
		for i, ch := range chunks {
			if i == 0 {
				b.WriteString(ch)
				continue
			}
			prev := chunks[i-1]
			ov := cfg.Overlap
			if len(prev) < ov {
				ov = len(prev)
			}
			if !strings.HasPrefix(ch, prev[len(prev)-ov:]) {
				t.Fatalf("chunk %d does not start with the previous chunk's tail", i)
			}
			b.WriteString(ch[ov:])
		}
		if b.String() != text {
			t.Errorf("reconstruction mismatch: got %d chars, want %d", b.Len(), len(text))
		}
	}
}

func TestChunker_MultiByteRuneBoundaries(t *testing.T) {
	cfg := ChunkConfig{MaxChunkSize: 100, Overlap: 25}
	c := NewChunker(cfg)

	texts := []string{
		strings.Repeat("世界", 500),            // no separators, 3-byte runes
		strings.Repeat("日本語のテキストです。 ", 60),   // word separators between runs
		strings.Repeat("mixed ascii と 漢字 ", 80),
	}

	for _, text := range texts {
		chunks := c.splitContent(text, 0, new(int))
		if len(chunks) < 2 {
			t.Fatalf("expected multiple chunks for %d bytes, got %d", len(text), len(chunks))
		}

		var b strings.Builder
		for i, ch := range chunks {
			if !utf8.ValidString(ch.Content) {
				t.Fatalf("chunk %d is not valid UTF-8: %q", i, ch.Content)
			}
			if len(ch.Content) > cfg.MaxChunkSize {
				t.Errorf("chunk %d has %d bytes, limit %d", i, len(ch.Content), cfg.MaxChunkSize)
			}
			// Strip the leading overlap carried from the previous chunk;
			// what remains is the new content at [StartOffset, EndOffset).
			carry := len(ch.Content) - (ch.EndOffset - ch.StartOffset)
			b.WriteString(ch.Content[carry:])
		}
		if b.String() != text {
			t.Errorf("reconstruction mismatch: got %d bytes, want %d", b.Len(), len(text))
		}
	}
}

func TestChunker_Deterministic(t *testing.T) {
	c := NewChunker(ChunkConfig{MaxChunkSize: 150, Overlap: 40})
	text := strings.Repeat("Some repeatable content with spaces and lines.\n", 30)

	first := c.Split(text)
	second := c.Split(text)

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestChunker_OffsetsTrackNewContent(t *testing.T) {
	cfg := ChunkConfig{MaxChunkSize: 100, Overlap: 25}
	c := NewChunker(cfg)
	text := strings.Repeat("Offset tracking sentence goes here. ", 20)

	pieces := c.Process(nil)
	if pieces != nil {
		t.Fatalf("no input must yield no output, got %d", len(pieces))
	}

	chunks := c.splitContent(text, 0, new(int))
	if chunks[0].StartOffset != 0 {
		t.Errorf("first chunk must start at 0, got %d", chunks[0].StartOffset)
	}
	for i := 1; i < len(chunks); i++ {
		if chunks[i].StartOffset != chunks[i-1].EndOffset {
			t.Errorf("chunk %d start %d does not continue previous end %d",
				i, chunks[i].StartOffset, chunks[i-1].EndOffset)
		}
		if chunks[i].Position != i {
			t.Errorf("chunk %d has position %d", i, chunks[i].Position)
		}
	}
	last := chunks[len(chunks)-1]
	if last.EndOffset != len(text) {
		t.Errorf("last chunk ends at %d, want %d", last.EndOffset, len(text))
	}
}

func TestPipeline_DefaultChunksLongContent(t *testing.T) {
	p := DefaultPipeline()

	if got := p.List(); len(got) != 1 || got[0] != "chunker" {
		t.Fatalf("unexpected processors: %v", got)
	}

	text := strings.Repeat("Pipeline content with sentences. More of them here. ", 60)
	pieces := p.Process(text)
	if len(pieces) < 2 {
		t.Fatalf("expected multiple pieces for %d chars, got %d", len(text), len(pieces))
	}
	for _, piece := range pieces {
		if len(piece.Content) > 1000 {
			t.Errorf("piece exceeds default limit: %d", len(piece.Content))
		}
	}
}
