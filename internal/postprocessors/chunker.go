package postprocessors

import (
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// ChunkConfig configures the chunker behavior.
type ChunkConfig struct {
	// MaxChunkSize is the maximum characters per chunk
	MaxChunkSize int

	// Overlap is the character overlap between consecutive chunks
	Overlap int
}

// DefaultChunkConfig returns sensible defaults.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		MaxChunkSize: 1000,
		Overlap:      200,
	}
}

// separators, coarsest first: paragraph, line, sentence, word, character.
// The empty separator means a hard character cut.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

// Chunker splits text into overlapping chunks by recursively descending
// through separator granularities until every piece fits, then merging
// adjacent pieces back up to the size limit.
//
// Splitting is deterministic for identical input and parameters. Every
// separator stays attached to the piece it terminates, so consecutive
// chunks share an exact character-level overlap: dropping each chunk's
// leading overlap and concatenating reproduces the input verbatim.
type Chunker struct {
	config ChunkConfig
}

// Verify interface compliance
var _ driven.PostProcessor = (*Chunker)(nil)

// NewChunker creates a new chunker with the given config.
func NewChunker(config ChunkConfig) *Chunker {
	if config.MaxChunkSize <= 0 {
		config.MaxChunkSize = DefaultChunkConfig().MaxChunkSize
	}
	if config.Overlap < 0 || config.Overlap >= config.MaxChunkSize {
		config.Overlap = config.MaxChunkSize / 5
	}
	return &Chunker{config: config}
}

// Process splits each incoming piece into overlapping chunks.
func (c *Chunker) Process(pieces []driven.TextChunk) []driven.TextChunk {
	var result []driven.TextChunk
	position := 0

	for _, piece := range pieces {
		result = append(result, c.splitContent(piece.Content, piece.StartOffset, &position)...)
	}

	return result
}

// Name returns the processor name.
func (c *Chunker) Name() string {
	return "chunker"
}

// Order returns 0 - chunker should be first.
func (c *Chunker) Order() int {
	return 0
}

// Split is the standalone chunking contract: it returns the ordered chunk
// texts for the given input.
func (c *Chunker) Split(text string) []string {
	chunks := c.splitContent(text, 0, new(int))
	out := make([]string, len(chunks))
	for i, ch := range chunks {
		out[i] = ch.Content
	}
	return out
}

func (c *Chunker) splitContent(content string, baseOffset int, position *int) []driven.TextChunk {
	if content == "" {
		return nil
	}

	// A document shorter than the limit yields exactly one chunk.
	if len(content) <= c.config.MaxChunkSize {
		chunk := driven.TextChunk{
			Content:     content,
			Position:    *position,
			StartOffset: baseOffset,
			EndOffset:   baseOffset + len(content),
		}
		*position++
		return []driven.TextChunk{chunk}
	}

	// Every piece must leave room for the overlap carried into its chunk.
	pieces := splitRecursive(content, c.config.MaxChunkSize-c.config.Overlap, separators)

	return c.merge(pieces, baseOffset, position)
}

// merge greedily packs pieces into chunks of at most MaxChunkSize, seeding
// each chunk after the first with the previous chunk's trailing overlap.
func (c *Chunker) merge(pieces []string, baseOffset int, position *int) []driven.TextChunk {
	var chunks []driven.TextChunk

	consumed := 0 // characters of the original content emitted so far
	carry := ""   // overlap seed for the current chunk
	cur := ""

	flush := func() {
		chunks = append(chunks, driven.TextChunk{
			Content:     cur,
			Position:    *position,
			StartOffset: baseOffset + consumed,
			EndOffset:   baseOffset + consumed + len(cur) - len(carry),
		})
		*position++
		consumed += len(cur) - len(carry)

		carry = tail(cur, c.config.Overlap)
		cur = carry
	}

	for _, piece := range pieces {
		if len(cur)+len(piece) > c.config.MaxChunkSize && len(cur) > len(carry) {
			flush()
		}
		cur += piece
	}
	if len(cur) > len(carry) || len(chunks) == 0 {
		flush()
	}

	return chunks
}

// splitRecursive splits content into pieces of at most limit characters,
// trying each separator in order from coarsest to finest. Separators stay
// attached to the end of the piece they terminate, so the concatenation of
// all pieces equals the input.
func splitRecursive(content string, limit int, seps []string) []string {
	if len(content) <= limit {
		if content == "" {
			return nil
		}
		return []string{content}
	}

	sep := seps[0]
	if sep == "" {
		// Character level: hard cut. The cut backs up to a rune boundary
		// so no chunk ever holds a torn multi-byte sequence.
		var out []string
		for len(content) > limit {
			cut := limit
			for cut > 0 && !utf8.RuneStart(content[cut]) {
				cut--
			}
			if cut == 0 {
				cut = limit
			}
			out = append(out, content[:cut])
			content = content[cut:]
		}
		if content != "" {
			out = append(out, content)
		}
		return out
	}

	var out []string
	for _, part := range splitAfter(content, sep) {
		if len(part) <= limit {
			out = append(out, part)
			continue
		}
		out = append(out, splitRecursive(part, limit, seps[1:])...)
	}
	return out
}

// splitAfter splits s after every occurrence of sep, keeping sep attached
// to the preceding part.
func splitAfter(s, sep string) []string {
	parts := strings.SplitAfter(s, sep)
	// SplitAfter yields a trailing empty part when s ends with sep.
	if n := len(parts); n > 0 && parts[n-1] == "" {
		parts = parts[:n-1]
	}
	return parts
}

// tail returns at most the last n bytes of s, moved forward to the next
// rune boundary so an overlap never starts mid-rune.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	start := len(s) - n
	for start < len(s) && !utf8.RuneStart(s[start]) {
		start++
	}
	return s[start:]
}
