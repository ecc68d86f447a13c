package driven

// PostProcessor applies post-processing to document content or chunks.
// Processors form a pipeline: Chunker -> Normalizer -> etc.
type PostProcessor interface {
	// Process applies post-processing to content pieces.
	// The first processor (Chunker) receives a single piece with the full
	// content. Subsequent processors receive the pieces from the previous
	// stage.
	Process(pieces []TextChunk) []TextChunk

	// Name returns the processor name for logging/debugging.
	Name() string

	// Order returns the processor order in the pipeline (lower = earlier).
	// Chunker should be 0, subsequent processors increment from there.
	Order() int
}

// TextChunk is a piece of document text moving through the pipeline.
type TextChunk struct {
	// Content is the text content of the piece
	Content string

	// Position is the piece index within the document (0-based)
	Position int

	// StartOffset is the character offset of the first non-overlap
	// character, measured from document start
	StartOffset int

	// EndOffset is the character offset for piece end
	EndOffset int
}

// PostProcessorPipeline chains multiple post-processors in order.
type PostProcessorPipeline interface {
	// Process applies all processors in order.
	// Input is the raw document text.
	// Output is the pieces ready for embedding/indexing.
	Process(content string) []TextChunk

	// Add adds a processor to the pipeline.
	// Processors are sorted by Order() before processing.
	Add(processor PostProcessor)

	// List returns processor names in order.
	List() []string
}
