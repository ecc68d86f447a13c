package driven

// Extraction is the result of pulling text out of an uploaded file
type Extraction struct {
	// Text is the full normalized document text
	Text string

	// TotalPages is the page count: exact for PDFs, estimated otherwise
	TotalPages int
}

// Extractor pulls plain text out of one file format
type Extractor interface {
	// Extensions returns the lowercase extensions this extractor handles,
	// including the dot
	Extensions() []string

	// Extract produces the document text and page estimate from raw bytes
	Extract(data []byte) (*Extraction, error)
}

// ExtractorRegistry resolves extractors by file extension
type ExtractorRegistry interface {
	// ForExtension returns the extractor registered for ext (lowercase,
	// with dot), or false when the extension is not supported
	ForExtension(ext string) (Extractor, bool)

	// Extensions lists all registered extensions
	Extensions() []string
}
