package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingExtension indicates an upload filename without an extension
	ErrMissingExtension = errors.New("file must have an extension")

	// ErrUnsupportedType indicates an upload with an unsupported extension
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrExtraction indicates the text extractor failed to produce text
	ErrExtraction = errors.New("text extraction failed")

	// ErrEmbedding indicates an embedding call failed during indexing
	ErrEmbedding = errors.New("embedding failed")

	// ErrRetrieval indicates a similarity query against the index failed
	ErrRetrieval = errors.New("retrieval failed")

	// ErrGeneration indicates the model call failed before or mid-stream
	ErrGeneration = errors.New("generation failed")

	// ErrPersistence indicates a durable read or write failed
	ErrPersistence = errors.New("persistence failed")

	// ErrInvalidFormat indicates an unrecognised export format
	ErrInvalidFormat = errors.New("unsupported export format")

	// ErrEmptyConversation indicates an export of a conversation with no messages
	ErrEmptyConversation = errors.New("conversation has no messages")

	// ErrServiceUnavailable indicates the AI service could not be reached
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrInvalidProvider indicates an unknown AI provider was specified
	ErrInvalidProvider = errors.New("invalid provider")
)
