package driving

import "context"

// ExportService renders conversations into downloadable files
type ExportService interface {
	// Export renders the conversation in the requested format and returns
	// the generated filename. domain.ErrNotFound for an unknown or empty
	// conversation, domain.ErrInvalidFormat for an unknown format.
	Export(ctx context.Context, conversationID, format string) (string, error)

	// Resolve maps an export filename to its on-disk path.
	// domain.ErrNotFound when no such file exists.
	Resolve(ctx context.Context, filename string) (string, error)
}
