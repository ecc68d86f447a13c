package driven

import (
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// Exporter renders conversation turns into a downloadable file
type Exporter interface {
	// Export writes the turns in the requested format ("txt" or "pdf")
	// and returns the generated filename. domain.ErrInvalidFormat for an
	// unrecognised format.
	Export(turns []domain.ChatTurn, conversationID, format string) (string, error)

	// Path resolves an export filename to its on-disk path
	Path(filename string) string
}
