package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.Exporter = (*FileExporter)(nil)

// timestampLayout names export files down to the second
const timestampLayout = "20060102_150405"

// FileExporter renders conversations into txt or pdf files under a fixed
// export directory.
type FileExporter struct {
	dir string
	now func() time.Time
}

// NewFileExporter creates a FileExporter writing into dir
func NewFileExporter(dir string) (*FileExporter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export dir: %w", err)
	}
	return &FileExporter{dir: dir, now: time.Now}, nil
}

// Export writes the turns in the requested format and returns the filename
func (e *FileExporter) Export(turns []domain.ChatTurn, conversationID, format string) (string, error) {
	switch strings.ToLower(format) {
	case "txt":
		return e.exportTxt(turns, conversationID)
	case "pdf":
		return e.exportPDF(turns, conversationID)
	default:
		return "", domain.ErrInvalidFormat
	}
}

// Path resolves an export filename to its on-disk path
func (e *FileExporter) Path(filename string) string {
	return filepath.Join(e.dir, filename)
}

func (e *FileExporter) filename(conversationID, ext string) string {
	return fmt.Sprintf("chat_export_%s_%s.%s", conversationID, e.now().Format(timestampLayout), ext)
}

func (e *FileExporter) exportTxt(turns []domain.ChatTurn, conversationID string) (string, error) {
	var sb strings.Builder
	for _, turn := range turns {
		fmt.Fprintf(&sb, "User: %s\n\n", turn.UserMessage)
		fmt.Fprintf(&sb, "Assistant: %s\n", turn.Response)
		if len(turn.Sources) > 0 {
			sb.WriteString("\nSources:\n")
			for _, src := range turn.Sources {
				fmt.Fprintf(&sb, "- %s (Page %d)\n", src.DocumentName, src.PageNumber)
			}
		}
		sb.WriteString("\n" + strings.Repeat("-", 80) + "\n\n")
	}

	filename := e.filename(conversationID, "txt")
	if err := os.WriteFile(e.Path(filename), []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return filename, nil
}

func (e *FileExporter) exportPDF(turns []domain.ChatTurn, conversationID string) (string, error) {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(25, 25, 25)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Chat Export", "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(51, 51, 51)
	pdf.CellFormat(0, 6, "Exported on: "+e.now().Format("2006-01-02 15:04:05"), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	for _, turn := range turns {
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(25, 118, 210)
		pdf.MultiCell(0, 5.5, tr("User: "+turn.UserMessage), "", "L", false)
		pdf.Ln(3)

		pdf.SetTextColor(51, 51, 51)
		pdf.MultiCell(0, 5.5, tr("Assistant: "+turn.Response), "", "L", false)
		pdf.Ln(3)

		if len(turn.Sources) > 0 {
			pdf.SetFont("Helvetica", "", 8)
			pdf.SetTextColor(128, 128, 128)
			pdf.SetX(pdf.GetX() + 8)
			pdf.MultiCell(0, 4.5, "Sources:", "", "L", false)
			for _, src := range turn.Sources {
				pdf.SetX(pdf.GetX() + 8)
				pdf.MultiCell(0, 4.5, tr(fmt.Sprintf("- %s (Page %d)", src.DocumentName, src.PageNumber)), "", "L", false)
			}
		}
		pdf.Ln(6)
	}

	filename := e.filename(conversationID, "pdf")
	if err := pdf.OutputFileAndClose(e.Path(filename)); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return filename, nil
}
