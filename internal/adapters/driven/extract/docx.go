package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.Extractor = (*DocxExtractor)(nil)

// docxCharsPerPage is the character count treated as one page.
// DOCX files carry no pagination; the estimate assumes ~3000 chars a page.
const docxCharsPerPage = 3000

// DocxExtractor pulls text out of DOCX files (word/document.xml inside the
// OPC zip container). Paragraph boundaries become newlines.
type DocxExtractor struct{}

func (e *DocxExtractor) Extensions() []string {
	return []string{".docx"}
}

func (e *DocxExtractor) Extract(data []byte) (*driven.Extraction, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open docx container: %w", err)
	}

	var docXML io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docXML, err = f.Open()
			if err != nil {
				return nil, fmt.Errorf("failed to open document part: %w", err)
			}
			break
		}
	}
	if docXML == nil {
		return nil, fmt.Errorf("docx has no word/document.xml")
	}
	defer docXML.Close()

	text, err := readDocumentXML(docXML)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document part: %w", err)
	}

	pages := len(text) / docxCharsPerPage
	if pages < 1 {
		pages = 1
	}

	return &driven.Extraction{
		Text:       normalizeNewlines(text),
		TotalPages: pages,
	}, nil
}

// readDocumentXML walks the WordprocessingML token stream collecting run
// text (w:t), tabs and explicit breaks, closing each paragraph (w:p) with
// a newline.
func readDocumentXML(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var sb strings.Builder

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				var content string
				if err := dec.DecodeElement(&content, &t); err != nil {
					return "", err
				}
				sb.WriteString(content)
			case "tab":
				sb.WriteString("\t")
			case "br", "cr":
				sb.WriteString("\n")
			}
		case xml.EndElement:
			if t.Name.Local == "p" {
				sb.WriteString("\n")
			}
		}
	}

	return sb.String(), nil
}
