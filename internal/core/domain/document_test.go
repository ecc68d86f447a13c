package domain

import (
	"errors"
	"testing"
)

func TestFileExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"report.pdf", ".pdf"},
		{"Report.PDF", ".pdf"},
		{"data.tar.csv", ".csv"},
		{"noext", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := FileExtension(tt.filename); got != tt.want {
			t.Errorf("FileExtension(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestValidateFilename(t *testing.T) {
	for _, name := range []string{"a.pdf", "b.docx", "c.json", "d.csv", "UPPER.CSV"} {
		if err := ValidateFilename(name); err != nil {
			t.Errorf("ValidateFilename(%q) = %v, want nil", name, err)
		}
	}

	if err := ValidateFilename("noext"); !errors.Is(err, ErrMissingExtension) {
		t.Errorf("expected ErrMissingExtension, got %v", err)
	}
	if err := ValidateFilename("evil.exe"); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}
