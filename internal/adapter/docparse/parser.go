// Package docparse extracts plain text from uploaded documents.
package docparse

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arturoeanton/go-nlq-employee-ollama/internal/port"
)

// Parser implements port.DocumentParser with per-extension extractors.
type Parser struct{}

// NewParser creates a document parser.
func NewParser() *Parser {
	return &Parser{}
}

// Supported reports whether files with the given extension can be parsed.
func (p *Parser) Supported(ext string) bool {
	switch normalizeExt(ext) {
	case ".pdf", ".docx", ".txt", ".md", ".csv":
		return true
	}
	return false
}

// Extract returns the plain-text content of the file at path, dispatching
// on the file extension.
func (p *Parser) Extract(path string) (string, error) {
	switch normalizeExt(filepath.Ext(path)) {
	case ".pdf":
		return extractPDF(path)
	case ".docx":
		return extractDOCX(path)
	case ".txt", ".md":
		return extractText(path)
	case ".csv":
		return extractCSV(path)
	default:
		return "", fmt.Errorf("%w: %s", port.ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
