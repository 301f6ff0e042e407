package docparse

import (
	"fmt"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

func extractDOCX(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat docx: %w", err)
	}

	doc, err := docx.Parse(f, info.Size())
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}

	var b strings.Builder
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			b.WriteString(it.String())
			b.WriteString("\n")
		case *docx.Table:
			b.WriteString(it.String())
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}
