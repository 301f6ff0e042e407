package docparse

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

func extractText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return string(data), nil
}

// extractCSV flattens each record into a "header: value" line so the row
// content stays attached to its column meaning when chunked.
func extractCSV(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return "", nil
	}

	header := records[0]
	var b strings.Builder
	for _, record := range records[1:] {
		pairs := make([]string, 0, len(record))
		for i, field := range record {
			if i < len(header) && header[i] != "" {
				pairs = append(pairs, header[i]+": "+field)
			} else {
				pairs = append(pairs, field)
			}
		}
		b.WriteString(strings.Join(pairs, ", "))
		b.WriteString("\n")
	}
	return b.String(), nil
}
