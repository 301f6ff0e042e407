package docparse

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arturoeanton/go-nlq-employee-ollama/internal/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSupported(t *testing.T) {
	p := NewParser()

	assert.True(t, p.Supported(".pdf"))
	assert.True(t, p.Supported(".docx"))
	assert.True(t, p.Supported(".txt"))
	assert.True(t, p.Supported(".md"))
	assert.True(t, p.Supported(".csv"))

	// Extension normalization
	assert.True(t, p.Supported("PDF"))
	assert.True(t, p.Supported(" .TXT "))

	assert.False(t, p.Supported(".exe"))
	assert.False(t, p.Supported(".doc"))
	assert.False(t, p.Supported(""))
}

func TestExtractText(t *testing.T) {
	p := NewParser()

	path := writeFile(t, "notes.txt", "line one\nline two\n")
	text, err := p.Extract(path)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", text)

	t.Run("markdown uses the same extractor", func(t *testing.T) {
		path := writeFile(t, "readme.md", "# Title\nbody\n")
		text, err := p.Extract(path)
		require.NoError(t, err)
		assert.Contains(t, text, "# Title")
	})
}

func TestExtractCSV(t *testing.T) {
	p := NewParser()

	path := writeFile(t, "people.csv", "name,role\nAlice,Engineer\nBob,Manager\n")
	text, err := p.Extract(path)
	require.NoError(t, err)

	assert.Equal(t, "name: Alice, role: Engineer\nname: Bob, role: Manager\n", text)

	t.Run("ragged rows keep bare values", func(t *testing.T) {
		path := writeFile(t, "ragged.csv", "name,role\nAlice,Engineer,extra\n")
		text, err := p.Extract(path)
		require.NoError(t, err)
		assert.Equal(t, "name: Alice, role: Engineer, extra\n", text)
	})

	t.Run("header only", func(t *testing.T) {
		path := writeFile(t, "empty.csv", "name,role\n")
		text, err := p.Extract(path)
		require.NoError(t, err)
		assert.Empty(t, text)
	})
}

func TestExtractUnsupported(t *testing.T) {
	p := NewParser()

	_, err := p.Extract(writeFile(t, "binary.exe", "MZ"))
	assert.ErrorIs(t, err, port.ErrUnsupportedFormat)
}

func TestExtractMissingFile(t *testing.T) {
	_, err := NewParser().Extract(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
