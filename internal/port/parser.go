package port

// DocumentParser extracts plain text from uploaded files.
type DocumentParser interface {
	// Supported reports whether the file extension (e.g. ".pdf") can be parsed.
	Supported(ext string) bool

	// Extract returns the plain-text content of the file at path.
	Extract(path string) (string, error)
}
