package port

import "errors"

// Sentinel errors used across ports.
var (
	ErrNotConnected      = errors.New("no database connected")
	ErrNoEmployeeTable   = errors.New("no employee-like table found in schema")
	ErrUnsupportedDriver = errors.New("unsupported database driver")
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrEmptyDocument     = errors.New("document contains no extractable text")
	ErrJobNotFound       = errors.New("job not found")
)
