package model

import (
	"fmt"
	"io/fs"
)

// PathNotFoundError is returned when the root path given to the tool does not exist.
type PathNotFoundError struct {
	Path string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("path does not exist: %s", e.Path)
}

func (e *PathNotFoundError) Unwrap() error { return fs.ErrNotExist }

// UnsupportedFormatError means the file has no codec for its extension
// or its content could not be decoded.
type UnsupportedFormatError struct {
	Path string
	Err  error
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported image %s: %v", e.Path, e.Err)
}

func (e *UnsupportedFormatError) Unwrap() error { return e.Err }

// ExifReadError wraps a failure to decode the EXIF block of a file.
// It never leaves the date resolver.
type ExifReadError struct {
	Path string
	Err  error
}

func (e *ExifReadError) Error() string {
	return fmt.Sprintf("read exif %s: %v", e.Path, e.Err)
}

func (e *ExifReadError) Unwrap() error { return e.Err }

// FontLoadError is returned when a requested font file is missing or corrupt.
type FontLoadError struct {
	Path string
	Err  error
}

func (e *FontLoadError) Error() string {
	return fmt.Sprintf("load font %s: %v", e.Path, e.Err)
}

func (e *FontLoadError) Unwrap() error { return e.Err }

// WriteError is returned when the rendered image cannot be persisted.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
