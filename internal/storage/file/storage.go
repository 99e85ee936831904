package file

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/spf13/afero"

	"github.com/aliskhannn/datemark/internal/model"
)

// DefaultJPEGQuality is used when no quality is configured.
const DefaultJPEGQuality = 95

// Storage reads source images and writes watermarked copies into a
// subdirectory next to each source.
type Storage struct {
	fs          afero.Fs
	subdir      string
	jpegQuality int
}

// NewStorage creates a Storage on fs writing into subdir (e.g. "_watermark").
func NewStorage(fs afero.Fs, subdir string, jpegQuality int) *Storage {
	if jpegQuality <= 0 || jpegQuality > 100 {
		jpegQuality = DefaultJPEGQuality
	}

	return &Storage{
		fs:          fs,
		subdir:      subdir,
		jpegQuality: jpegQuality,
	}
}

// Open returns a reader for the file at path.
func (s *Storage) Open(path string) (io.ReadCloser, error) {
	f, err := s.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load file: %w", err)
	}

	return f, nil
}

// Destination returns the path a watermarked copy of sourcePath is written to.
func (s *Storage) Destination(sourcePath string) string {
	return filepath.Join(filepath.Dir(sourcePath), s.subdir, filepath.Base(sourcePath))
}

// Save encodes img in the format implied by sourcePath's extension and
// writes it to Destination(sourcePath), replacing any existing file.
// Returns the written path.
func (s *Storage) Save(sourcePath string, img image.Image) (string, error) {
	format, err := imaging.FormatFromFilename(sourcePath)
	if err != nil {
		return "", &model.UnsupportedFormatError{Path: sourcePath, Err: err}
	}

	// Encode fully before touching the destination so a failed encode
	// leaves no truncated file behind.
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, format, imaging.JPEGQuality(s.jpegQuality)); err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", format, err)
	}

	dir := filepath.Join(filepath.Dir(sourcePath), s.subdir)
	return s.Put(dir, filepath.Base(sourcePath), buf)
}

// Put writes src to dir/filename, creating dir and any missing parents.
func (s *Storage) Put(dir, filename string, src io.Reader) (string, error) {
	dst := filepath.Join(dir, filename)

	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return "", &model.WriteError{Path: dst, Err: err}
	}

	f, err := s.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", &model.WriteError{Path: dst, Err: err}
	}

	if _, err := io.Copy(f, src); err != nil {
		_ = f.Close()
		return "", &model.WriteError{Path: dst, Err: err}
	}

	if err := f.Close(); err != nil {
		return "", &model.WriteError{Path: dst, Err: err}
	}

	return dst, nil
}
