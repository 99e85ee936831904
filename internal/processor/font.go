package processor

import (
	"errors"
	"fmt"

	"github.com/golang/freetype/truetype"
	"github.com/spf13/afero"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/aliskhannn/datemark/internal/model"
)

// errBadSize is reported when a face cannot be built at the requested size.
var errBadSize = errors.New("font size must be positive")

// LoadFace returns the face to draw watermarks with.
//
// When path is set, the file is parsed as TrueType and then as OpenType/CFF.
// If that fails, the built-in face is returned together with a
// *model.FontLoadError so the caller can warn about the fallback.
// The returned face is never nil.
func LoadFace(fsys afero.Fs, path string, size float64) (font.Face, error) {
	if path == "" {
		return DefaultFace(size), nil
	}

	face, err := loadFaceFile(fsys, path, size)
	if err != nil {
		return DefaultFace(size), &model.FontLoadError{Path: path, Err: err}
	}

	return face, nil
}

func loadFaceFile(fsys afero.Fs, path string, size float64) (font.Face, error) {
	if size <= 0 {
		return nil, errBadSize
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}

	if f, ttErr := truetype.Parse(data); ttErr == nil {
		return truetype.NewFace(f, &truetype.Options{Size: size}), nil
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}

	return face, nil
}

// DefaultFace returns the embedded Go Regular face at size points.
// Sizes the scalable font cannot honor fall back to the 7x13 bitmap face
// at its native size.
func DefaultFace(size float64) font.Face {
	if size <= 0 {
		return basicfont.Face7x13
	}

	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return basicfont.Face7x13
	}

	return truetype.NewFace(f, &truetype.Options{Size: size})
}
