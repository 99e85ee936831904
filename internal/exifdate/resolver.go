// Package exifdate resolves the capture date of an image file.
//
// The date comes from the first present source in a fixed chain:
// EXIF DateTimeOriginal, EXIF DateTime, then the file modification time.
package exifdate

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/spf13/afero"

	"github.com/aliskhannn/datemark/internal/model"
)

// Layout is the output format of every resolved date.
const Layout = "2006-01-02"

// exifLayouts are tried in order when parsing an EXIF date value.
var exifLayouts = []string{
	"2006:01:02 15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006:01:02",
	"2006-01-02",
	"2006/01/02",
}

// Source yields a candidate timestamp, or false when it has none.
type Source func() (time.Time, bool)

// First returns the value of the first source that has one.
func First(sources ...Source) (time.Time, bool) {
	for _, src := range sources {
		if t, ok := src(); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// Resolver reads capture dates from files on fs.
type Resolver struct {
	fs  afero.Fs
	log zerolog.Logger
}

// New creates a Resolver over the given filesystem.
func New(fs afero.Fs, log zerolog.Logger) *Resolver {
	return &Resolver{fs: fs, log: log}
}

// Resolve returns the capture date of path formatted with Layout.
// It never fails: unreadable EXIF falls through to the modification time.
func (r *Resolver) Resolve(path string) string {
	x := r.readExif(path)

	t, _ := First(
		ExifTag(x, exif.DateTimeOriginal),
		ExifTag(x, exif.DateTime),
		r.modTime(path),
	)

	return t.Format(Layout)
}

// readExif decodes the EXIF block of path. It returns nil when the file
// has none or it cannot be parsed.
func (r *Resolver) readExif(path string) *exif.Exif {
	f, err := r.fs.Open(path)
	if err != nil {
		r.log.Debug().Err(&model.ExifReadError{Path: path, Err: err}).Msg("exif unavailable")
		return nil
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		// goexif may return partially decoded data alongside a sub-IFD error.
		r.log.Debug().Err(&model.ExifReadError{Path: path, Err: err}).Msg("exif unavailable")
		return x
	}

	return x
}

// ExifTag returns a Source reading the named tag from x.
func ExifTag(x *exif.Exif, name exif.FieldName) Source {
	return func() (time.Time, bool) {
		if x == nil {
			return time.Time{}, false
		}

		tag, err := x.Get(name)
		if err != nil || tag == nil {
			return time.Time{}, false
		}

		s, err := tag.StringVal()
		if err != nil {
			return time.Time{}, false
		}

		return ParseExifTime(s)
	}
}

// ParseExifTime parses an EXIF date string using the known layouts.
func ParseExifTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(strings.TrimRight(s, "\x00"))
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range exifLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func (r *Resolver) modTime(path string) Source {
	return func() (time.Time, bool) {
		info, err := r.fs.Stat(path)
		if err != nil {
			r.log.Error().Err(err).Str("file", path).Msg("failed to stat file")
			return time.Time{}, false
		}
		return info.ModTime(), true
	}
}
