// Package testutil builds image fixtures for package tests.
package testutil

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// Gradient returns a w×h image with a deterministic color gradient.
func Gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8((x * 255) / w),
				G: uint8((y * 255) / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

// PNG encodes a gradient image as PNG.
func PNG(t testing.TB, w, h int) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, Gradient(w, h)))
	return buf.Bytes()
}

// JPEG encodes a gradient image as JPEG without any metadata.
func JPEG(t testing.TB, w, h int) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, Gradient(w, h), &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

// JPEGWithExif encodes a gradient JPEG carrying an APP1 EXIF segment.
// Empty tag values are left out of the segment.
func JPEGWithExif(t testing.TB, w, h int, dateTimeOriginal, dateTime string) []byte {
	t.Helper()

	plain := JPEG(t, w, h)
	seg := ExifSegment(dateTimeOriginal, dateTime)

	out := make([]byte, 0, len(plain)+len(seg)+4)
	out = append(out, 0xFF, 0xD8) // SOI
	out = append(out, 0xFF, 0xE1)
	out = binary.BigEndian.AppendUint16(out, uint16(len(seg)+2))
	out = append(out, seg...)
	out = append(out, plain[2:]...)
	return out
}

type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	value uint32
}

const (
	tagDateTime         = 0x0132
	tagExifIFDPointer   = 0x8769
	tagDateTimeOriginal = 0x9003

	typeASCII = 2
	typeLong  = 4
)

// ExifSegment returns the "Exif\0\0" prefixed little-endian TIFF block
// holding DateTime in IFD0 and DateTimeOriginal in the Exif sub-IFD.
func ExifSegment(dateTimeOriginal, dateTime string) []byte {
	le := binary.LittleEndian

	ifdSize := func(n int) uint32 { return uint32(2 + 12*n + 4) }

	n0 := 0
	if dateTime != "" {
		n0++
	}
	if dateTimeOriginal != "" {
		n0++
	}

	ifd0Off := uint32(8)
	exifOff := ifd0Off + ifdSize(n0)
	dataOff := exifOff
	if dateTimeOriginal != "" {
		dataOff += ifdSize(1)
	}

	var data []byte
	addString := func(s string) (uint32, uint32) {
		off := dataOff + uint32(len(data))
		data = append(data, s...)
		data = append(data, 0)
		return off, uint32(len(s) + 1)
	}

	var ifd0, exifIFD []ifdEntry
	if dateTime != "" {
		off, n := addString(dateTime)
		ifd0 = append(ifd0, ifdEntry{tagDateTime, typeASCII, n, off})
	}
	if dateTimeOriginal != "" {
		ifd0 = append(ifd0, ifdEntry{tagExifIFDPointer, typeLong, 1, exifOff})
		off, n := addString(dateTimeOriginal)
		exifIFD = append(exifIFD, ifdEntry{tagDateTimeOriginal, typeASCII, n, off})
	}

	writeIFD := func(b []byte, entries []ifdEntry) []byte {
		b = le.AppendUint16(b, uint16(len(entries)))
		for _, e := range entries {
			b = le.AppendUint16(b, e.tag)
			b = le.AppendUint16(b, e.typ)
			b = le.AppendUint32(b, e.count)
			b = le.AppendUint32(b, e.value)
		}
		return le.AppendUint32(b, 0) // no next IFD
	}

	b := []byte("Exif\x00\x00")
	tiff := []byte("II")
	tiff = le.AppendUint16(tiff, 42)
	tiff = le.AppendUint32(tiff, ifd0Off)
	tiff = writeIFD(tiff, ifd0)
	if len(exifIFD) > 0 {
		tiff = writeIFD(tiff, exifIFD)
	}
	tiff = append(tiff, data...)

	return append(b, tiff...)
}

// WriteFile stores data at path on fs and pins its modification time.
func WriteFile(t testing.TB, fs afero.Fs, path string, data []byte, mtime time.Time) {
	t.Helper()

	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fs, path, data, 0o644))
	require.NoError(t, fs.Chtimes(path, mtime, mtime))
}
