package processor

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/aliskhannn/datemark/internal/model"
	"github.com/aliskhannn/datemark/internal/storage/file"
	"github.com/aliskhannn/datemark/internal/testutil"
)

var white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

func defaultOptions() model.WatermarkOptions {
	return model.WatermarkOptions{
		FontSize:    24,
		Color:       white,
		Position:    model.BottomRight,
		Margin:      10,
		StrokeColor: color.NRGBA{A: 255},
	}
}

func blank(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255 // opaque black
	}
	return img
}

// painted returns the bounding box of non-black pixels.
func painted(img image.Image) image.Rectangle {
	var box image.Rectangle
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r|g|bl != 0 {
				box = box.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return box
}

func TestRenderer_DoesNotMutateSource(t *testing.T) {
	src := blank(200, 100)
	orig := append([]uint8(nil), src.Pix...)

	r := NewRenderer(DefaultFace(24))
	out, _ := r.Render(src, "2024-05-01", defaultOptions())

	assert.Equal(t, orig, src.Pix)
	assert.NotEqual(t, src.Pix, out.(*image.RGBA).Pix)
}

func TestRenderer_DrawsInsideAnchorBox(t *testing.T) {
	r := NewRenderer(DefaultFace(24))
	tw, th := r.Measure("2024-05-01")
	require.Positive(t, tw)
	require.Positive(t, th)

	for _, pos := range model.Positions {
		t.Run(string(pos), func(t *testing.T) {
			opts := defaultOptions()
			opts.Position = pos

			out, anchor := r.Render(blank(300, 200), "2024-05-01", opts)

			box := painted(out)
			require.False(t, box.Empty(), "nothing drawn")

			// Allow a few pixels for glyph side bearings.
			want := image.Rect(anchor.X-2, anchor.Y-2, anchor.X+tw+2, anchor.Y+th+2)
			assert.True(t, box.In(want), "painted %v outside %v", box, want)
		})
	}
}

func TestRenderer_TopLeftAnchor(t *testing.T) {
	r := NewRenderer(DefaultFace(20))
	opts := defaultOptions()
	opts.Position = model.TopLeft
	opts.Margin = 10

	_, anchor := r.Render(blank(120, 80), "2023-01-15", opts)
	assert.Equal(t, model.Anchor{X: 10, Y: 10}, anchor)
}

func TestRenderer_Stroke(t *testing.T) {
	r := NewRenderer(DefaultFace(24))
	src := image.NewRGBA(image.Rect(0, 0, 200, 80))
	for i := range src.Pix {
		src.Pix[i] = 255 // opaque white
	}

	opts := defaultOptions()
	opts.Color = white
	opts.StrokeWidth = 2

	out, _ := r.Render(src, "2024-05-01", opts)

	// White text on white is invisible; the black outline is not.
	dark := false
	rgba := out.(*image.RGBA)
	for i := 0; i < len(rgba.Pix); i += 4 {
		if rgba.Pix[i] < 128 {
			dark = true
			break
		}
	}
	assert.True(t, dark)
}

func TestRenderer_Deterministic(t *testing.T) {
	r := NewRenderer(DefaultFace(30))
	a, _ := r.Render(testutil.Gradient(160, 90), "2024-05-01", defaultOptions())
	b, _ := r.Render(testutil.Gradient(160, 90), "2024-05-01", defaultOptions())
	assert.Equal(t, a.(*image.RGBA).Pix, b.(*image.RGBA).Pix)
}

func TestLoadFace(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/fonts/go.ttf", goregular.TTF, 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/fonts/broken.ttf", []byte("not a font"), 0o644))

	t.Run("no path uses default", func(t *testing.T) {
		face, err := LoadFace(fsys, "", 36)
		require.NoError(t, err)
		require.NotNil(t, face)
		assert.NotEqual(t, basicfont.Face7x13, face)
	})

	t.Run("valid file", func(t *testing.T) {
		face, err := LoadFace(fsys, "/fonts/go.ttf", 36)
		require.NoError(t, err)
		require.NotNil(t, face)
	})

	for _, path := range []string{"/fonts/missing.ttf", "/fonts/broken.ttf"} {
		t.Run(path, func(t *testing.T) {
			face, err := LoadFace(fsys, path, 36)
			require.NotNil(t, face)

			var fontErr *model.FontLoadError
			require.True(t, errors.As(err, &fontErr))
			assert.Equal(t, path, fontErr.Path)
		})
	}

	t.Run("unusable size falls back to bitmap", func(t *testing.T) {
		face, err := LoadFace(fsys, "/fonts/go.ttf", 0)
		require.Error(t, err)
		assert.Equal(t, basicfont.Face7x13, face)
	})
}

func newProcessor(fsys afero.Fs) *Processor {
	return New(file.NewStorage(fsys, "_watermark", 0), NewRenderer(DefaultFace(16)))
}

func TestProcess(t *testing.T) {
	fsys := afero.NewMemMapFs()
	mtime := time.Date(2023, 1, 15, 0, 0, 0, 0, time.Local)
	testutil.WriteFile(t, fsys, "/photo/a.jpg", testutil.JPEG(t, 120, 80), mtime)
	testutil.WriteFile(t, fsys, "/photo/b.png", testutil.PNG(t, 120, 80), mtime)

	p := newProcessor(fsys)

	for _, src := range []string{"/photo/a.jpg", "/photo/b.png"} {
		res := p.Process(context.Background(), model.NewImageTask(src, "2023-01-15", defaultOptions()))
		require.NoError(t, res.Err)
		assert.Equal(t, model.StatusProcessed, res.Status())

		data, err := afero.ReadFile(fsys, res.Output)
		require.NoError(t, err)
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 120, cfg.Width)
		assert.Equal(t, 80, cfg.Height)
	}

	assert.Equal(t, "/photo/_watermark/a.jpg", p.Process(context.Background(),
		model.NewImageTask("/photo/a.jpg", "2023-01-15", defaultOptions())).Output)
}

func TestProcess_Failures(t *testing.T) {
	fsys := afero.NewMemMapFs()
	mtime := time.Now()
	testutil.WriteFile(t, fsys, "/photo/corrupt.jpg", []byte("garbage"), mtime)
	testutil.WriteFile(t, fsys, "/photo/a.webp", []byte("RIFF"), mtime)
	testutil.WriteFile(t, fsys, "/photo/ok.png", testutil.PNG(t, 20, 20), mtime)

	tests := []struct {
		name string
		fs   afero.Fs
		path string
		want model.Status
	}{
		{"corrupt content", fsys, "/photo/corrupt.jpg", model.StatusUnsupported},
		{"unknown extension", fsys, "/photo/a.webp", model.StatusUnsupported},
		{"missing file", fsys, "/photo/gone.jpg", model.StatusFailed},
		{"read-only destination", afero.NewReadOnlyFs(fsys), "/photo/ok.png", model.StatusWriteFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newProcessor(tt.fs).Process(context.Background(), model.NewImageTask(tt.path, "2024-01-01", defaultOptions()))
			require.Error(t, res.Err)
			assert.Equal(t, tt.want, res.Status())
			assert.Empty(t, res.Output)
		})
	}
}

func TestProcess_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := newProcessor(afero.NewMemMapFs()).Process(ctx, model.NewImageTask("/a.jpg", "2024-01-01", defaultOptions()))
	assert.ErrorIs(t, res.Err, context.Canceled)
}
