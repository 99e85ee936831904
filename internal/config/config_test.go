package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/datemark/internal/model"
)

func load(t *testing.T, path string) *Config {
	t.Helper()

	v, err := New()
	require.NoError(t, err)

	cfg, err := Load(v, path)
	require.NoError(t, err)
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no ./config/config.yml

	cfg := load(t, "")
	opts, err := cfg.Options()
	require.NoError(t, err)

	assert.Equal(t, model.WatermarkOptions{
		FontSize:    36,
		Color:       color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		Position:    model.BottomRight,
		Margin:      20,
		StrokeColor: color.NRGBA{A: 255},
		JPEGQuality: 95,
	}, opts)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "datemark.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
watermark:
  font_size: 48
  color: orange
  position: top-left
  margin: 5
  recursive: true
output:
  jpeg_quality: 80
log:
  level: debug
`), 0o644))

	t.Setenv("DATEMARK_MARGIN", "12")
	t.Setenv("DATEMARK_WATERMARK_STROKE_WIDTH", "3")

	cfg := load(t, path)
	opts, err := cfg.Options()
	require.NoError(t, err)

	assert.Equal(t, 48, opts.FontSize)
	assert.Equal(t, color.NRGBA{R: 255, G: 165, A: 255}, opts.Color)
	assert.Equal(t, model.TopLeft, opts.Position)
	assert.Equal(t, 12, opts.Margin)
	assert.Equal(t, 3, opts.StrokeWidth)
	assert.True(t, opts.Recursive)
	assert.Equal(t, 80, opts.JPEGQuality)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	_, err = Load(v, filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestOptions_Invalid(t *testing.T) {
	valid := func() Config {
		return Config{
			Watermark: Watermark{FontSize: 36, Color: "#fff", Position: "center", StrokeColor: "black"},
			Output:    Output{JPEGQuality: 90},
		}
	}

	tests := map[string]func(c *Config){
		"zero font size":   func(c *Config) { c.Watermark.FontSize = 0 },
		"negative margin":  func(c *Config) { c.Watermark.Margin = -1 },
		"negative stroke":  func(c *Config) { c.Watermark.StrokeWidth = -2 },
		"bad position":     func(c *Config) { c.Watermark.Position = "middle" },
		"bad color":        func(c *Config) { c.Watermark.Color = "#12345" },
		"bad stroke color": func(c *Config) { c.Watermark.StrokeColor = "blurple" },
		"quality too high": func(c *Config) { c.Output.JPEGQuality = 101 },
	}

	c := valid()
	_, err := c.Options()
	require.NoError(t, err)

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(&c)
			_, err := c.Options()
			assert.Error(t, err)
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#FFFFFF", color.NRGBA{255, 255, 255, 255}},
		{"#ff8000", color.NRGBA{255, 128, 0, 255}},
		{"#f80", color.NRGBA{255, 136, 0, 255}},
		{"#11223344", color.NRGBA{0x11, 0x22, 0x33, 0x44}},
		{"white", color.NRGBA{255, 255, 255, 255}},
		{"Red", color.NRGBA{255, 0, 0, 255}},
		{" black ", color.NRGBA{0, 0, 0, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "#", "#GGGGGG", "#1234", "notacolor"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}
