package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/aliskhannn/datemark/internal/model"
)

// EnvPrefix prefixes every environment variable read by the tool.
const EnvPrefix = "DATEMARK"

// Config holds the main configuration for a run.
type Config struct {
	Watermark Watermark `mapstructure:"watermark"`
	Output    Output    `mapstructure:"output"`
	Log       Log       `mapstructure:"log"`
}

// Watermark holds the text rendering settings.
type Watermark struct {
	FontSize    int    `mapstructure:"font_size"`    // points, > 0
	Color       string `mapstructure:"color"`        // #RRGGBB or a named color
	Position    string `mapstructure:"position"`     // bottom-right|bottom-left|top-right|top-left|center
	Margin      int    `mapstructure:"margin"`       // pixels from the edges, >= 0
	FontPath    string `mapstructure:"font_path"`    // optional .ttf/.otf
	Recursive   bool   `mapstructure:"recursive"`    // descend into subdirectories
	StrokeWidth int    `mapstructure:"stroke_width"` // outline radius in pixels, 0 disables
	StrokeColor string `mapstructure:"stroke_color"`
}

// Output holds encoder settings for the written copies.
type Output struct {
	JPEGQuality int `mapstructure:"jpeg_quality"` // 1-100
}

// Log holds logger settings.
type Log struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"` // optional rotated log file
}

// defaults mirrors the documented CLI defaults.
var defaults = map[string]any{
	"watermark.font_size":    36,
	"watermark.color":        "#FFFFFF",
	"watermark.position":     string(model.BottomRight),
	"watermark.margin":       20,
	"watermark.font_path":    "",
	"watermark.recursive":    false,
	"watermark.stroke_width": 0,
	"watermark.stroke_color": "#000000",
	"output.jpeg_quality":    95,
	"log.level":              "info",
	"log.file":               "",
}

// envBindings maps config keys to their short environment variable names.
var envBindings = map[string]string{
	"watermark.font_size":    EnvPrefix + "_FONT_SIZE",
	"watermark.color":        EnvPrefix + "_COLOR",
	"watermark.position":     EnvPrefix + "_POSITION",
	"watermark.margin":       EnvPrefix + "_MARGIN",
	"watermark.font_path":    EnvPrefix + "_FONT_PATH",
	"watermark.recursive":    EnvPrefix + "_RECURSIVE",
	"watermark.stroke_width": EnvPrefix + "_STROKE_WIDTH",
	"watermark.stroke_color": EnvPrefix + "_STROKE_COLOR",
	"output.jpeg_quality":    EnvPrefix + "_QUALITY",
	"log.level":              EnvPrefix + "_LOG_LEVEL",
	"log.file":               EnvPrefix + "_LOG_FILE",
}

// New returns a viper instance with defaults and environment bindings set.
// Flags are bound by the caller.
func New() (*viper.Viper, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, err
	}

	return v, nil
}

// bindEnv binds the short environment variable names to viper keys.
func bindEnv(v *viper.Viper) error {
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}
	return nil
}

// Load reads the optional config file and unmarshals the merged settings.
//
// An explicit path must exist. Without one, ./config/config.yml is read
// when present.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Options validates the watermark settings and converts them into
// model.WatermarkOptions.
func (c *Config) Options() (model.WatermarkOptions, error) {
	w := c.Watermark

	if w.FontSize <= 0 {
		return model.WatermarkOptions{}, fmt.Errorf("font size must be a positive integer, got %d", w.FontSize)
	}
	if w.Margin < 0 {
		return model.WatermarkOptions{}, fmt.Errorf("margin must be non-negative, got %d", w.Margin)
	}
	if w.StrokeWidth < 0 {
		return model.WatermarkOptions{}, fmt.Errorf("stroke width must be non-negative, got %d", w.StrokeWidth)
	}
	if q := c.Output.JPEGQuality; q < 1 || q > 100 {
		return model.WatermarkOptions{}, fmt.Errorf("jpeg quality must be between 1 and 100, got %d", q)
	}

	pos, err := model.ParsePosition(w.Position)
	if err != nil {
		return model.WatermarkOptions{}, err
	}

	fill, err := ParseColor(w.Color)
	if err != nil {
		return model.WatermarkOptions{}, fmt.Errorf("invalid color: %w", err)
	}

	stroke, err := ParseColor(w.StrokeColor)
	if err != nil {
		return model.WatermarkOptions{}, fmt.Errorf("invalid stroke color: %w", err)
	}

	return model.WatermarkOptions{
		FontSize:    w.FontSize,
		Color:       fill,
		Position:    pos,
		Margin:      w.Margin,
		FontPath:    strings.TrimSpace(w.FontPath),
		Recursive:   w.Recursive,
		StrokeWidth: w.StrokeWidth,
		StrokeColor: stroke,
		JPEGQuality: c.Output.JPEGQuality,
	}, nil
}
