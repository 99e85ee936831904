package model

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/google/uuid"
)

// Position names the corner (or center) the watermark is anchored to.
type Position string

const (
	BottomRight Position = "bottom-right"
	BottomLeft  Position = "bottom-left"
	TopRight    Position = "top-right"
	TopLeft     Position = "top-left"
	Center      Position = "center"
)

// Positions lists every supported position in the order shown in help output.
var Positions = []Position{BottomRight, BottomLeft, TopRight, TopLeft, Center}

// ParsePosition converts a user supplied value into a Position.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParsePosition(s string) (Position, error) {
	p := Position(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Positions {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown position %q (want one of %s)", s, PositionList())
}

// PositionList returns the supported positions joined with "|".
func PositionList() string {
	names := make([]string, len(Positions))
	for i, p := range Positions {
		names[i] = string(p)
	}
	return strings.Join(names, "|")
}

// WatermarkOptions holds the rendering parameters for a run.
// It is built once from the invocation and never modified afterwards.
type WatermarkOptions struct {
	FontSize    int         `json:"font_size"`
	Color       color.NRGBA `json:"color"`
	Position    Position    `json:"position"`
	Margin      int         `json:"margin"`
	FontPath    string      `json:"font_path,omitempty"` // empty means built-in font
	Recursive   bool        `json:"recursive"`
	StrokeWidth int         `json:"stroke_width"` // 0 disables the outline
	StrokeColor color.NRGBA `json:"stroke_color"`
	JPEGQuality int         `json:"jpeg_quality"`
}

// ImageTask represents a single file queued for watermarking.
type ImageTask struct {
	ID         uuid.UUID        `json:"id"`
	SourcePath string           `json:"source_path"`
	Date       string           `json:"date"` // YYYY-MM-DD
	Options    WatermarkOptions `json:"options"`
}

// NewImageTask creates a task for the given source file and resolved date.
func NewImageTask(sourcePath, date string, opts WatermarkOptions) ImageTask {
	return ImageTask{
		ID:         uuid.New(),
		SourcePath: sourcePath,
		Date:       date,
		Options:    opts,
	}
}

// Anchor is the top-left pixel coordinate of the watermark text.
type Anchor struct {
	X int
	Y int
}
