package processor

import (
	"image"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/aliskhannn/datemark/internal/layout"
	"github.com/aliskhannn/datemark/internal/model"
)

// Renderer draws date text onto images with a fixed face.
type Renderer struct {
	face font.Face
}

// NewRenderer creates a Renderer using face for all text.
func NewRenderer(face font.Face) *Renderer {
	return &Renderer{face: face}
}

// Measure returns the pixel size of text in the renderer's face.
func (r *Renderer) Measure(text string) (w, h int) {
	dc := gg.NewContext(1, 1)
	dc.SetFontFace(r.face)
	tw, th := dc.MeasureString(text)
	return int(math.Ceil(tw)), int(math.Ceil(th))
}

// Render returns a copy of src with text drawn at the position given by opts,
// and the anchor it was drawn at. src is not modified.
func (r *Renderer) Render(src image.Image, text string, opts model.WatermarkOptions) (image.Image, model.Anchor) {
	// NewContextForImage copies src into a fresh RGBA buffer.
	dc := gg.NewContextForImage(src)
	dc.SetFontFace(r.face)

	tw, th := r.Measure(text)
	anchor := layout.Compute(dc.Width(), dc.Height(), tw, th, opts.Position, opts.Margin)

	x, y := float64(anchor.X), float64(anchor.Y)

	if sw := opts.StrokeWidth; sw > 0 {
		dc.SetColor(opts.StrokeColor)
		for dy := -sw; dy <= sw; dy++ {
			for dx := -sw; dx <= sw; dx++ {
				if (dx == 0 && dy == 0) || dx*dx+dy*dy > sw*sw {
					continue
				}
				dc.DrawStringAnchored(text, x+float64(dx), y+float64(dy), 0, 1)
			}
		}
	}

	dc.SetColor(opts.Color)
	dc.DrawStringAnchored(text, x, y, 0, 1) // anchor is the top-left of the text box

	return dc.Image(), anchor
}
