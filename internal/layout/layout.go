// Package layout places watermark text on an image.
package layout

import "github.com/aliskhannn/datemark/internal/model"

// Compute returns the top-left anchor for a textW×textH box on an
// imgW×imgH image. The result is not clamped, so oversized text or
// margins may place the box partly off canvas.
func Compute(imgW, imgH, textW, textH int, pos model.Position, margin int) model.Anchor {
	switch pos {
	case model.TopLeft:
		return model.Anchor{X: margin, Y: margin}
	case model.TopRight:
		return model.Anchor{X: imgW - textW - margin, Y: margin}
	case model.BottomLeft:
		return model.Anchor{X: margin, Y: imgH - textH - margin}
	case model.Center:
		return model.Anchor{X: half(imgW - textW), Y: half(imgH - textH)}
	default: // bottom-right
		return model.Anchor{X: imgW - textW - margin, Y: imgH - textH - margin}
	}
}

// half divides n by two rounding toward negative infinity, so odd
// negative slack lands one pixel further up and left.
func half(n int) int {
	if n < 0 {
		return (n - 1) / 2
	}
	return n / 2
}
