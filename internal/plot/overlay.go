package plot

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/jocelynchengyang/correlationAnalysis/internal/agreement"
)

var (
	boxFill   = color.RGBA{R: 245, G: 222, B: 179, A: 220}
	boxBorder = color.RGBA{R: 120, G: 120, B: 120, A: 255}
	boxText   = color.RGBA{R: 20, G: 20, B: 20, A: 255}
)

// ScatterStats returns the lines of the scatter plot statistics box
func ScatterStats(res agreement.Result) []string {
	if !res.CorrelationDefined {
		return []string{
			fmt.Sprintf("n   = %d", res.N),
			"r   = undefined",
			"p   = n/a",
			"R^2 = n/a",
		}
	}
	return []string{
		fmt.Sprintf("n   = %d", res.N),
		fmt.Sprintf("r   = %.4f", res.R),
		fmt.Sprintf("p   = %.4f", res.PValue),
		fmt.Sprintf("R^2 = %.4f", res.RSquared),
	}
}

// BlandAltmanStats returns the lines of the Bland-Altman statistics box
func BlandAltmanStats(res agreement.Result) []string {
	return []string{
		fmt.Sprintf("n         = %d", res.N),
		fmt.Sprintf("Mean diff = %.4f", res.MeanDiff),
		fmt.Sprintf("SD        = %.4f", res.SDDiff),
	}
}

// drawStatsBox stamps lines in a bordered box near the top-right corner of
// the plot area. The monospace 7x13 face keeps the "=" signs aligned.
func drawStatsBox(img image.Image, lines []string) image.Image {
	if img == nil || len(lines) == 0 {
		return img
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)

	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: rgba, Src: image.NewUniform(boxText), Face: face}

	textW := 0
	for _, l := range lines {
		textW = max(textW, dr.MeasureString(l).Ceil())
	}
	lineH := face.Metrics().Height.Ceil()
	pad := 6

	// Clear of the right-hand y axis labels and below the title
	x := b.Max.X - textW - 2*pad - 90
	y := b.Min.Y + 70
	if x < b.Min.X+pad {
		x = b.Min.X + pad
	}

	rect := image.Rect(x, y, x+textW+2*pad, y+len(lines)*lineH+2*pad)
	draw.Draw(rgba, rect, image.NewUniform(boxFill), image.Point{}, draw.Over)
	strokeRect(rgba, rect, boxBorder)

	ascent := face.Metrics().Ascent.Ceil()
	for i, l := range lines {
		dr.Dot = fixed.Point26_6{X: fixed.I(x + pad), Y: fixed.I(y + pad + ascent + i*lineH)}
		dr.DrawString(l)
	}
	return rgba
}

func strokeRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, r.Min.Y, c)
		img.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.Set(r.Min.X, y, c)
		img.Set(r.Max.X-1, y, c)
	}
}
