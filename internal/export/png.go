package export

import (
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/san-kum/molview/internal/scene"
)

// Raster draws s with gg. Atoms get a radial gradient lit from the upper
// left; labels use the 7x13 bitmap face.
func Raster(s Snapshot) image.Image {
	dc := gg.NewContext(s.Width, s.Height)
	dc.SetColor(s.Background)
	dc.Clear()

	dc.SetLineCapRound()
	for _, sh := range s.Shapes {
		switch sh.Kind {
		case scene.ShapeBond:
			dc.SetColor(sh.Color)
			dc.SetLineWidth(math.Max(2*sh.R, 1))
			dc.DrawLine(sh.X, sh.Y, sh.X2, sh.Y2)
			dc.Stroke()
		case scene.ShapeAtom:
			r := math.Max(sh.R, 1)
			g := gg.NewRadialGradient(sh.X-r/3, sh.Y-r/3, 0, sh.X, sh.Y, r)
			g.AddColorStop(0, scene.Shade(sh.Color, 1.3))
			g.AddColorStop(1, scene.Shade(sh.Color, 0.6))
			dc.SetFillStyle(g)
			dc.DrawCircle(sh.X, sh.Y, r)
			dc.Fill()
		}
	}

	for _, d := range s.Dots {
		dc.SetColor(d.Color)
		dc.DrawRectangle(d.X-dotRadius, d.Y-dotRadius, 2*dotRadius, 2*dotRadius)
		dc.Fill()
	}

	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(labelRGBA(s.Background))
	for _, l := range s.Labels {
		dc.DrawStringAnchored(l.Text, l.X, l.Y, 0.5, 0.5)
	}
	return dc.Image()
}

func labelRGBA(bg color.RGBA) color.RGBA {
	c, _ := scene.ParseColor(labelColor(bg))
	return c
}

func WritePNG(w io.Writer, s Snapshot) error {
	dc := gg.NewContextForImage(Raster(s))
	return dc.EncodePNG(w)
}

func SavePNG(path string, s Snapshot) error {
	return gg.SavePNG(path, Raster(s))
}
