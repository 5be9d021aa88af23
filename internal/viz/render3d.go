package viz

import (
	"image/color"
	"math"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/molview/internal/camera"
	"github.com/san-kum/molview/internal/scene"
	"github.com/san-kum/molview/internal/viewer"
)

func colorOf(c color.RGBA) lipgloss.Color { return lipgloss.Color(scene.Hex(c)) }

// Render3D draws one viewer frame onto the canvas. The camera viewport
// must match the canvas size in dots. Shapes are painted back to front,
// density points over them and labels last.
func Render3D(c *Canvas, r viewer.FrameResult, cam *camera.Camera, th Theme) {
	if c == nil || cam == nil {
		return
	}
	w, h := c.PixelSize()
	fw, fh := float64(w), float64(h)

	for _, s := range scene.Layout(r.Scene, cam, fw, fh) {
		col := colorOf(s.Color)
		switch s.Kind {
		case scene.ShapeBond:
			c.DrawLine(round(s.X), round(s.Y), round(s.X2), round(s.Y2), col)
		case scene.ShapeAtom:
			c.FillCircle(round(s.X), round(s.Y), round(s.R), col)
		}
	}

	for _, p := range r.Density {
		ndc, ok := cam.Project(p.Position)
		if !ok || math.Abs(ndc[0]) > 1 || math.Abs(ndc[1]) > 1 {
			continue
		}
		x, y := camera.ToScreen(ndc, fw, fh)
		c.Set(round(x), round(y), colorOf(p.Sign.Color()))
	}

	for _, l := range r.Labels {
		if !l.Visible {
			continue
		}
		// labels are placed in dots; text lands in whole cells
		col := round(l.X)/2 - len([]rune(l.Text))/2
		c.Text(col, round(l.Y)/4, l.Text, th.Text)
	}
}

func round(v float64) int { return int(math.Round(v)) }
