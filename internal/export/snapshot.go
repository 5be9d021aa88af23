// Package export writes the viewer scene to SVG and PNG files and the
// loaded molecules to JSON.
package export

import (
	"image/color"
	"math"

	"github.com/san-kum/molview/internal/camera"
	"github.com/san-kum/molview/internal/scene"
	"github.com/san-kum/molview/internal/viewer"
)

// Dot is a density point placed in pixels.
type Dot struct {
	X, Y  float64
	Color color.RGBA
}

// Snapshot is one frame flattened to pixels, ready for a 2D backend.
type Snapshot struct {
	Width, Height int
	Background    color.RGBA
	Shapes        []scene.Shape
	Dots          []Dot
	Labels        []scene.ScreenLabel
}

// Capture lays out r for a width x height image. The camera should have
// the same aspect as the image.
func Capture(r viewer.FrameResult, cam *camera.Camera, width, height int, bg color.RGBA) Snapshot {
	w, h := float64(width), float64(height)
	s := Snapshot{
		Width:      width,
		Height:     height,
		Background: bg,
		Shapes:     scene.Layout(r.Scene, cam, w, h),
	}
	for _, p := range r.Density {
		ndc, ok := cam.Project(p.Position)
		if !ok || math.Abs(ndc[0]) > 1 || math.Abs(ndc[1]) > 1 {
			continue
		}
		x, y := camera.ToScreen(ndc, w, h)
		s.Dots = append(s.Dots, Dot{X: x, Y: y, Color: p.Sign.Color()})
	}
	// labels were projected for the viewer's viewport; redo them for ours
	for _, l := range scene.ProjectLabels(r.Scene, cam, w, h) {
		if l.Visible {
			s.Labels = append(s.Labels, l)
		}
	}
	return s
}
