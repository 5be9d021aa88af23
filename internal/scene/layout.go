package scene

import (
	"image/color"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/molview/internal/camera"
)

type ShapeKind int

const (
	ShapeAtom ShapeKind = iota
	ShapeBond
)

// Shape is a sphere or cylinder flattened to viewport pixels. Atoms are
// discs of radius R at (X, Y); bonds run from (X, Y) to (X2, Y2) with
// width 2R.
type Shape struct {
	Kind     ShapeKind
	Molecule int
	Index    int
	X, Y     float64
	X2, Y2   float64
	R        float64
	Depth    float64
	Color    color.RGBA
}

// Layout projects f for 2D renderers and orders the shapes back to
// front. Shapes behind the camera or outside the clip range are dropped.
func Layout(f Frame, cam *camera.Camera, width, height float64) []Shape {
	up := cam.Axis(1)
	out := make([]Shape, 0, len(f.Spheres)+len(f.Cylinders))

	for _, c := range f.Cylinders {
		a, okA := cam.Project(c.Start)
		b, okB := cam.Project(c.End)
		if !okA || !okB || !inClip(a) || !inClip(b) {
			continue
		}
		s := Shape{Kind: ShapeBond, Molecule: c.Molecule, Index: c.Bond, Color: c.Color}
		s.X, s.Y = camera.ToScreen(a, width, height)
		s.X2, s.Y2 = camera.ToScreen(b, width, height)
		s.R = screenRadius(cam, c.Midpoint(), c.Radius, up, width, height)
		s.Depth = (a[2] + b[2]) / 2
		out = append(out, s)
	}
	for _, sp := range f.Spheres {
		p, ok := cam.Project(sp.Position)
		if !ok || !inClip(p) {
			continue
		}
		s := Shape{Kind: ShapeAtom, Molecule: sp.Molecule, Index: sp.Atom, Color: sp.DisplayColor()}
		s.X, s.Y = camera.ToScreen(p, width, height)
		s.R = screenRadius(cam, sp.Position, sp.Radius, up, width, height)
		s.Depth = p[2]
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Depth > out[j].Depth })
	return out
}

func inClip(ndc mgl64.Vec3) bool { return ndc[2] >= -1 && ndc[2] <= 1 }

func screenRadius(cam *camera.Camera, center mgl64.Vec3, r float64, up mgl64.Vec3, width, height float64) float64 {
	a, okA := cam.Project(center)
	b, okB := cam.Project(center.Add(up.Mul(r)))
	if !okA || !okB {
		return 0
	}
	ax, ay := camera.ToScreen(a, width, height)
	bx, by := camera.ToScreen(b, width, height)
	return math.Hypot(bx-ax, by-ay)
}
