package scene

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/molview/internal/molecule"
)

// Sphere describes one atom for a renderer.
type Sphere struct {
	Molecule    int
	Atom        int
	Position    mgl64.Vec3
	Radius      float64
	Color       color.RGBA
	Highlighted bool
}

// DisplayColor is Color, mixed toward yellow when highlighted.
func (s Sphere) DisplayColor() color.RGBA {
	if s.Highlighted {
		return highlight(s.Color)
	}
	return s.Color
}

// Cylinder describes one bond for a renderer.
type Cylinder struct {
	Molecule int
	Bond     int
	Start    mgl64.Vec3
	End      mgl64.Vec3
	Radius   float64
	Color    color.RGBA
}

func (c Cylinder) Midpoint() mgl64.Vec3 {
	return c.Start.Add(c.End).Mul(0.5)
}

type LabelKind int

const (
	AtomLabel LabelKind = iota
	BondLabel
)

// Label is text anchored at a world position.
type Label struct {
	Kind     LabelKind
	Molecule int
	Index    int
	Text     string
	Anchor   mgl64.Vec3
}

// Frame is everything a renderer needs to draw the scene once.
type Frame struct {
	Spheres   []Sphere
	Cylinders []Cylinder
	Labels    []Label
}

func (f *Frame) append(o Frame) {
	f.Spheres = append(f.Spheres, o.Spheres...)
	f.Cylinders = append(f.Cylinders, o.Cylinders...)
	f.Labels = append(f.Labels, o.Labels...)
}

func bondName(index int) string {
	return fmt.Sprintf("B%d", index+1)
}

// ComposeAtom resolves radius and colour for atom index of m.
func ComposeAtom(m *molecule.Molecule, index int, st *Style) Sphere {
	a := m.Atoms[index]
	return Sphere{
		Atom:     index,
		Position: a.Position,
		Radius:   st.radius(index, a.Element),
		Color:    st.color(a.Element),
	}
}

// ComposeBond returns false when the bond points outside the atoms.
func ComposeBond(m *molecule.Molecule, index int) (Cylinder, bool) {
	b := m.Bonds[index]
	if b.Start < 0 || b.End < 0 || b.Start >= len(m.Atoms) || b.End >= len(m.Atoms) {
		return Cylinder{}, false
	}
	return Cylinder{
		Bond:   index,
		Start:  m.Atoms[b.Start].Position,
		End:    m.Atoms[b.End].Position,
		Radius: BondRadius,
		Color:  BondColor,
	}, true
}

// Compose builds the primitives of m. Labels are included only when the
// molecule shows them. Invisible molecules compose to nothing.
func Compose(m *molecule.Molecule, st *Style) Frame {
	var f Frame
	if m == nil || !m.Visible {
		return f
	}
	f.Spheres = make([]Sphere, 0, len(m.Atoms))
	for i := range m.Atoms {
		f.Spheres = append(f.Spheres, ComposeAtom(m, i, st))
		if m.LabelsVisible {
			f.Labels = append(f.Labels, Label{Kind: AtomLabel, Index: i, Text: st.atomLabel(i, m.Atoms[i].Element), Anchor: m.Atoms[i].Position})
		}
	}
	for i := range m.Bonds {
		cyl, ok := ComposeBond(m, i)
		if !ok {
			continue
		}
		f.Cylinders = append(f.Cylinders, cyl)
		if m.LabelsVisible {
			f.Labels = append(f.Labels, Label{Kind: BondLabel, Index: i, Text: st.bondLabel(i), Anchor: cyl.Midpoint()})
		}
	}
	return f
}
