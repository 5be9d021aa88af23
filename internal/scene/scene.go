package scene

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/molview/internal/molecule"
)

type Entry struct {
	Molecule *molecule.Molecule
	Style    *Style
}

// Selection addresses one atom.
type Selection struct {
	Molecule int
	Atom     int
}

// Scene is the ordered list of molecules on screen plus their edits and
// the current selection. Edits go through methods so the composed frame
// always reflects them.
type Scene struct {
	entries  []*Entry
	selected *Selection
}

func New() *Scene { return &Scene{} }

// Add appends m and returns its index.
func (s *Scene) Add(m *molecule.Molecule) int {
	s.entries = append(s.entries, &Entry{Molecule: m, Style: NewStyle()})
	return len(s.entries) - 1
}

func (s *Scene) Len() int { return len(s.entries) }

func (s *Scene) Entries() []*Entry { return s.entries }

func (s *Scene) Entry(i int) (*Entry, error) {
	if i < 0 || i >= len(s.entries) {
		return nil, fmt.Errorf("%w: molecule %d of %d", ErrOutOfRange, i, len(s.entries))
	}
	return s.entries[i], nil
}

// Remove deletes molecule i. The selection follows its molecule or is
// cleared with it.
func (s *Scene) Remove(i int) error {
	if _, err := s.Entry(i); err != nil {
		return err
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	if s.selected != nil {
		switch {
		case s.selected.Molecule == i:
			s.selected = nil
		case s.selected.Molecule > i:
			s.selected.Molecule--
		}
	}
	return nil
}

func (s *Scene) Clear() {
	s.entries = nil
	s.selected = nil
}

func (s *Scene) atom(mi, ai int) (*Entry, error) {
	e, err := s.Entry(mi)
	if err != nil {
		return nil, err
	}
	if ai < 0 || ai >= len(e.Molecule.Atoms) {
		return nil, fmt.Errorf("%w: atom %d of %d in %s", ErrOutOfRange, ai, len(e.Molecule.Atoms), e.Molecule.Name)
	}
	return e, nil
}

func (s *Scene) SetAtomElement(mi, ai int, element string) error {
	e, err := s.atom(mi, ai)
	if err != nil {
		return err
	}
	e.Molecule.Atoms[ai].Element = element
	return nil
}

func validRadius(r float64) error {
	if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return fmt.Errorf("%w: %g", ErrInvalidRadius, r)
	}
	return nil
}

func (s *Scene) SetAtomRadius(mi, ai int, r float64) error {
	if err := validRadius(r); err != nil {
		return err
	}
	e, err := s.atom(mi, ai)
	if err != nil {
		return err
	}
	e.Style.AtomRadius[ai] = r
	return nil
}

func (s *Scene) SetElementColor(mi int, element string, c color.RGBA) error {
	e, err := s.Entry(mi)
	if err != nil {
		return err
	}
	e.Style.ElementColor[element] = c
	return nil
}

// SetElementRadius applies r to every atom of element in molecule mi,
// replacing earlier per-atom radii for that element.
func (s *Scene) SetElementRadius(mi int, element string, r float64) error {
	if err := validRadius(r); err != nil {
		return err
	}
	e, err := s.Entry(mi)
	if err != nil {
		return err
	}
	e.Style.ElementRadius[element] = r
	for i, a := range e.Molecule.Atoms {
		if a.Element == element {
			delete(e.Style.AtomRadius, i)
		}
	}
	return nil
}

func (s *Scene) SetAtomLabel(mi, ai int, text string) error {
	e, err := s.atom(mi, ai)
	if err != nil {
		return err
	}
	e.Style.AtomLabel[ai] = text
	return nil
}

func (s *Scene) SetBondLabel(mi, bi int, text string) error {
	e, err := s.Entry(mi)
	if err != nil {
		return err
	}
	if bi < 0 || bi >= len(e.Molecule.Bonds) {
		return fmt.Errorf("%w: bond %d of %d in %s", ErrOutOfRange, bi, len(e.Molecule.Bonds), e.Molecule.Name)
	}
	e.Style.BondLabel[bi] = text
	return nil
}

func (s *Scene) SetVisible(mi int, v bool) error {
	e, err := s.Entry(mi)
	if err != nil {
		return err
	}
	e.Molecule.Visible = v
	return nil
}

func (s *Scene) SetLabelsVisible(mi int, v bool) error {
	e, err := s.Entry(mi)
	if err != nil {
		return err
	}
	e.Molecule.LabelsVisible = v
	return nil
}

// Select makes atom ai of molecule mi the only highlighted atom.
func (s *Scene) Select(mi, ai int) error {
	if _, err := s.atom(mi, ai); err != nil {
		return err
	}
	s.selected = &Selection{Molecule: mi, Atom: ai}
	return nil
}

func (s *Scene) ClearSelection() { s.selected = nil }

func (s *Scene) Selected() (Selection, bool) {
	if s.selected == nil {
		return Selection{}, false
	}
	return *s.selected, true
}

// AtomPosition returns the world position of an atom.
func (s *Scene) AtomPosition(mi, ai int) (mgl64.Vec3, error) {
	e, err := s.atom(mi, ai)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return e.Molecule.Atoms[ai].Position, nil
}

// Frame composes every visible molecule, tagging primitives with their
// molecule index and highlighting the selection.
func (s *Scene) Frame() Frame {
	var f Frame
	for mi, e := range s.entries {
		mf := Compose(e.Molecule, e.Style)
		for i := range mf.Spheres {
			mf.Spheres[i].Molecule = mi
			if s.selected != nil && s.selected.Molecule == mi && s.selected.Atom == mf.Spheres[i].Atom {
				mf.Spheres[i].Highlighted = true
			}
		}
		for i := range mf.Cylinders {
			mf.Cylinders[i].Molecule = mi
		}
		for i := range mf.Labels {
			mf.Labels[i].Molecule = mi
		}
		f.append(mf)
	}
	return f
}

// Bounds is the box around every visible atom, padded by its radius.
func (s *Scene) Bounds() (lo, hi mgl64.Vec3, ok bool) {
	lo = mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi = mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, sp := range s.Frame().Spheres {
		p := sp.Position
		if math.IsNaN(p[0]) || math.IsNaN(p[1]) || math.IsNaN(p[2]) {
			continue
		}
		for k := 0; k < 3; k++ {
			lo[k] = math.Min(lo[k], p[k]-sp.Radius)
			hi[k] = math.Max(hi[k], p[k]+sp.Radius)
		}
		ok = true
	}
	return lo, hi, ok
}
