package molecule

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

type Source int

const (
	SourceFile Source = iota
	SourceCustom
)

func (s Source) String() string {
	switch s {
	case SourceFile:
		return "file"
	case SourceCustom:
		return "custom"
	}
	return fmt.Sprintf("source(%d)", int(s))
}

type Atom struct {
	Element  string
	Position mgl64.Vec3
}

// Bond references atoms by 0-based index into the owning molecule.
type Bond struct {
	Start, End int
}

type Molecule struct {
	ID            uuid.UUID
	Name          string
	Atoms         []Atom
	Bonds         []Bond
	Visible       bool
	LabelsVisible bool
	Source        Source
}

func New(name string, source Source) *Molecule {
	return &Molecule{
		ID:      uuid.New(),
		Name:    name,
		Visible: true,
		Source:  source,
	}
}

func (m *Molecule) AddAtom(element string, x, y, z float64) int {
	m.Atoms = append(m.Atoms, Atom{Element: element, Position: mgl64.Vec3{x, y, z}})
	return len(m.Atoms) - 1
}

func (m *Molecule) AddBond(start, end int) {
	m.Bonds = append(m.Bonds, Bond{Start: start, End: end})
}

// Validate checks every bond against the atom sequence.
func (m *Molecule) Validate() error {
	for i, b := range m.Bonds {
		if b.Start < 0 || b.End < 0 || b.Start >= len(m.Atoms) || b.End >= len(m.Atoms) {
			return fmt.Errorf("%w: bond %d (%d-%d) outside %d atoms", ErrMalformedStructure, i+1, b.Start, b.End, len(m.Atoms))
		}
		if b.Start == b.End {
			return fmt.Errorf("%w: bond %d joins atom %d to itself", ErrMalformedStructure, i+1, b.Start)
		}
	}
	return nil
}

func (m *Molecule) Clone() *Molecule {
	c := *m
	c.Atoms = append([]Atom(nil), m.Atoms...)
	c.Bonds = append([]Bond(nil), m.Bonds...)
	return &c
}

// Translate shifts every atom by d.
func (m *Molecule) Translate(d mgl64.Vec3) {
	for i := range m.Atoms {
		m.Atoms[i].Position = m.Atoms[i].Position.Add(d)
	}
}

// Bounds returns the axis-aligned box around all atom centres.
// ok is false for a molecule without atoms.
func (m *Molecule) Bounds() (lo, hi mgl64.Vec3, ok bool) {
	if len(m.Atoms) == 0 {
		return lo, hi, false
	}
	lo = mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi = mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, a := range m.Atoms {
		for k := 0; k < 3; k++ {
			lo[k] = math.Min(lo[k], a.Position[k])
			hi[k] = math.Max(hi[k], a.Position[k])
		}
	}
	return lo, hi, true
}

func (m *Molecule) Centroid() mgl64.Vec3 {
	var c mgl64.Vec3
	if len(m.Atoms) == 0 {
		return c
	}
	for _, a := range m.Atoms {
		c = c.Add(a.Position)
	}
	return c.Mul(1 / float64(len(m.Atoms)))
}

// Elements lists the distinct element symbols in first-seen order.
func (m *Molecule) Elements() []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range m.Atoms {
		if !seen[a.Element] {
			seen[a.Element] = true
			out = append(out, a.Element)
		}
	}
	return out
}
