package scene

import "image/color"

// Style holds the per-molecule edits layered over the CPK defaults.
// Atoms and bonds are addressed by index.
type Style struct {
	AtomRadius    map[int]float64
	AtomLabel     map[int]string
	ElementColor  map[string]color.RGBA
	ElementRadius map[string]float64
	BondLabel     map[int]string
}

func NewStyle() *Style {
	return &Style{
		AtomRadius:    make(map[int]float64),
		AtomLabel:     make(map[int]string),
		ElementColor:  make(map[string]color.RGBA),
		ElementRadius: make(map[string]float64),
		BondLabel:     make(map[int]string),
	}
}

func (s *Style) radius(index int, element string) float64 {
	if s != nil {
		if r, ok := s.AtomRadius[index]; ok {
			return r
		}
		if r, ok := s.ElementRadius[element]; ok {
			return r
		}
	}
	return ElementRadius(element)
}

func (s *Style) color(element string) color.RGBA {
	if s != nil {
		if c, ok := s.ElementColor[element]; ok {
			return c
		}
	}
	return ElementColor(element)
}

func (s *Style) atomLabel(index int, element string) string {
	if s != nil {
		if l, ok := s.AtomLabel[index]; ok {
			return l
		}
	}
	return element
}

func (s *Style) bondLabel(index int) string {
	if s != nil {
		if l, ok := s.BondLabel[index]; ok {
			return l
		}
	}
	return bondName(index)
}
