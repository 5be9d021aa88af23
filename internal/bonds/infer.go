// Package bonds infers connectivity for structures that carry none.
//
// Two atoms are bonded when their squared distance is strictly below
// [ThresholdSq]. There is no element-specific covalent radius table; the
// fixed cutoff is an approximation suited to display, not chemistry.
package bonds

import (
	"sort"

	"github.com/san-kum/molview/internal/molecule"
)

const (
	Threshold   = 3.0
	ThresholdSq = Threshold * Threshold

	// IndexedMinAtoms is the atom count above which Auto uses the k-d tree.
	IndexedMinAtoms = 512
)

// Infer checks every unordered pair. O(n^2); see InferIndexed for large inputs.
func Infer(atoms []molecule.Atom) []molecule.Bond {
	var out []molecule.Bond
	for i := 0; i < len(atoms); i++ {
		for j := i + 1; j < len(atoms); j++ {
			if atoms[i].Position.Sub(atoms[j].Position).LenSqr() < ThresholdSq {
				out = append(out, molecule.Bond{Start: i, End: j})
			}
		}
	}
	return out
}

// Auto returns the same bond set as Infer, switching to the spatial index
// for structures with more than IndexedMinAtoms atoms.
func Auto(atoms []molecule.Atom) []molecule.Bond {
	if len(atoms) > IndexedMinAtoms {
		return InferIndexed(atoms)
	}
	return Infer(atoms)
}

func sortBonds(bs []molecule.Bond) {
	sort.Slice(bs, func(i, j int) bool {
		if bs[i].Start != bs[j].Start {
			return bs[i].Start < bs[j].Start
		}
		return bs[i].End < bs[j].End
	})
}
