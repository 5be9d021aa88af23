package parse

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/molview/internal/bonds"
	"github.com/san-kum/molview/internal/molecule"
)

const (
	cubeCountsLine = 2
	cubeAxisLine   = 3
	cubeAtomLine   = 6

	// MaxCubeVoxels caps nx*ny*nz so a header cannot force a huge allocation.
	MaxCubeVoxels = 1 << 26
)

// ParseCube reads a Gaussian CUBE file into atoms and a volumetric grid.
//
// Only the diagonal of the axis vectors is used as voxel size (x from the
// first axis line, y from the second, z from the third), which assumes an
// orthogonal lattice. Skewed grids are read as if they were orthogonal.
// Bonds are inferred from distances since the format has none.
func ParseCube(text string) (*molecule.Molecule, *molecule.Grid, error) {
	lines := splitLines(text)
	if len(lines) < cubeAtomLine {
		return nil, nil, missingLine(len(lines), "grid header")
	}

	counts := strings.Fields(lines[cubeCountsLine])
	atomCount := parseInt(field(counts, 0))
	if atomCount < 0 {
		// a negative count flags orbital data; the magnitude is the atom count
		atomCount = -atomCount
	}
	origin := mgl64.Vec3{parseFloat(field(counts, 1)), parseFloat(field(counts, 2)), parseFloat(field(counts, 3))}

	var dims [3]int
	var voxel mgl64.Vec3
	total := 1
	for k := 0; k < 3; k++ {
		tok := strings.Fields(lines[cubeAxisLine+k])
		dims[k] = max(parseInt(field(tok, 0)), 0)
		voxel[k] = parseFloat(field(tok, k+1))
		if dims[k] > 0 && total > MaxCubeVoxels/dims[k] {
			return nil, nil, &molecule.ParseError{
				Line:    cubeAxisLine + k,
				Wrapped: wrapf(molecule.ErrMalformedStructure, "grid exceeds %d voxels", MaxCubeVoxels),
			}
		}
		total *= dims[k]
	}

	mol := molecule.New("", molecule.SourceFile)
	i := cubeAtomLine
	for a := 0; a < atomCount; a++ {
		if i >= len(lines) {
			return nil, nil, missingLine(i, "atom line")
		}
		tok := strings.Fields(lines[i])
		i++
		if len(tok) < 5 {
			continue
		}
		z := parseInt(tok[0])
		mol.AddAtom(molecule.ElementSymbol(z), parseFloat(tok[2]), parseFloat(tok[3]), parseFloat(tok[4]))
	}

	grid := molecule.NewGrid(dims[0], dims[1], dims[2], origin, voxel)
	n := 0
	for ; i < len(lines) && n < len(grid.Values); i++ {
		for _, tok := range strings.Fields(lines[i]) {
			v := parseFloat(tok)
			if math.IsNaN(v) {
				continue
			}
			if n == len(grid.Values) {
				break
			}
			grid.Values[n] = v
			n++
		}
	}

	mol.Bonds = bonds.Auto(mol.Atoms)
	return mol, grid, nil
}
