package parse

import (
	"strings"

	"github.com/san-kum/molview/internal/molecule"
)

// ParseXYZ reads an XYZ file: atom count, comment line, then
// "element x y z" rows. Reading stops after the declared count or at end
// of input. Rows with fewer than four fields are skipped. XYZ carries no
// connectivity.
func ParseXYZ(text string) (*molecule.Molecule, error) {
	lines := splitLines(text)
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil, missingLine(0, "atom count")
	}
	n := parseInt(lines[0])

	mol := molecule.New("", molecule.SourceFile)
	for i := 2; i < len(lines) && len(mol.Atoms) < n; i++ {
		tok := strings.Fields(lines[i])
		if len(tok) < 4 {
			continue
		}
		mol.AddAtom(tok[0], parseFloat(tok[1]), parseFloat(tok[2]), parseFloat(tok[3]))
	}
	return mol, nil
}
