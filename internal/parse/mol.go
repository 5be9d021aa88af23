package parse

import (
	"fmt"
	"strings"

	"github.com/san-kum/molview/internal/molecule"
)

const molCountsLine = 3

// ParseMOL reads an MDL molfile. The three header lines are ignored; the
// counts line holds right-justified atom and bond counts in columns 1-3
// and 4-6. Bond indices are converted to 0-based.
func ParseMOL(text string) (*molecule.Molecule, error) {
	return parseMOLLines(splitLines(text), 0)
}

// parseMOLLines parses lines as one record; base is the record's first
// line in the enclosing file, used for error positions.
func parseMOLLines(lines []string, base int) (*molecule.Molecule, error) {
	if len(lines) <= molCountsLine {
		return nil, shift(missingLine(molCountsLine, "counts line"), base)
	}
	counts := lines[molCountsLine]
	atomCount := parseInt(fixedWidth(counts, 0, 3))
	bondCount := parseInt(fixedWidth(counts, 3, 3))

	mol := molecule.New("", molecule.SourceFile)
	first := molCountsLine + 1
	for i := first; i < first+atomCount; i++ {
		if i >= len(lines) {
			return nil, shift(missingLine(i, fmt.Sprintf("atom %d of %d", i-first+1, atomCount)), base)
		}
		tok := strings.Fields(lines[i])
		mol.AddAtom(field(tok, 3), parseFloat(field(tok, 0)), parseFloat(field(tok, 1)), parseFloat(field(tok, 2)))
	}

	first += max(atomCount, 0)
	for i := first; i < first+bondCount; i++ {
		if i >= len(lines) {
			return nil, shift(missingLine(i, fmt.Sprintf("bond %d of %d", i-first+1, bondCount)), base)
		}
		tok := strings.Fields(lines[i])
		mol.AddBond(parseInt(field(tok, 0))-1, parseInt(field(tok, 1))-1)
	}
	return mol, nil
}

func shift(err error, base int) error {
	if pe, ok := err.(*molecule.ParseError); ok {
		pe.Line += base
	}
	return err
}
