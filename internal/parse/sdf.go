package parse

import (
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/molview/internal/molecule"
)

const sdfSeparator = "$$$$"

type sdfChunk struct {
	start int
	lines []string
}

// ParseSDF splits text on "$$$$" lines and parses each non-blank record as
// a molfile. A lone record is named after name; several are numbered
// "Molecule 1", "Molecule 2", ... in file order. Records that fail are
// skipped and their errors joined; the others are still returned.
func ParseSDF(text, name string) ([]*molecule.Molecule, error) {
	chunks := splitSDF(splitLines(text))
	if len(chunks) == 0 {
		m := molecule.New(name, molecule.SourceFile)
		return []*molecule.Molecule{m}, nil
	}

	var (
		out  []*molecule.Molecule
		errs []error
	)
	for i, c := range chunks {
		m, err := parseMOLLines(c.lines, c.start)
		if err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i+1, err))
			continue
		}
		if len(chunks) == 1 {
			m.Name = name
		} else {
			m.Name = fmt.Sprintf("Molecule %d", i+1)
		}
		out = append(out, m)
	}
	return out, errors.Join(errs...)
}

func splitSDF(lines []string) []sdfChunk {
	var (
		chunks []sdfChunk
		cur    = sdfChunk{start: 0}
	)
	flush := func() {
		if strings.TrimSpace(strings.Join(cur.lines, "")) != "" {
			chunks = append(chunks, cur)
		}
	}
	for i, l := range lines {
		if l == sdfSeparator {
			flush()
			cur = sdfChunk{start: i + 1}
			continue
		}
		cur.lines = append(cur.lines, l)
	}
	flush()
	return chunks
}
