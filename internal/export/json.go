package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/molview/internal/molecule"
)

type AtomData struct {
	Element string     `json:"element"`
	Pos     [3]float64 `json:"pos"`
}

type MoleculeData struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Source string     `json:"source"`
	Atoms  []AtomData `json:"atoms"`
	Bonds  [][2]int   `json:"bonds"`
}

type GridData struct {
	Dims      [3]int     `json:"dims"`
	Origin    [3]float64 `json:"origin"`
	VoxelSize [3]float64 `json:"voxel_size"`
	Values    []float64  `json:"values,omitempty"`
}

type Document struct {
	Molecules []MoleculeData `json:"molecules"`
	Grid      *GridData      `json:"grid,omitempty"`
	Errors    []string       `json:"errors,omitempty"`
}

// NewDocument collects molecules, an optional grid and load errors. Grid
// values are included only when withValues is set.
func NewDocument(ms []*molecule.Molecule, g *molecule.Grid, withValues bool, errs []error) Document {
	doc := Document{Molecules: make([]MoleculeData, 0, len(ms))}
	for _, m := range ms {
		md := MoleculeData{
			ID:     m.ID.String(),
			Name:   m.Name,
			Source: m.Source.String(),
			Atoms:  make([]AtomData, len(m.Atoms)),
			Bonds:  make([][2]int, len(m.Bonds)),
		}
		for i, a := range m.Atoms {
			md.Atoms[i] = AtomData{Element: a.Element, Pos: [3]float64(a.Position)}
		}
		for i, b := range m.Bonds {
			md.Bonds[i] = [2]int{b.Start, b.End}
		}
		doc.Molecules = append(doc.Molecules, md)
	}
	if g != nil {
		doc.Grid = &GridData{
			Dims:      [3]int{g.Nx, g.Ny, g.Nz},
			Origin:    [3]float64(g.Origin),
			VoxelSize: [3]float64(g.VoxelSize),
		}
		if withValues {
			doc.Grid.Values = g.Values
		}
	}
	for _, err := range errs {
		doc.Errors = append(doc.Errors, err.Error())
	}
	return doc
}

func WriteJSON(w io.Writer, doc Document) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

func ExportJSON(path string, doc Document) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, doc)
}
