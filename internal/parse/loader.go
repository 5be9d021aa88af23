package parse

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/molview/internal/molecule"
)

// DefaultOffsetStep separates the molecules of consecutive files along x.
const DefaultOffsetStep = 6.0

type LoadOptions struct {
	OffsetStep float64
	Registry   *Registry
}

// FileResult is the outcome for one input path. Err may be set alongside
// partial molecules (an SDF with some bad records).
type FileResult struct {
	Path      string
	Molecules []*molecule.Molecule
	Grid      *molecule.Grid
	Err       error
}

// Batch holds per-file results in the order the paths were given.
type Batch struct {
	Files []FileResult
}

func (b Batch) Molecules() []*molecule.Molecule {
	var out []*molecule.Molecule
	for _, f := range b.Files {
		out = append(out, f.Molecules...)
	}
	return out
}

func (b Batch) Errors() []error {
	var out []error
	for _, f := range b.Files {
		if f.Err != nil {
			out = append(out, f.Err)
		}
	}
	return out
}

// LoadFiles reads and parses paths concurrently. A failing file never
// affects the others. Cancelling ctx marks unfinished files with ctx.Err().
func LoadFiles(ctx context.Context, paths []string, opts LoadOptions) Batch {
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	batch := Batch{Files: make([]FileResult, len(paths))}

	var wg sync.WaitGroup
	for i, p := range paths {
		wg.Add(1)
		go func(idx int, path string) {
			defer wg.Done()
			batch.Files[idx] = loadOne(ctx, opts.Registry, path)
		}(i, p)
	}
	wg.Wait()

	for i := range batch.Files {
		off := mgl64.Vec3{float64(i) * opts.OffsetStep, 0, 0}
		normalize(batch.Files[i].Molecules, off)
		// keep the density grid aligned with its shifted atoms
		if g := batch.Files[i].Grid; g != nil {
			g.Origin = g.Origin.Add(off)
		}
	}
	return batch
}

func loadOne(ctx context.Context, reg *Registry, path string) FileResult {
	fr := FileResult{Path: path}
	if err := ctx.Err(); err != nil {
		fr.Err = err
		return fr
	}
	if _, err := reg.Lookup(path); err != nil {
		fr.Err = err
		return fr
	}
	f, err := os.Open(path)
	if err != nil {
		fr.Err = err
		return fr
	}
	defer f.Close()

	res, err := reg.Parse(filepath.Base(path), f)
	if ctxErr := ctx.Err(); ctxErr != nil {
		fr.Err = ctxErr
		return fr
	}
	fr.Err = err
	if res != nil {
		fr.Molecules = res.Molecules
		fr.Grid = res.Grid
	}
	return fr
}

// normalize applies the file defaults: file source, visible, labels hidden.
func normalize(ms []*molecule.Molecule, offset mgl64.Vec3) {
	for _, m := range ms {
		m.Source = molecule.SourceFile
		m.Visible = true
		if offset != (mgl64.Vec3{}) {
			m.Translate(offset)
		}
	}
}
