package parse

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/san-kum/molview/internal/molecule"
)

// Result is what one file produced. Grid is set only for CUBE input.
type Result struct {
	Molecules []*molecule.Molecule
	Grid      *molecule.Grid
}

// Func parses the full text of a file called name.
type Func func(text, name string) (*Result, error)

type Registry struct {
	parsers map[string]Func
}

func NewRegistry() *Registry {
	r := &Registry{parsers: make(map[string]Func)}

	r.parsers[".mol"] = func(text, name string) (*Result, error) {
		m, err := ParseMOL(text)
		if err != nil {
			return nil, err
		}
		m.Name = name
		return &Result{Molecules: []*molecule.Molecule{m}}, nil
	}
	r.parsers[".sdf"] = func(text, name string) (*Result, error) {
		ms, err := ParseSDF(text, name)
		return &Result{Molecules: ms}, err
	}
	r.parsers[".xyz"] = func(text, name string) (*Result, error) {
		m, err := ParseXYZ(text)
		if err != nil {
			return nil, err
		}
		m.Name = name
		return &Result{Molecules: []*molecule.Molecule{m}}, nil
	}
	cube := func(text, name string) (*Result, error) {
		m, g, err := ParseCube(text)
		if err != nil {
			return nil, err
		}
		m.Name = name
		return &Result{Molecules: []*molecule.Molecule{m}, Grid: g}, nil
	}
	r.parsers[".cub"] = cube
	r.parsers[".cube"] = cube

	return r
}

// Register adds or replaces the parser for ext (with leading dot).
func (r *Registry) Register(ext string, fn Func) {
	r.parsers[strings.ToLower(ext)] = fn
}

func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.parsers))
	for ext := range r.parsers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Lookup returns the parser for a file name, ignoring a compression suffix.
func (r *Registry) Lookup(name string) (Func, error) {
	base, _ := splitCompression(name)
	ext := strings.ToLower(filepath.Ext(base))
	fn, ok := r.parsers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)", molecule.ErrUnsupportedFormat, ext, strings.Join(r.Extensions(), ", "))
	}
	return fn, nil
}

// Parse dispatches on name's extension and reads everything from rd,
// decompressing .gz and .zst input first. Parse errors carry the file name.
func (r *Registry) Parse(name string, rd io.Reader) (*Result, error) {
	fn, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	_, codec := splitCompression(name)
	text, err := readAll(rd, codec)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	res, err := fn(text, filepath.Base(name))
	return res, withFile(err, filepath.Base(name))
}

type compression int

const (
	plain compression = iota
	gzipped
	zstandard
)

func splitCompression(name string) (string, compression) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz":
		return strings.TrimSuffix(name, filepath.Ext(name)), gzipped
	case ".zst":
		return strings.TrimSuffix(name, filepath.Ext(name)), zstandard
	}
	return name, plain
}

func readAll(rd io.Reader, c compression) (string, error) {
	switch c {
	case gzipped:
		zr, err := gzip.NewReader(rd)
		if err != nil {
			return "", err
		}
		defer zr.Close()
		rd = zr
	case zstandard:
		zr, err := zstd.NewReader(rd)
		if err != nil {
			return "", err
		}
		defer zr.Close()
		rd = zr
	}
	data, err := io.ReadAll(rd)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// withFile stamps the file name on every ParseError inside err.
func withFile(err error, name string) error {
	if err == nil {
		return nil
	}
	stampFile(err, name)
	return err
}

func stampFile(err error, name string) {
	switch e := err.(type) {
	case *molecule.ParseError:
		if e.File == "" {
			e.File = name
		}
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			stampFile(inner, name)
		}
	case interface{ Unwrap() error }:
		if inner := e.Unwrap(); inner != nil {
			stampFile(inner, name)
		}
	}
}
