package parse

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/molview/internal/molecule"
)

func TestRegistryUnsupported(t *testing.T) {
	r := NewRegistry()
	_, err := r.Parse("notes.txt", strings.NewReader("hello"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, molecule.ErrUnsupportedFormat))

	assert.Equal(t, []string{".cub", ".cube", ".mol", ".sdf", ".xyz"}, r.Extensions())
}

func TestRegistryNamesAndStampsFile(t *testing.T) {
	r := NewRegistry()
	res, err := r.Parse("dir/water.xyz", strings.NewReader("1\n\nO 0 0 0\n"))
	require.NoError(t, err)
	assert.Equal(t, "water.xyz", res.Molecules[0].Name)

	_, err = r.Parse("bad.mol", strings.NewReader("x\n"))
	var pe *molecule.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "bad.mol", pe.File)
}

func TestRegistryCompressedInput(t *testing.T) {
	atoms, bonds := water()
	text := molText("water", atoms, bonds)
	r := NewRegistry()

	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	_, err := zw.Write([]byte(text))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	res, err := r.Parse("water.mol.gz", &gz)
	require.NoError(t, err)
	assert.Len(t, res.Molecules[0].Atoms, 3)
	assert.Equal(t, "water.mol.gz", res.Molecules[0].Name)

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	packed := enc.EncodeAll([]byte(cubeText), nil)
	require.NoError(t, enc.Close())

	res, err = r.Parse("density.cube.zst", bytes.NewReader(packed))
	require.NoError(t, err)
	require.NotNil(t, res.Grid)
	assert.Equal(t, 12, res.Grid.Len())
}

func TestLoadFilesKeepsFailuresLocal(t *testing.T) {
	dir := t.TempDir()
	atoms, bonds := water()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0644))
		return p
	}
	paths := []string{
		write("a.mol", molText("a", atoms, bonds)),
		write("b.txt", "nope"),
		write("c.mol", "too\nshort"),
		write("d.cube", cubeText),
		filepath.Join(dir, "missing.xyz"),
	}

	batch := LoadFiles(context.Background(), paths, LoadOptions{OffsetStep: DefaultOffsetStep})
	require.Len(t, batch.Files, 5)

	assert.NoError(t, batch.Files[0].Err)
	assert.True(t, errors.Is(batch.Files[1].Err, molecule.ErrUnsupportedFormat))
	assert.True(t, errors.Is(batch.Files[2].Err, molecule.ErrMalformedStructure))
	assert.NoError(t, batch.Files[3].Err)
	assert.True(t, errors.Is(batch.Files[4].Err, os.ErrNotExist))
	assert.Len(t, batch.Errors(), 3)

	ms := batch.Molecules()
	require.Len(t, ms, 2)
	assert.Equal(t, "a.mol", ms[0].Name)
	assert.Equal(t, molecule.SourceFile, ms[0].Source)
	assert.True(t, ms[0].Visible)
	assert.False(t, ms[0].LabelsVisible)

	// file index 3 is shifted by 3 * 6 along x, grid included
	assert.InDelta(t, 18.0, ms[1].Atoms[0].Position[0], 1e-12)
	assert.InDelta(t, 17.0, batch.Files[3].Grid.Origin[0], 1e-12)
}

func TestLoadFilesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	batch := LoadFiles(ctx, []string{"x.mol"}, LoadOptions{})
	require.Len(t, batch.Files, 1)
	assert.True(t, errors.Is(batch.Files[0].Err, context.Canceled))
}
