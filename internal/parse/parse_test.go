package parse

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/molview/internal/molecule"
)

// molText renders atoms and bonds as a V2000 molfile with 1-based bond indices.
func molText(title string, atoms []molecule.Atom, bonds []molecule.Bond) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n  molview\n\n", title)
	fmt.Fprintf(&b, "%3d%3d  0  0  0  0  0  0  0  0999 V2000\n", len(atoms), len(bonds))
	for _, a := range atoms {
		fmt.Fprintf(&b, "%10.4f%10.4f%10.4f %-3s 0  0  0  0  0  0  0  0  0  0  0  0\n",
			a.Position[0], a.Position[1], a.Position[2], a.Element)
	}
	for _, bd := range bonds {
		fmt.Fprintf(&b, "%3d%3d  1  0\n", bd.Start+1, bd.End+1)
	}
	b.WriteString("M  END\n")
	return b.String()
}

func water() ([]molecule.Atom, []molecule.Bond) {
	atoms := []molecule.Atom{
		{Element: "O", Position: mgl64.Vec3{0, 0, 0}},
		{Element: "H", Position: mgl64.Vec3{0.95, 0, 0}},
		{Element: "H", Position: mgl64.Vec3{-0.95, 0, 0}},
	}
	bonds := []molecule.Bond{{Start: 0, End: 1}, {Start: 0, End: 2}}
	return atoms, bonds
}

func TestParseMOLRoundTrip(t *testing.T) {
	atoms, bonds := water()
	m, err := ParseMOL(molText("water", atoms, bonds))
	require.NoError(t, err)

	require.Len(t, m.Atoms, 3)
	for i := range atoms {
		assert.Equal(t, atoms[i].Element, m.Atoms[i].Element)
		assert.True(t, atoms[i].Position.ApproxEqualThreshold(m.Atoms[i].Position, 1e-9), "atom %d: %v", i, m.Atoms[i].Position)
	}
	assert.Equal(t, bonds, m.Bonds)
	assert.NoError(t, m.Validate())
}

func TestParseMOLMissingAtomLine(t *testing.T) {
	// the trailing newline yields an empty sixth line, so the fourth atom is the one missing
	text := "h\n\n\n  4  0\n0 0 0 O\n1 0 0 H\n"
	_, err := ParseMOL(text)
	require.Error(t, err)
	assert.True(t, errors.Is(err, molecule.ErrMalformedStructure))

	var pe *molecule.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 7, pe.Line)
}

func TestParseMOLMissingBondLine(t *testing.T) {
	text := "h\n\n\n  1  2\n0 0 0 O\n1 1"
	_, err := ParseMOL(text)
	assert.True(t, errors.Is(err, molecule.ErrMalformedStructure))
}

func TestParseMOLTooShort(t *testing.T) {
	_, err := ParseMOL("only\ntwo")
	assert.True(t, errors.Is(err, molecule.ErrMalformedStructure))
}

func TestParseMOLBadNumbersArePartial(t *testing.T) {
	text := "h\n\n\n  1  1\nabc 1.5 2 C\nx 1\n"
	m, err := ParseMOL(text)
	require.NoError(t, err)
	require.Len(t, m.Atoms, 1)
	assert.True(t, math.IsNaN(m.Atoms[0].Position[0]))
	assert.Equal(t, 1.5, m.Atoms[0].Position[1])
	assert.Equal(t, "C", m.Atoms[0].Element)
	assert.Equal(t, molecule.Bond{Start: -1, End: 0}, m.Bonds[0])
}

func TestParseMOLCRLF(t *testing.T) {
	atoms, bonds := water()
	text := strings.ReplaceAll(molText("w", atoms, bonds), "\n", "\r\n")
	m, err := ParseMOL(text)
	require.NoError(t, err)
	assert.Len(t, m.Atoms, 3)
	assert.Equal(t, "H", m.Atoms[2].Element)
}

func TestParseSDFMultiRecord(t *testing.T) {
	atoms, bonds := water()
	text := molText("a", atoms, bonds) + "$$$$\n" + molText("b", atoms[:2], bonds[:1]) + "$$$$\n\n"

	ms, err := ParseSDF(text, "pair.sdf")
	require.NoError(t, err)
	require.Len(t, ms, 2)
	assert.Equal(t, "Molecule 1", ms[0].Name)
	assert.Equal(t, "Molecule 2", ms[1].Name)
	assert.Len(t, ms[0].Atoms, 3)
	assert.Len(t, ms[1].Atoms, 2)
}

func TestParseSDFSingleRecordKeepsName(t *testing.T) {
	atoms, bonds := water()
	ms, err := ParseSDF(molText("a", atoms, bonds)+"$$$$\n", "water.sdf")
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, "water.sdf", ms[0].Name)
}

func TestParseSDFBadRecordIsLocal(t *testing.T) {
	atoms, bonds := water()
	bad := "broken\n\n\n  5  0\n0 0 0 C\n"
	text := molText("a", atoms, bonds) + "$$$$\n" + bad + "$$$$\n" + molText("c", atoms, bonds)

	ms, err := ParseSDF(text, "mixed.sdf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, molecule.ErrMalformedStructure))
	require.Len(t, ms, 2)
	assert.Equal(t, "Molecule 1", ms[0].Name)
	assert.Equal(t, "Molecule 3", ms[1].Name)
}

func TestParseSDFEmpty(t *testing.T) {
	ms, err := ParseSDF("  \n$$$$\n", "empty.sdf")
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Empty(t, ms[0].Atoms)
}

func TestParseXYZ(t *testing.T) {
	text := "3\nwater molecule\nO 0 0 0\nH 0.95 0 0\n\nH -0.95 0 0\nC 9 9 9\n"
	m, err := ParseXYZ(text)
	require.NoError(t, err)
	require.Len(t, m.Atoms, 3)
	assert.Equal(t, "H", m.Atoms[2].Element)
	assert.Equal(t, -0.95, m.Atoms[2].Position[0])
	assert.Empty(t, m.Bonds)
}

func TestParseXYZBlankCommentAndShortInput(t *testing.T) {
	m, err := ParseXYZ("5\n\nO 0 0 0\nH 1 0 0")
	require.NoError(t, err)
	assert.Len(t, m.Atoms, 2)

	_, err = ParseXYZ("")
	assert.True(t, errors.Is(err, molecule.ErrMalformedStructure))
}

const cubeText = `comment one
comment two
   -2   -1.000000   -2.000000   -3.000000
    2    0.500000    0.100000    0.000000
    2    0.000000    0.250000    0.000000
    3    0.000000    0.300000    2.000000
    8    8.000000    0.000000    0.000000    0.000000
    1    1.000000    1.000000    0.000000    0.000000
  1.0  2.0  3.0  4.0  5.0
  6.0  7.0  8.0  9.0 10.0
 11.0 12.0
`

func TestParseCube(t *testing.T) {
	m, g, err := ParseCube(cubeText)
	require.NoError(t, err)

	require.Len(t, m.Atoms, 2)
	assert.Equal(t, "O", m.Atoms[0].Element)
	assert.Equal(t, "H", m.Atoms[1].Element)
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, m.Atoms[1].Position)
	assert.Equal(t, []molecule.Bond{{Start: 0, End: 1}}, m.Bonds)

	assert.Equal(t, [3]int{2, 2, 3}, [3]int{g.Nx, g.Ny, g.Nz})
	assert.Equal(t, mgl64.Vec3{-1, -2, -3}, g.Origin)
	// only the diagonal of the axis vectors is honoured
	assert.Equal(t, mgl64.Vec3{0.5, 0.25, 2}, g.VoxelSize)

	require.Len(t, g.Values, 12)
	assert.Equal(t, 1.0, g.At(0, 0, 0))
	assert.Equal(t, 2.0, g.At(0, 0, 1))
	assert.Equal(t, 4.0, g.At(0, 1, 0))
	assert.Equal(t, 7.0, g.At(1, 0, 0))
	assert.Equal(t, 12.0, g.At(1, 1, 2))
}

func TestParseCubeErrors(t *testing.T) {
	_, _, err := ParseCube("a\nb\n 1 0 0 0\n")
	assert.True(t, errors.Is(err, molecule.ErrMalformedStructure))

	lines := strings.Split(cubeText, "\n")
	_, _, err = ParseCube(strings.Join(lines[:7], "\n"))
	assert.True(t, errors.Is(err, molecule.ErrMalformedStructure))
}

func TestParseCubeRejectsHugeGrid(t *testing.T) {
	for _, dims := range [][3]string{
		{"100000", "100000", "100000"},
		{"3037000500", "3037000500", "4"},
	} {
		text := "c\nc\n 1 0 0 0\n" +
			" " + dims[0] + " 1 0 0\n" +
			" " + dims[1] + " 0 1 0\n" +
			" " + dims[2] + " 0 0 1\n" +
			" 1 1 0 0 0\n"
		m, g, err := ParseCube(text)
		require.Error(t, err, "dims %v", dims)
		assert.Nil(t, m)
		assert.Nil(t, g)
		assert.True(t, errors.Is(err, molecule.ErrMalformedStructure))

		var pe *molecule.ParseError
		require.True(t, errors.As(err, &pe))
		assert.GreaterOrEqual(t, pe.Line, cubeAxisLine)
		assert.Less(t, pe.Line, cubeAtomLine)
	}
}

func TestParseCubeShortDataZeroFills(t *testing.T) {
	lines := strings.Split(cubeText, "\n")
	_, g, err := ParseCube(strings.Join(lines[:9], "\n"))
	require.NoError(t, err)
	assert.Equal(t, 5.0, g.Values[4])
	assert.Equal(t, 0.0, g.Values[11])
}
