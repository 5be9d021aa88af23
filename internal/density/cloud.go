// Package density turns a volumetric grid into a sparse, signed point cloud.
package density

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/molview/internal/molecule"
)

// NoiseFloor is the magnitude below which a voxel is never emitted,
// whatever the thresholds are.
const NoiseFloor = 1e-5

// DefaultThreshold applies to both signs.
const DefaultThreshold = 0.001

type Sign int

const (
	Positive Sign = iota
	Negative
)

func (s Sign) String() string {
	if s == Negative {
		return "negative"
	}
	return "positive"
}

var (
	positiveColor = color.RGBA{R: 0xff, A: 0xff}
	negativeColor = color.RGBA{B: 0xff, A: 0xff}
)

// Color is red for positive points and blue for negative ones.
func (s Sign) Color() color.RGBA {
	if s == Negative {
		return negativeColor
	}
	return positiveColor
}

// Thresholds are magnitudes; Negative is compared against |v|.
type Thresholds struct {
	Positive float64 `yaml:"positive"`
	Negative float64 `yaml:"negative"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{Positive: DefaultThreshold, Negative: DefaultThreshold}
}

type Point struct {
	Position mgl64.Vec3
	Sign     Sign
}

// slabVoxels is the least work, in voxels, given to one goroutine.
const slabVoxels = 1 << 15

// Build walks every voxel of g and emits the ones that pass the noise
// floor and the threshold for their sign, in x-major order. The result is
// rebuilt from scratch each call. Large grids are split into x slabs
// that are classified concurrently.
func Build(g *molecule.Grid, th Thresholds) []Point {
	if g == nil || g.Len() == 0 {
		return nil
	}
	slabs := make([][]Point, g.Nx)
	perSlab := max(g.Ny*g.Nz, 1)
	parallelFor(g.Nx, max(slabVoxels/perSlab, 1), func(start, end int) {
		for ix := start; ix < end; ix++ {
			slabs[ix] = buildSlab(g, ix, th)
		}
	})

	var pts []Point
	for _, s := range slabs {
		pts = append(pts, s...)
	}
	return pts
}

func buildSlab(g *molecule.Grid, ix int, th Thresholds) []Point {
	var pts []Point
	for iy := 0; iy < g.Ny; iy++ {
		for iz := 0; iz < g.Nz; iz++ {
			sign, ok := classify(g.At(ix, iy, iz), th)
			if !ok {
				continue
			}
			pts = append(pts, Point{Position: g.VoxelPosition(ix, iy, iz), Sign: sign})
		}
	}
	return pts
}

func classify(v float64, th Thresholds) (Sign, bool) {
	if math.IsNaN(v) || math.Abs(v) < NoiseFloor {
		return Positive, false
	}
	if v > 0 {
		return Positive, v >= th.Positive
	}
	return Negative, -v >= th.Negative
}

// Count returns how many positive and negative points Build would emit.
func Count(g *molecule.Grid, th Thresholds) (pos, neg int) {
	if g == nil {
		return 0, 0
	}
	for _, v := range g.Values {
		sign, ok := classify(v, th)
		if !ok {
			continue
		}
		if sign == Positive {
			pos++
		} else {
			neg++
		}
	}
	return pos, neg
}
