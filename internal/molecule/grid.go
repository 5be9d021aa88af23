package molecule

import "github.com/go-gl/mathgl/mgl64"

// Grid is a dense scalar field on a regular lattice. Values are stored
// flat with z varying fastest, matching the CUBE stream order.
type Grid struct {
	Nx, Ny, Nz int
	Origin     mgl64.Vec3
	VoxelSize  mgl64.Vec3
	Values     []float64
}

func NewGrid(nx, ny, nz int, origin, voxel mgl64.Vec3) *Grid {
	n := nx * ny * nz
	if n < 0 {
		n = 0
	}
	return &Grid{Nx: nx, Ny: ny, Nz: nz, Origin: origin, VoxelSize: voxel, Values: make([]float64, n)}
}

func (g *Grid) Len() int { return g.Nx * g.Ny * g.Nz }

func (g *Grid) Index(ix, iy, iz int) int { return (ix*g.Ny+iy)*g.Nz + iz }

func (g *Grid) At(ix, iy, iz int) float64 { return g.Values[g.Index(ix, iy, iz)] }

func (g *Grid) Set(ix, iy, iz int, v float64) { g.Values[g.Index(ix, iy, iz)] = v }

// VoxelPosition is origin + index*voxelSize per axis.
func (g *Grid) VoxelPosition(ix, iy, iz int) mgl64.Vec3 {
	return mgl64.Vec3{
		g.Origin[0] + float64(ix)*g.VoxelSize[0],
		g.Origin[1] + float64(iy)*g.VoxelSize[1],
		g.Origin[2] + float64(iz)*g.VoxelSize[2],
	}
}
