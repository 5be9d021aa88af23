package bonds

import (
	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/san-kum/molview/internal/molecule"
)

// InferIndexed finds the same bonds as Infer using a k-d tree radius query
// per atom. Results are sorted by (Start, End).
func InferIndexed(atoms []molecule.Atom) []molecule.Bond {
	if len(atoms) < 2 {
		return nil
	}
	pts := make(atomPoints, len(atoms))
	for i, a := range atoms {
		pts[i] = atomPoint{idx: i, pos: [3]float64{a.Position[0], a.Position[1], a.Position[2]}}
	}
	// kdtree.New reorders its input, so the tree gets its own copy.
	tree := kdtree.New(append(atomPoints(nil), pts...), false)

	var out []molecule.Bond
	for _, p := range pts {
		keep := kdtree.NewDistKeeper(ThresholdSq)
		tree.NearestSet(keep, p)
		for _, c := range keep.Heap {
			if c.Comparable == nil {
				continue
			}
			q := c.Comparable.(atomPoint)
			// DistKeeper keeps distances <= the bound; the cutoff is strict.
			if q.idx <= p.idx || c.Dist >= ThresholdSq {
				continue
			}
			out = append(out, molecule.Bond{Start: p.idx, End: q.idx})
		}
	}
	sortBonds(out)
	return out
}

type atomPoint struct {
	idx int
	pos [3]float64
}

func (p atomPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(atomPoint)
	return p.pos[d] - q.pos[d]
}

func (p atomPoint) Dims() int { return 3 }

// Distance is the squared Euclidean distance, as kdtree.Point uses.
func (p atomPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(atomPoint)
	var sum float64
	for k := range p.pos {
		d := p.pos[k] - q.pos[k]
		sum += d * d
	}
	return sum
}

type atomPoints []atomPoint

func (p atomPoints) Index(i int) kdtree.Comparable         { return p[i] }
func (p atomPoints) Len() int                              { return len(p) }
func (p atomPoints) Pivot(d kdtree.Dim) int                { return atomPlane{Dim: d, atomPoints: p}.Pivot() }
func (p atomPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

type atomPlane struct {
	kdtree.Dim
	atomPoints
}

func (p atomPlane) Less(i, j int) bool {
	return p.atomPoints[i].pos[p.Dim] < p.atomPoints[j].pos[p.Dim]
}
func (p atomPlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p atomPlane) Slice(start, end int) kdtree.SortSlicer {
	p.atomPoints = p.atomPoints[start:end]
	return p
}
func (p atomPlane) Swap(i, j int) {
	p.atomPoints[i], p.atomPoints[j] = p.atomPoints[j], p.atomPoints[i]
}
