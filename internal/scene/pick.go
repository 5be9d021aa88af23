package scene

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/molview/internal/camera"
)

const hitEPS = 1e-4

type HitKind int

const (
	HitAtom HitKind = iota
	HitBond
)

type Hit struct {
	Kind     HitKind
	Molecule int
	Index    int // atom or bond index
	Distance float64
	Point    mgl64.Vec3
}

// IntersectSphere returns the nearest positive ray parameter.
func IntersectSphere(r camera.Ray, center mgl64.Vec3, radius float64) (float64, bool) {
	oc := r.Origin.Sub(center)
	a := r.Direction.Dot(r.Direction)
	b := 2 * oc.Dot(r.Direction)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - 4*a*c
	if disc < 0 || a == 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	if t := (-b - sq) / (2 * a); t > hitEPS {
		return t, true
	}
	if t := (-b + sq) / (2 * a); t > hitEPS {
		return t, true
	}
	return 0, false
}

// IntersectCylinder hits the side or the end caps of a finite cylinder.
func IntersectCylinder(r camera.Ray, p1, p2 mgl64.Vec3, radius float64) (float64, bool) {
	axis := p2.Sub(p1)
	length := axis.Len()
	if length == 0 {
		return 0, false
	}
	v := axis.Mul(1 / length)
	dp := r.Origin.Sub(p1)

	dPerp := r.Direction.Sub(v.Mul(r.Direction.Dot(v)))
	dpPerp := dp.Sub(v.Mul(dp.Dot(v)))
	a := dPerp.Dot(dPerp)
	b := 2 * dPerp.Dot(dpPerp)
	c := dpPerp.Dot(dpPerp) - radius*radius

	best := math.Inf(1)
	if a > hitEPS*hitEPS {
		if disc := b*b - 4*a*c; disc >= 0 {
			sq := math.Sqrt(disc)
			for _, t := range [2]float64{(-b - sq) / (2 * a), (-b + sq) / (2 * a)} {
				if t <= hitEPS || t >= best {
					continue
				}
				proj := r.At(t).Sub(p1).Dot(v)
				if proj >= 0 && proj <= length {
					best = t
				}
			}
		}
	}

	denom := r.Direction.Dot(v)
	if math.Abs(denom) > hitEPS {
		for _, capCenter := range [2]mgl64.Vec3{p1, p2} {
			t := capCenter.Sub(r.Origin).Dot(v) / denom
			if t <= hitEPS || t >= best {
				continue
			}
			if r.At(t).Sub(capCenter).LenSqr() <= radius*radius {
				best = t
			}
		}
	}
	if math.IsInf(best, 1) {
		return 0, false
	}
	return best, true
}

// Intersect returns every sphere and cylinder of f the ray hits, nearest
// first.
func Intersect(f Frame, r camera.Ray) []Hit {
	var hits []Hit
	for _, s := range f.Spheres {
		if t, ok := IntersectSphere(r, s.Position, s.Radius); ok {
			hits = append(hits, Hit{Kind: HitAtom, Molecule: s.Molecule, Index: s.Atom, Distance: t, Point: r.At(t)})
		}
	}
	for _, c := range f.Cylinders {
		if t, ok := IntersectCylinder(r, c.Start, c.End, c.Radius); ok {
			hits = append(hits, Hit{Kind: HitBond, Molecule: c.Molecule, Index: c.Bond, Distance: t, Point: r.At(t)})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

// Pick casts through ndc and returns the nearest atom hit. Bonds in front
// of an atom do not hide it.
func Pick(f Frame, cam *camera.Camera, ndc mgl64.Vec2) (Hit, bool) {
	for _, h := range Intersect(f, cam.Ray(ndc)) {
		if h.Kind == HitAtom {
			return h, true
		}
	}
	return Hit{}, false
}
