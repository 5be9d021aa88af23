package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const sphericalEPS = 1e-6

// spherical uses y as the pole: Phi is measured from +y, Theta around y
// starting at +z.
type spherical struct {
	Radius, Phi, Theta float64
}

func sphericalFrom(v mgl64.Vec3) spherical {
	s := spherical{Radius: v.Len()}
	if s.Radius == 0 {
		return s
	}
	s.Theta = math.Atan2(v[0], v[2])
	s.Phi = math.Acos(mgl64.Clamp(v[1]/s.Radius, -1, 1))
	return s
}

// makeSafe keeps Phi off the poles.
func (s *spherical) makeSafe() {
	s.Phi = math.Max(sphericalEPS, math.Min(math.Pi-sphericalEPS, s.Phi))
}

func (s spherical) vec() mgl64.Vec3 {
	sinPhiR := math.Sin(s.Phi) * s.Radius
	return mgl64.Vec3{
		sinPhiR * math.Sin(s.Theta),
		math.Cos(s.Phi) * s.Radius,
		sinPhiR * math.Cos(s.Theta),
	}
}

// quatFromUnitVectors returns the shortest rotation taking from onto to.
// Antiparallel input picks an arbitrary perpendicular axis.
func quatFromUnitVectors(from, to mgl64.Vec3) mgl64.Quat {
	r := from.Dot(to) + 1
	var q mgl64.Quat
	if r < sphericalEPS {
		r = 0
		if math.Abs(from[0]) > math.Abs(from[2]) {
			q = mgl64.Quat{W: r, V: mgl64.Vec3{-from[1], from[0], 0}}
		} else {
			q = mgl64.Quat{W: r, V: mgl64.Vec3{0, -from[2], from[1]}}
		}
	} else {
		q = mgl64.Quat{W: r, V: from.Cross(to)}
	}
	return q.Normalize()
}

// clampAzimuth limits theta to [lo, hi]. Both bounds are first brought
// into (-pi, pi]. When lo > hi the allowed arc runs through pi and theta
// snaps to the bound on its side of the arc's midpoint.
func clampAzimuth(theta, lo, hi float64) float64 {
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) || math.IsNaN(lo) || math.IsNaN(hi) {
		return theta
	}
	lo = wrapAngle(lo)
	hi = wrapAngle(hi)
	if lo <= hi {
		return math.Max(lo, math.Min(hi, theta))
	}
	if theta > (lo+hi)/2 {
		return math.Max(lo, theta)
	}
	return math.Min(hi, theta)
}

func wrapAngle(a float64) float64 {
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}
