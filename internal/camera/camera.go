package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type Projection int

const (
	Perspective Projection = iota
	Orthographic
)

func (p Projection) String() string {
	switch p {
	case Perspective:
		return "perspective"
	case Orthographic:
		return "orthographic"
	}
	return "unknown"
}

// Camera is a positioned, oriented eye with either a perspective or an
// orthographic lens. Fov is the vertical field of view in degrees. The
// orthographic frustum (Left, Right, Top, Bottom) is divided by Zoom.
type Camera struct {
	Projection  Projection
	Position    mgl64.Vec3
	Up          mgl64.Vec3
	Orientation mgl64.Quat

	Fov    float64
	Aspect float64
	Near   float64
	Far    float64
	Zoom   float64

	Left, Right, Top, Bottom float64
}

func NewPerspective(fov, aspect, near, far float64) *Camera {
	return &Camera{
		Projection:  Perspective,
		Up:          mgl64.Vec3{0, 1, 0},
		Orientation: mgl64.QuatIdent(),
		Fov:         fov,
		Aspect:      aspect,
		Near:        near,
		Far:         far,
		Zoom:        1,
	}
}

func NewOrthographic(left, right, top, bottom, near, far float64) *Camera {
	return &Camera{
		Projection:  Orthographic,
		Up:          mgl64.Vec3{0, 1, 0},
		Orientation: mgl64.QuatIdent(),
		Near:        near,
		Far:         far,
		Zoom:        1,
		Left:        left,
		Right:       right,
		Top:         top,
		Bottom:      bottom,
	}
}

func (c *Camera) Clone() *Camera {
	cc := *c
	return &cc
}

// LookAt orients the camera so its -z axis points at target with Up as
// the reference up direction.
func (c *Camera) LookAt(target mgl64.Vec3) {
	z := c.Position.Sub(target)
	if z.LenSqr() == 0 {
		z[2] = 1
	}
	z = z.Normalize()
	x := c.Up.Cross(z)
	if x.LenSqr() == 0 {
		// up and view direction are parallel
		if math.Abs(c.Up[2]) == 1 {
			z[0] += 0.0001
		} else {
			z[2] += 0.0001
		}
		z = z.Normalize()
		x = c.Up.Cross(z)
	}
	x = x.Normalize()
	y := z.Cross(x)
	c.Orientation = mgl64.Mat4ToQuat(mgl64.Mat3FromCols(x, y, z).Mat4()).Normalize()
}

// Matrix is the camera's world transform.
func (c *Camera) Matrix() mgl64.Mat4 {
	return mgl64.Translate3D(c.Position[0], c.Position[1], c.Position[2]).Mul4(c.Orientation.Mat4())
}

func (c *Camera) ViewMatrix() mgl64.Mat4 {
	return c.Matrix().Inv()
}

// Axis returns column i of the camera rotation: 0 right, 1 up, 2 backwards.
func (c *Camera) Axis(i int) mgl64.Vec3 {
	var v mgl64.Vec3
	v[i] = 1
	return c.Orientation.Rotate(v)
}

func (c *Camera) ProjectionMatrix() mgl64.Mat4 {
	if c.Projection == Orthographic {
		l, r, t, b := c.frustum()
		return mgl64.Ortho(l, r, b, t, c.Near, c.Far)
	}
	return mgl64.Perspective(mgl64.DegToRad(c.Fov), c.Aspect, c.Near, c.Far)
}

func (c *Camera) frustum() (left, right, top, bottom float64) {
	zoom := c.Zoom
	if zoom == 0 {
		zoom = 1
	}
	dx := (c.Right - c.Left) / (2 * zoom)
	dy := (c.Top - c.Bottom) / (2 * zoom)
	cx := (c.Right + c.Left) / 2
	cy := (c.Top + c.Bottom) / 2
	return cx - dx, cx + dx, cy + dy, cy - dy
}

// Ray is a half line with a unit direction.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Ray casts through ndc, where both axes run from -1 to 1 and y points up.
func (c *Camera) Ray(ndc mgl64.Vec2) Ray {
	inv := c.ProjectionMatrix().Mul4(c.ViewMatrix()).Inv()
	near := unproject(inv, ndc[0], ndc[1], -1)
	far := unproject(inv, ndc[0], ndc[1], 1)
	if c.Projection == Perspective {
		near = c.Position
	}
	return Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

func unproject(inv mgl64.Mat4, x, y, z float64) mgl64.Vec3 {
	v := inv.Mul4x1(mgl64.Vec4{x, y, z, 1})
	return v.Vec3().Mul(1 / v[3])
}

// Project maps a world point to normalized device coordinates. ok is
// false when the point lies behind the eye.
func (c *Camera) Project(p mgl64.Vec3) (ndc mgl64.Vec3, ok bool) {
	clip := c.ProjectionMatrix().Mul4(c.ViewMatrix()).Mul4x1(p.Vec4(1))
	if clip[3] <= 0 {
		return mgl64.Vec3{}, false
	}
	return clip.Vec3().Mul(1 / clip[3]), true
}

// ToScreen converts ndc to pixel coordinates in a width x height viewport
// with the origin top left.
func ToScreen(ndc mgl64.Vec3, width, height float64) (x, y float64) {
	return (ndc[0] + 1) / 2 * width, (1 - ndc[1]) / 2 * height
}

// ToNDC is the inverse of ToScreen for the x and y axes.
func ToNDC(x, y, width, height float64) mgl64.Vec2 {
	return mgl64.Vec2{x/width*2 - 1, 1 - y/height*2}
}
