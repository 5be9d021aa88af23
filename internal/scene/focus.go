package scene

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/molview/internal/camera"
)

const FocusDuration = time.Second

func EaseInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	u := -2*t + 2
	return 1 - u*u/2
}

// Focus flies the camera to an atom: the target moves onto the atom and
// the eye ends at half its previous distance along the same direction.
type Focus struct {
	Duration time.Duration

	running    bool
	start      time.Time
	fromPos    mgl64.Vec3
	fromTarget mgl64.Vec3
	toPos      mgl64.Vec3
	toTarget   mgl64.Vec3
}

func NewFocus() *Focus { return &Focus{Duration: FocusDuration} }

func (f *Focus) Running() bool { return f.running }

// Start replaces any flight in progress.
func (f *Focus) Start(now time.Time, c *camera.Controls, atom mgl64.Vec3) {
	pos := c.Camera.Position
	offset := pos.Sub(c.Target)
	dist := offset.Len()
	dir := mgl64.Vec3{}
	if dist > 0 {
		dir = offset.Mul(1 / dist)
	}

	f.running = true
	f.start = now
	f.fromPos = pos
	f.fromTarget = c.Target
	f.toTarget = atom
	f.toPos = atom.Add(dir.Mul(dist * 0.5))
}

func (f *Focus) Cancel() { f.running = false }

// Step moves the camera to where it should be at now and updates the
// controls. It reports whether the flight continues.
func (f *Focus) Step(now time.Time, c *camera.Controls) bool {
	if !f.running {
		return false
	}
	progress := 1.0
	if f.Duration > 0 {
		progress = min(float64(now.Sub(f.start))/float64(f.Duration), 1)
	}
	if progress < 0 {
		progress = 0
	}
	e := EaseInOutQuad(progress)
	c.Camera.Position = lerp(f.fromPos, f.toPos, e)
	c.Target = lerp(f.fromTarget, f.toTarget, e)
	c.Update()
	if progress >= 1 {
		f.running = false
	}
	return f.running
}

func lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
