package camera

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/molview/internal/logging"
)

type State int

const (
	StateNone State = iota
	StateRotate
	StatePan
	StateDolly
	StateTouchRotate
	StateTouchPan
	StateTouchDollyPan
	StateTouchDollyRotate
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateRotate:
		return "rotate"
	case StatePan:
		return "pan"
	case StateDolly:
		return "dolly"
	case StateTouchRotate:
		return "touch_rotate"
	case StateTouchPan:
		return "touch_pan"
	case StateTouchDollyPan:
		return "touch_dolly_pan"
	case StateTouchDollyRotate:
		return "touch_dolly_rotate"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Action is what a mouse button or touch count is bound to.
type Action int

const (
	ActionNone Action = iota
	ActionRotate
	ActionDolly
	ActionPan
	ActionDollyPan
	ActionDollyRotate
)

type MouseButtons struct {
	Left, Middle, Right Action
}

type Touches struct {
	One, Two Action
}

// Keys names the key codes that pan (or, with a modifier, rotate).
type Keys struct {
	Left, Up, Right, Bottom string
}

const changeEPS = 1e-6

// Controls orbits a camera around Target. Input moves pending deltas;
// Update applies them once per frame with optional damping.
type Controls struct {
	Camera *Camera
	Target mgl64.Vec3

	Enabled bool

	MinDistance, MaxDistance float64
	MinZoom, MaxZoom         float64

	// Radians. Polar is measured from the up axis.
	MinPolarAngle, MaxPolarAngle     float64
	MinAzimuthAngle, MaxAzimuthAngle float64

	EnableDamping bool
	DampingFactor float64

	EnableZoom bool
	ZoomSpeed  float64

	EnableRotate bool
	RotateSpeed  float64

	EnablePan          bool
	PanSpeed           float64
	ScreenSpacePanning bool
	KeyPanSpeed        float64

	AutoRotate      bool
	AutoRotateSpeed float64

	Keys         Keys
	MouseButtons MouseButtons
	Touches      Touches

	state State

	sph      spherical
	sphDelta spherical
	scale    float64
	panOff   mgl64.Vec3

	zoomChanged  bool
	lastPosition mgl64.Vec3
	lastQuat     mgl64.Quat

	rotateStart, rotateEnd mgl64.Vec2
	panStart, panEnd       mgl64.Vec2
	dollyStart, dollyEnd   mgl64.Vec2

	pointers  []int
	positions map[int]mgl64.Vec2

	clientWidth, clientHeight float64

	target0   mgl64.Vec3
	position0 mgl64.Vec3
	zoom0     float64

	listeners   map[int]func(Event)
	nextID      int
	unsubscribe []func()
	disposed    bool

	log logging.Logger
}

// NewControls attaches controls to cam, saves its pose for Reset and runs
// one Update.
func NewControls(cam *Camera, log logging.Logger) *Controls {
	c := &Controls{
		Camera:  cam,
		Enabled: true,

		MinDistance:     0,
		MaxDistance:     math.Inf(1),
		MinZoom:         0,
		MaxZoom:         math.Inf(1),
		MinPolarAngle:   0,
		MaxPolarAngle:   math.Pi,
		MinAzimuthAngle: math.Inf(-1),
		MaxAzimuthAngle: math.Inf(1),

		DampingFactor: 0.05,

		EnableZoom:   true,
		ZoomSpeed:    1,
		EnableRotate: true,
		RotateSpeed:  1,
		EnablePan:    true,
		PanSpeed:     1,

		ScreenSpacePanning: true,
		KeyPanSpeed:        7,
		AutoRotateSpeed:    2,

		Keys:         Keys{Left: "ArrowLeft", Up: "ArrowUp", Right: "ArrowRight", Bottom: "ArrowDown"},
		MouseButtons: MouseButtons{Left: ActionRotate, Middle: ActionDolly, Right: ActionPan},
		Touches:      Touches{One: ActionRotate, Two: ActionDollyPan},

		scale:        1,
		positions:    make(map[int]mgl64.Vec2),
		clientWidth:  1,
		clientHeight: 1,
		lastQuat:     mgl64.QuatIdent(),
		listeners:    make(map[int]func(Event)),
		log:          logging.OrNop(log),
	}
	c.target0 = c.Target
	c.position0 = cam.Position
	c.zoom0 = cam.Zoom
	c.Update()
	return c
}

func (c *Controls) State() State { return c.state }

// SetViewport sets the client size used to scale rotate and pan input.
// Non-positive sizes are ignored.
func (c *Controls) SetViewport(width, height float64) {
	if width > 0 {
		c.clientWidth = width
	}
	if height > 0 {
		c.clientHeight = height
	}
}

func (c *Controls) Viewport() (width, height float64) {
	return c.clientWidth, c.clientHeight
}

func (c *Controls) PolarAngle() float64 { return c.sph.Phi }

func (c *Controls) AzimuthalAngle() float64 { return c.sph.Theta }

func (c *Controls) Distance() float64 {
	return c.Camera.Position.Sub(c.Target).Len()
}

// On registers fn for every event and returns a func that removes it.
func (c *Controls) On(fn func(Event)) func() {
	c.nextID++
	id := c.nextID
	c.listeners[id] = fn
	return func() { delete(c.listeners, id) }
}

func (c *Controls) emit(e Event) {
	for id := 1; id <= c.nextID; id++ {
		if fn, ok := c.listeners[id]; ok {
			fn(e)
		}
	}
}

// Listen subscribes the controls to src until Dispose.
func (c *Controls) Listen(src InputSource) {
	if c.disposed {
		return
	}
	c.unsubscribe = append(c.unsubscribe, src.Subscribe(c))
}

// Dispose detaches from every input source. Later input is ignored.
func (c *Controls) Dispose() {
	for _, u := range c.unsubscribe {
		u()
	}
	c.unsubscribe = nil
	c.pointers = nil
	c.positions = make(map[int]mgl64.Vec2)
	c.state = StateNone
	c.disposed = true
}

// SaveState records the current target, position and zoom for Reset.
func (c *Controls) SaveState() {
	c.target0 = c.Target
	c.position0 = c.Camera.Position
	c.zoom0 = c.Camera.Zoom
}

func (c *Controls) Reset() {
	c.Target = c.target0
	c.Camera.Position = c.position0
	c.Camera.Zoom = c.zoom0
	c.emit(Event{Type: EventChange})
	c.Update()
	c.state = StateNone
}

// Update advances one frame and reports whether the view changed.
func (c *Controls) Update() bool {
	cam := c.Camera
	quat := quatFromUnitVectors(cam.Up.Normalize(), mgl64.Vec3{0, 1, 0})
	quatInv := quat.Inverse()

	offset := quat.Rotate(cam.Position.Sub(c.Target))
	c.sph = sphericalFrom(offset)

	if c.AutoRotate && c.state == StateNone {
		c.rotateLeft(c.autoRotationAngle())
	}

	if c.EnableDamping {
		c.sph.Theta += c.sphDelta.Theta * c.DampingFactor
		c.sph.Phi += c.sphDelta.Phi * c.DampingFactor
	} else {
		c.sph.Theta += c.sphDelta.Theta
		c.sph.Phi += c.sphDelta.Phi
	}

	c.sph.Theta = clampAzimuth(c.sph.Theta, c.MinAzimuthAngle, c.MaxAzimuthAngle)
	c.sph.Phi = math.Max(c.MinPolarAngle, math.Min(c.MaxPolarAngle, c.sph.Phi))
	c.sph.makeSafe()

	c.sph.Radius *= c.scale
	c.sph.Radius = math.Max(c.MinDistance, math.Min(c.MaxDistance, c.sph.Radius))

	if c.EnableDamping {
		c.Target = c.Target.Add(c.panOff.Mul(c.DampingFactor))
	} else {
		c.Target = c.Target.Add(c.panOff)
	}

	cam.Position = c.Target.Add(quatInv.Rotate(c.sph.vec()))
	cam.LookAt(c.Target)

	if c.EnableDamping {
		c.sphDelta.Theta *= 1 - c.DampingFactor
		c.sphDelta.Phi *= 1 - c.DampingFactor
		c.panOff = c.panOff.Mul(1 - c.DampingFactor)
	} else {
		c.sphDelta = spherical{}
		c.panOff = mgl64.Vec3{}
	}
	c.scale = 1

	moved := c.lastPosition.Sub(cam.Position).LenSqr()
	turned := 8 * (1 - c.lastQuat.Dot(cam.Orientation))
	if c.zoomChanged || moved > changeEPS || turned > changeEPS {
		c.emit(Event{Type: EventChange})
		c.lastPosition = cam.Position
		c.lastQuat = cam.Orientation
		c.zoomChanged = false
		return true
	}
	return false
}

func (c *Controls) autoRotationAngle() float64 {
	return 2 * math.Pi / 60 / 60 * c.AutoRotateSpeed
}

func (c *Controls) zoomScale() float64 {
	return math.Pow(0.95, c.ZoomSpeed)
}

func (c *Controls) rotateLeft(angle float64) { c.sphDelta.Theta -= angle }

func (c *Controls) rotateUp(angle float64) { c.sphDelta.Phi -= angle }

func (c *Controls) panLeft(distance float64) {
	v := c.Camera.Axis(0).Mul(-distance)
	c.panOff = c.panOff.Add(v)
}

func (c *Controls) panUp(distance float64) {
	var v mgl64.Vec3
	if c.ScreenSpacePanning {
		v = c.Camera.Axis(1)
	} else {
		v = c.Camera.Up.Cross(c.Camera.Axis(0))
	}
	c.panOff = c.panOff.Add(v.Mul(distance))
}

// pan moves the target by a screen-space delta in client pixels.
func (c *Controls) pan(dx, dy float64) {
	cam := c.Camera
	switch cam.Projection {
	case Perspective:
		dist := cam.Position.Sub(c.Target).Len()
		dist *= math.Tan(mgl64.DegToRad(cam.Fov / 2))
		c.panLeft(2 * dx * dist / c.clientHeight)
		c.panUp(2 * dy * dist / c.clientHeight)
	case Orthographic:
		c.panLeft(dx * (cam.Right - cam.Left) / cam.Zoom / c.clientWidth)
		c.panUp(dy * (cam.Top - cam.Bottom) / cam.Zoom / c.clientHeight)
	default:
		c.unsupported("pan", &c.EnablePan)
	}
}

func (c *Controls) dollyOut(s float64) {
	cam := c.Camera
	switch cam.Projection {
	case Perspective:
		c.scale /= s
	case Orthographic:
		cam.Zoom = math.Max(c.MinZoom, math.Min(c.MaxZoom, cam.Zoom*s))
		c.zoomChanged = true
	default:
		c.unsupported("dolly", &c.EnableZoom)
	}
}

func (c *Controls) dollyIn(s float64) {
	cam := c.Camera
	switch cam.Projection {
	case Perspective:
		c.scale *= s
	case Orthographic:
		cam.Zoom = math.Max(c.MinZoom, math.Min(c.MaxZoom, cam.Zoom/s))
		c.zoomChanged = true
	default:
		c.unsupported("dolly", &c.EnableZoom)
	}
}

func (c *Controls) unsupported(feature string, flag *bool) {
	err := fmt.Errorf("%w: %s on %s camera, %s disabled", ErrUnsupportedProjection, feature, c.Camera.Projection, feature)
	c.log.Warnf("%v", err)
	*flag = false
	c.emit(Event{Type: EventWarning, Err: err})
}

func (c *Controls) PointerDown(e PointerEvent) {
	if !c.Enabled || c.disposed {
		return
	}
	c.addPointer(e)
	if e.Type == PointerTouch {
		c.touchStart(e)
	} else {
		c.mouseDown(e)
	}
}

func (c *Controls) PointerMove(e PointerEvent) {
	if !c.Enabled || c.disposed || len(c.pointers) == 0 {
		return
	}
	if e.Type == PointerTouch {
		c.touchMove(e)
	} else {
		c.mouseMove(e)
	}
}

// PointerUp always ends the interaction, whatever the pointer count.
func (c *Controls) PointerUp(e PointerEvent) {
	if c.disposed || len(c.pointers) == 0 {
		return
	}
	c.removePointer(e)
	c.emit(Event{Type: EventEnd})
	c.state = StateNone
}

func (c *Controls) PointerCancel(e PointerEvent) {
	c.PointerUp(e)
}

func (c *Controls) Wheel(e WheelEvent) {
	if !c.Enabled || c.disposed || !c.EnableZoom || c.state != StateNone {
		return
	}
	c.emit(Event{Type: EventStart})
	switch {
	case e.DeltaY < 0:
		c.dollyIn(c.zoomScale())
	case e.DeltaY > 0:
		c.dollyOut(c.zoomScale())
	}
	c.Update()
	c.emit(Event{Type: EventEnd})
}

func (c *Controls) KeyDown(e KeyEvent) {
	if !c.Enabled || c.disposed || !c.EnablePan {
		return
	}
	step := 2 * math.Pi * c.RotateSpeed / c.clientHeight
	handled := true
	switch e.Code {
	case c.Keys.Up:
		if e.modified() {
			c.rotateUp(step)
		} else {
			c.pan(0, c.KeyPanSpeed)
		}
	case c.Keys.Bottom:
		if e.modified() {
			c.rotateUp(-step)
		} else {
			c.pan(0, -c.KeyPanSpeed)
		}
	case c.Keys.Left:
		if e.modified() {
			c.rotateLeft(step)
		} else {
			c.pan(c.KeyPanSpeed, 0)
		}
	case c.Keys.Right:
		if e.modified() {
			c.rotateLeft(-step)
		} else {
			c.pan(-c.KeyPanSpeed, 0)
		}
	default:
		handled = false
	}
	if handled {
		c.Update()
	}
}

func (c *Controls) mouseDown(e PointerEvent) {
	var action Action
	switch e.Button {
	case ButtonLeft:
		action = c.MouseButtons.Left
	case ButtonMiddle:
		action = c.MouseButtons.Middle
	case ButtonRight:
		action = c.MouseButtons.Right
	}

	pos := mgl64.Vec2{e.X, e.Y}
	switch action {
	case ActionDolly:
		if !c.EnableZoom {
			return
		}
		c.dollyStart = pos
		c.state = StateDolly
	case ActionRotate:
		if e.modified() {
			if !c.EnablePan {
				return
			}
			c.panStart = pos
			c.state = StatePan
		} else {
			if !c.EnableRotate {
				return
			}
			c.rotateStart = pos
			c.state = StateRotate
		}
	case ActionPan:
		if e.modified() {
			if !c.EnableRotate {
				return
			}
			c.rotateStart = pos
			c.state = StateRotate
		} else {
			if !c.EnablePan {
				return
			}
			c.panStart = pos
			c.state = StatePan
		}
	default:
		c.state = StateNone
	}
	if c.state != StateNone {
		c.emit(Event{Type: EventStart})
	}
}

func (c *Controls) mouseMove(e PointerEvent) {
	pos := mgl64.Vec2{e.X, e.Y}
	switch c.state {
	case StateRotate:
		if !c.EnableRotate {
			return
		}
		c.rotateEnd = pos
		c.applyRotate()
		c.Update()
	case StateDolly:
		if !c.EnableZoom {
			return
		}
		c.dollyEnd = pos
		dy := c.dollyEnd[1] - c.dollyStart[1]
		if dy > 0 {
			c.dollyOut(c.zoomScale())
		} else if dy < 0 {
			c.dollyIn(c.zoomScale())
		}
		c.dollyStart = c.dollyEnd
		c.Update()
	case StatePan:
		if !c.EnablePan {
			return
		}
		c.panEnd = pos
		c.applyPan()
		c.Update()
	}
}

func (c *Controls) applyRotate() {
	d := c.rotateEnd.Sub(c.rotateStart).Mul(c.RotateSpeed)
	c.rotateLeft(2 * math.Pi * d[0] / c.clientHeight)
	c.rotateUp(2 * math.Pi * d[1] / c.clientHeight)
	c.rotateStart = c.rotateEnd
}

func (c *Controls) applyPan() {
	d := c.panEnd.Sub(c.panStart).Mul(c.PanSpeed)
	c.pan(d[0], d[1])
	c.panStart = c.panEnd
}

func (c *Controls) touchStart(e PointerEvent) {
	c.trackPointer(e)

	switch len(c.pointers) {
	case 1:
		switch c.Touches.One {
		case ActionRotate:
			if !c.EnableRotate {
				return
			}
			c.rotateStart = c.anchor()
			c.state = StateTouchRotate
		case ActionPan:
			if !c.EnablePan {
				return
			}
			c.panStart = c.anchor()
			c.state = StateTouchPan
		default:
			c.state = StateNone
		}
	case 2:
		switch c.Touches.Two {
		case ActionDollyPan:
			if !c.EnableZoom && !c.EnablePan {
				return
			}
			if c.EnableZoom {
				c.dollyStart = mgl64.Vec2{0, c.pinchDistance(e)}
			}
			if c.EnablePan {
				c.panStart = c.anchor()
			}
			c.state = StateTouchDollyPan
		case ActionDollyRotate:
			if !c.EnableZoom && !c.EnableRotate {
				return
			}
			if c.EnableZoom {
				c.dollyStart = mgl64.Vec2{0, c.pinchDistance(e)}
			}
			if c.EnableRotate {
				c.rotateStart = c.anchor()
			}
			c.state = StateTouchDollyRotate
		default:
			c.state = StateNone
		}
	default:
		c.state = StateNone
	}
	if c.state != StateNone {
		c.emit(Event{Type: EventStart})
	}
}

func (c *Controls) touchMove(e PointerEvent) {
	c.trackPointer(e)

	switch c.state {
	case StateTouchRotate:
		if !c.EnableRotate {
			return
		}
		c.rotateEnd = c.anchorFor(e)
		c.applyRotate()
	case StateTouchPan:
		if !c.EnablePan {
			return
		}
		c.panEnd = c.anchorFor(e)
		c.applyPan()
	case StateTouchDollyPan:
		if !c.EnableZoom && !c.EnablePan {
			return
		}
		if c.EnableZoom {
			c.touchDolly(e)
		}
		if c.EnablePan {
			c.panEnd = c.anchorFor(e)
			c.applyPan()
		}
	case StateTouchDollyRotate:
		if !c.EnableZoom && !c.EnableRotate {
			return
		}
		if c.EnableZoom {
			c.touchDolly(e)
		}
		if c.EnableRotate {
			c.rotateEnd = c.anchorFor(e)
			c.applyRotate()
		}
	default:
		c.state = StateNone
		return
	}
	c.Update()
}

func (c *Controls) touchDolly(e PointerEvent) {
	c.dollyEnd = mgl64.Vec2{0, c.pinchDistance(e)}
	if c.dollyStart[1] != 0 {
		c.dollyOut(math.Pow(c.dollyEnd[1]/c.dollyStart[1], c.ZoomSpeed))
	}
	c.dollyStart = c.dollyEnd
}

// anchor is the single pointer's position, or the midpoint of the first
// two tracked pointers.
func (c *Controls) anchor() mgl64.Vec2 {
	if len(c.pointers) == 1 {
		return c.positions[c.pointers[0]]
	}
	a, b := c.positions[c.pointers[0]], c.positions[c.pointers[1]]
	return a.Add(b).Mul(0.5)
}

func (c *Controls) anchorFor(e PointerEvent) mgl64.Vec2 {
	p := mgl64.Vec2{e.X, e.Y}
	if len(c.pointers) == 1 {
		return p
	}
	return p.Add(c.secondPointer(e)).Mul(0.5)
}

func (c *Controls) pinchDistance(e PointerEvent) float64 {
	return mgl64.Vec2{e.X, e.Y}.Sub(c.secondPointer(e)).Len()
}

// secondPointer is the tracked position of the other pointer of a pair.
func (c *Controls) secondPointer(e PointerEvent) mgl64.Vec2 {
	if len(c.pointers) < 2 {
		return mgl64.Vec2{e.X, e.Y}
	}
	id := c.pointers[0]
	if e.PointerID == id {
		id = c.pointers[1]
	}
	return c.positions[id]
}

func (c *Controls) addPointer(e PointerEvent) {
	for _, id := range c.pointers {
		if id == e.PointerID {
			return
		}
	}
	c.pointers = append(c.pointers, e.PointerID)
}

func (c *Controls) removePointer(e PointerEvent) {
	delete(c.positions, e.PointerID)
	for i, id := range c.pointers {
		if id == e.PointerID {
			c.pointers = append(c.pointers[:i], c.pointers[i+1:]...)
			return
		}
	}
}

func (c *Controls) trackPointer(e PointerEvent) {
	c.positions[e.PointerID] = mgl64.Vec2{e.X, e.Y}
}
