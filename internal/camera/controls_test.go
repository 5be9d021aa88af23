package camera

import (
	"bytes"
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/molview/internal/logging"
)

func deg(d float64) float64 { return d * math.Pi / 180 }

func perspectiveAt(pos mgl64.Vec3) *Camera {
	cam := NewPerspective(50, 1, 0.1, 1000)
	cam.Position = pos
	return cam
}

type recorder struct{ events []Event }

func (r *recorder) on(e Event) { r.events = append(r.events, e) }

func (r *recorder) types() []EventType {
	var out []EventType
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func (r *recorder) count(t EventType) int {
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

var _ = Describe("Controls", func() {
	var (
		cam *Camera
		c   *Controls
		rec *recorder
	)

	BeforeEach(func() {
		cam = perspectiveAt(mgl64.Vec3{0, 0, 10})
		c = NewControls(cam, nil)
		c.SetViewport(100, 100)
		rec = &recorder{}
		c.On(rec.on)
	})

	Describe("azimuth limits", func() {
		place := func(azimuth float64) {
			cam.Position = mgl64.Vec3{10 * math.Sin(azimuth), 0, 10 * math.Cos(azimuth)}
		}

		BeforeEach(func() {
			c.MinAzimuthAngle = deg(170)
			c.MaxAzimuthAngle = deg(-170)
		})

		It("snaps to the upper bound above the arc midpoint", func() {
			place(deg(5))
			c.Update()
			Expect(c.AzimuthalAngle()).To(BeNumerically("~", deg(170), 1e-9))
			Expect(cam.Position[2]).To(BeNumerically("<", 0))
		})

		It("snaps to the lower bound below the arc midpoint", func() {
			place(deg(-5))
			c.Update()
			Expect(c.AzimuthalAngle()).To(BeNumerically("~", deg(-170), 1e-9))
		})

		It("leaves angles inside the wrapped arc alone", func() {
			place(deg(175))
			c.Update()
			Expect(c.AzimuthalAngle()).To(BeNumerically("~", deg(175), 1e-9))
		})

		It("normalizes bounds before comparing them", func() {
			Expect(clampAzimuth(0.2, deg(-30)+2*math.Pi, deg(30))).To(BeNumerically("~", 0.2, 1e-12))
			Expect(clampAzimuth(1.0, deg(-30)+2*math.Pi, deg(30))).To(BeNumerically("~", deg(30), 1e-12))
			Expect(clampAzimuth(3.0, math.Inf(-1), math.Inf(1))).To(Equal(3.0))
		})
	})

	Describe("polar limits", func() {
		It("never reaches the pole", func() {
			cam.Position = mgl64.Vec3{0, 10, 0}
			c.Update()
			Expect(c.PolarAngle()).To(BeNumerically(">", 0))
			Expect(c.PolarAngle()).To(BeNumerically("~", 1e-6, 1e-12))
		})

		It("clamps to the configured range", func() {
			c.MinPolarAngle = deg(60)
			c.MaxPolarAngle = deg(80)
			c.Update()
			Expect(c.PolarAngle()).To(BeNumerically("~", deg(80), 1e-9))
		})
	})

	Describe("damping", func() {
		It("is idempotent with nothing pending", func() {
			c.EnableDamping = true
			c.Update()
			pos, target := cam.Position, c.Target
			for i := 0; i < 10; i++ {
				Expect(c.Update()).To(BeFalse())
			}
			Expect(vecClose(cam.Position, pos)).To(BeTrue())
			Expect(vecClose(c.Target, target)).To(BeTrue())
		})

		It("spreads a drag over later frames and converges to it", func() {
			c.EnableDamping = true
			c.PointerDown(PointerEvent{PointerID: 1, Button: ButtonLeft, X: 50, Y: 50})
			c.PointerMove(PointerEvent{PointerID: 1, X: 60, Y: 50})
			c.PointerUp(PointerEvent{PointerID: 1})

			after := c.AzimuthalAngle()
			Expect(after).To(BeNumerically("~", -0.2*math.Pi*0.05, 1e-9))
			Expect(c.Update()).To(BeTrue())
			for i := 0; i < 600; i++ {
				c.Update()
			}
			Expect(c.AzimuthalAngle()).To(BeNumerically("~", -0.2*math.Pi, 1e-6))
			Expect(c.Update()).To(BeFalse())
		})
	})

	Describe("mouse", func() {
		It("rotates with the left button", func() {
			c.PointerDown(PointerEvent{PointerID: 1, Button: ButtonLeft, X: 50, Y: 50})
			Expect(c.State()).To(Equal(StateRotate))
			c.PointerMove(PointerEvent{PointerID: 1, X: 60, Y: 50})
			Expect(c.AzimuthalAngle()).To(BeNumerically("~", -0.2*math.Pi, 1e-9))
			Expect(c.Distance()).To(BeNumerically("~", 10, 1e-9))

			c.PointerUp(PointerEvent{PointerID: 1})
			Expect(c.State()).To(Equal(StateNone))
			Expect(rec.count(EventStart)).To(Equal(1))
			Expect(rec.count(EventEnd)).To(Equal(1))
			Expect(rec.count(EventChange)).To(BeNumerically(">=", 1))
		})

		DescribeTable("maps buttons and modifiers to states",
			func(e PointerEvent, want State) {
				c.PointerDown(e)
				Expect(c.State()).To(Equal(want))
				c.PointerUp(e)
				Expect(c.State()).To(Equal(StateNone))
			},
			Entry("left", PointerEvent{Button: ButtonLeft}, StateRotate),
			Entry("shift left", PointerEvent{Button: ButtonLeft, Shift: true}, StatePan),
			Entry("middle", PointerEvent{Button: ButtonMiddle}, StateDolly),
			Entry("right", PointerEvent{Button: ButtonRight}, StatePan),
			Entry("ctrl right", PointerEvent{Button: ButtonRight, Ctrl: true}, StateRotate),
			Entry("meta left", PointerEvent{Button: ButtonLeft, Meta: true}, StatePan),
			Entry("unknown button", PointerEvent{Button: 4}, StateNone),
		)

		It("does not start a disabled action", func() {
			c.EnableRotate = false
			c.PointerDown(PointerEvent{Button: ButtonLeft})
			Expect(c.State()).To(Equal(StateNone))
			Expect(rec.count(EventStart)).To(Equal(0))
			c.PointerUp(PointerEvent{})
			Expect(rec.count(EventEnd)).To(Equal(1))
		})

		It("ignores input while disabled", func() {
			c.Enabled = false
			c.PointerDown(PointerEvent{Button: ButtonLeft})
			c.PointerUp(PointerEvent{})
			Expect(rec.events).To(BeEmpty())
		})

		It("dollies on vertical middle-button drags", func() {
			c.PointerDown(PointerEvent{Button: ButtonMiddle, X: 10, Y: 10})
			c.PointerMove(PointerEvent{X: 10, Y: 5})
			Expect(c.Distance()).To(BeNumerically("~", 9.5, 1e-9))
			c.PointerMove(PointerEvent{X: 10, Y: 20})
			Expect(c.Distance()).To(BeNumerically("~", 10, 1e-9))
		})

		It("pans an orthographic camera by frustum per pixel", func() {
			ortho := NewOrthographic(-10, 10, 10, -10, 0.1, 100)
			ortho.Position = mgl64.Vec3{0, 0, 10}
			ortho.Zoom = 2
			oc := NewControls(ortho, nil)
			oc.SetViewport(200, 100)

			oc.PointerDown(PointerEvent{Button: ButtonRight})
			oc.PointerMove(PointerEvent{X: 20})
			Expect(oc.Target[0]).To(BeNumerically("~", -1, 1e-9))

			oc.PointerMove(PointerEvent{X: 20, Y: 10})
			Expect(oc.Target[1]).To(BeNumerically("~", 1, 1e-9))
		})
	})

	Describe("wheel", func() {
		It("dollies a perspective camera in and out", func() {
			c.Wheel(WheelEvent{DeltaY: -100})
			Expect(c.Distance()).To(BeNumerically("~", 9.5, 1e-9))
			c.Wheel(WheelEvent{DeltaY: 100})
			Expect(c.Distance()).To(BeNumerically("~", 10, 1e-9))
			Expect(rec.types()).To(ContainElements(EventStart, EventEnd))
		})

		It("respects the distance bounds", func() {
			c.MinDistance = 9
			for i := 0; i < 20; i++ {
				c.Wheel(WheelEvent{DeltaY: -1})
			}
			Expect(c.Distance()).To(BeNumerically("~", 9, 1e-9))
		})

		It("is ignored during a drag", func() {
			c.PointerDown(PointerEvent{Button: ButtonLeft})
			c.Wheel(WheelEvent{DeltaY: -1})
			Expect(c.Distance()).To(BeNumerically("~", 10, 1e-9))
		})

		It("keeps orthographic zoom inside its bounds", func() {
			ortho := NewOrthographic(-10, 10, 10, -10, 0.1, 100)
			ortho.Position = mgl64.Vec3{0, 0, 10}
			oc := NewControls(ortho, nil)
			oc.MinZoom, oc.MaxZoom = 0.5, 2

			for i := 0; i < 100; i++ {
				oc.Wheel(WheelEvent{DeltaY: 1})
				Expect(ortho.Zoom).To(And(BeNumerically(">=", 0.5), BeNumerically("<=", 2)))
			}
			Expect(ortho.Zoom).To(Equal(0.5))
			for i := 0; i < 100; i++ {
				oc.Wheel(WheelEvent{DeltaY: -1})
				Expect(ortho.Zoom).To(And(BeNumerically(">=", 0.5), BeNumerically("<=", 2)))
			}
			Expect(ortho.Zoom).To(Equal(2.0))
			// orthographic zoom never moves the eye
			Expect(oc.Distance()).To(BeNumerically("~", 10, 1e-9))
		})
	})

	Describe("keys", func() {
		step := 2 * 7 * 10 * math.Tan(deg(25)) / 100

		It("pans with the arrows", func() {
			c.KeyDown(KeyEvent{Code: "ArrowUp"})
			Expect(c.Target[1]).To(BeNumerically("~", step, 1e-9))
			c.KeyDown(KeyEvent{Code: "ArrowDown"})
			Expect(c.Target[1]).To(BeNumerically("~", 0, 1e-9))
			c.KeyDown(KeyEvent{Code: "ArrowLeft"})
			Expect(c.Target[0]).To(BeNumerically("~", -step, 1e-9))
			c.KeyDown(KeyEvent{Code: "ArrowRight"})
			Expect(c.Target[0]).To(BeNumerically("~", 0, 1e-9))
		})

		It("rotates with a modifier held", func() {
			c.KeyDown(KeyEvent{Code: "ArrowUp", Shift: true})
			Expect(c.PolarAngle()).To(BeNumerically("~", math.Pi/2-2*math.Pi/100, 1e-9))
			Expect(vecClose(c.Target, mgl64.Vec3{})).To(BeTrue())

			c.KeyDown(KeyEvent{Code: "ArrowLeft", Ctrl: true})
			Expect(c.AzimuthalAngle()).To(BeNumerically("~", -2*math.Pi/100, 1e-9))
		})

		It("ignores unbound keys and honours rebinding", func() {
			c.KeyDown(KeyEvent{Code: "KeyW"})
			Expect(rec.events).To(BeEmpty())

			c.Keys.Up = "KeyW"
			c.KeyDown(KeyEvent{Code: "KeyW"})
			Expect(c.Target[1]).To(BeNumerically("~", step, 1e-9))
		})
	})

	Describe("touch", func() {
		touch := func(id int, x, y float64) PointerEvent {
			return PointerEvent{PointerID: id, Type: PointerTouch, X: x, Y: y}
		}

		It("switches gesture with the pointer count", func() {
			c.PointerDown(touch(1, 0, 0))
			Expect(c.State()).To(Equal(StateTouchRotate))
			c.PointerDown(touch(2, 10, 0))
			Expect(c.State()).To(Equal(StateTouchDollyPan))
			c.PointerUp(touch(2, 10, 0))
			Expect(c.State()).To(Equal(StateNone))
			Expect(c.positions).To(HaveLen(1))
		})

		It("pinches to dolly by the distance ratio", func() {
			c.PointerDown(touch(1, 0, 0))
			c.PointerDown(touch(2, 10, 0))
			c.PointerMove(touch(2, 20, 0))
			Expect(c.Distance()).To(BeNumerically("~", 5, 1e-9))
		})

		It("uses the rotate binding for two fingers when configured", func() {
			c.Touches.Two = ActionDollyRotate
			c.PointerDown(touch(1, 0, 0))
			c.PointerDown(touch(2, 10, 0))
			Expect(c.State()).To(Equal(StateTouchDollyRotate))
			// finger 1 hops over finger 2: midpoint moves 10, spread unchanged
			c.PointerMove(touch(1, 20, 0))
			Expect(c.AzimuthalAngle()).To(BeNumerically("~", -2*math.Pi*10/100, 1e-9))
			Expect(c.Distance()).To(BeNumerically("~", 10, 1e-9))
		})

		It("pans with one finger when bound to pan", func() {
			c.Touches.One = ActionPan
			c.PointerDown(touch(1, 0, 0))
			Expect(c.State()).To(Equal(StateTouchPan))
			c.PointerMove(touch(1, 0, 10))
			Expect(c.Target[1]).To(BeNumerically(">", 0))
		})
	})

	Describe("unsupported projection", func() {
		It("disables zoom and pan with a warning", func() {
			var buf bytes.Buffer
			odd := perspectiveAt(mgl64.Vec3{0, 0, 10})
			odd.Projection = Projection(42)
			oc := NewControls(odd, logging.NewWithWriters("camera", false, &buf, &buf))
			r := &recorder{}
			oc.On(r.on)

			oc.Wheel(WheelEvent{DeltaY: 1})
			Expect(oc.EnableZoom).To(BeFalse())
			Expect(r.count(EventWarning)).To(Equal(1))
			Expect(errors.Is(r.events[1].Err, ErrUnsupportedProjection)).To(BeTrue())
			Expect(buf.String()).To(ContainSubstring("WARN"))

			oc.KeyDown(KeyEvent{Code: "ArrowUp"})
			Expect(oc.EnablePan).To(BeFalse())
			Expect(r.count(EventWarning)).To(Equal(2))

			// rotation still works
			oc.SetViewport(100, 100)
			oc.PointerDown(PointerEvent{Button: ButtonLeft})
			oc.PointerMove(PointerEvent{X: 10})
			Expect(oc.AzimuthalAngle()).To(BeNumerically("~", -0.2*math.Pi, 1e-9))
		})
	})

	Describe("auto rotate", func() {
		It("turns by a fixed angle per idle frame", func() {
			c.AutoRotate = true
			c.Update()
			Expect(c.AzimuthalAngle()).To(BeNumerically("~", -2*math.Pi/3600*2, 1e-12))
		})

		It("pauses during interaction", func() {
			c.AutoRotate = true
			c.PointerDown(PointerEvent{Button: ButtonLeft})
			c.Update()
			Expect(c.AzimuthalAngle()).To(BeNumerically("~", 0, 1e-12))
		})
	})

	Describe("saved state", func() {
		It("resets to the last saved pose", func() {
			c.KeyDown(KeyEvent{Code: "ArrowUp"})
			c.SaveState()
			saved, savedPos := c.Target, cam.Position

			c.KeyDown(KeyEvent{Code: "ArrowLeft"})
			c.Wheel(WheelEvent{DeltaY: -1})
			Expect(vecClose(c.Target, saved)).To(BeFalse())

			c.Reset()
			Expect(vecClose(c.Target, saved)).To(BeTrue())
			Expect(vecClose(cam.Position, savedPos)).To(BeTrue())
			Expect(c.State()).To(Equal(StateNone))
		})
	})

	Describe("lifecycle", func() {
		It("detaches from its sources on dispose", func() {
			hub := NewHub()
			c.Listen(hub)
			Expect(hub.Len()).To(Equal(1))

			hub.PointerDown(PointerEvent{Button: ButtonLeft})
			Expect(c.State()).To(Equal(StateRotate))
			hub.PointerUp(PointerEvent{})

			c.Dispose()
			Expect(hub.Len()).To(BeZero())
			c.PointerDown(PointerEvent{Button: ButtonLeft})
			Expect(c.State()).To(Equal(StateNone))
			c.Listen(hub)
			Expect(hub.Len()).To(BeZero())
		})

		It("unregisters listeners", func() {
			r := &recorder{}
			off := c.On(r.on)
			c.Wheel(WheelEvent{DeltaY: 1})
			n := len(r.events)
			off()
			c.Wheel(WheelEvent{DeltaY: 1})
			Expect(r.events).To(HaveLen(n))
		})
	})
})
