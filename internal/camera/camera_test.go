package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func vecClose(a, b mgl64.Vec3) bool { return a.ApproxEqualThreshold(b, 1e-9) }

var _ = Describe("Camera", func() {
	It("looks down -z from +z with an identity orientation", func() {
		cam := NewPerspective(50, 1, 0.1, 100)
		cam.Position = mgl64.Vec3{0, 0, 10}
		cam.LookAt(mgl64.Vec3{})
		Expect(vecClose(cam.Axis(0), mgl64.Vec3{1, 0, 0})).To(BeTrue())
		Expect(vecClose(cam.Axis(2), mgl64.Vec3{0, 0, 1})).To(BeTrue())
	})

	It("keeps the up axis when looking from the side", func() {
		cam := NewPerspective(50, 1, 0.1, 100)
		cam.Position = mgl64.Vec3{10, 0, 0}
		cam.LookAt(mgl64.Vec3{})
		Expect(vecClose(cam.Axis(0), mgl64.Vec3{0, 0, -1})).To(BeTrue())
		Expect(vecClose(cam.Axis(1), mgl64.Vec3{0, 1, 0})).To(BeTrue())
	})

	It("survives looking straight along the up axis", func() {
		cam := NewPerspective(50, 1, 0.1, 100)
		cam.Position = mgl64.Vec3{0, 10, 0}
		cam.LookAt(mgl64.Vec3{})
		q := cam.Orientation
		Expect(math.IsNaN(q.W)).To(BeFalse())
		Expect(q.Len()).To(BeNumerically("~", 1, 1e-9))
	})

	It("casts a central ray at the target and projects it back to the centre", func() {
		cam := NewPerspective(50, 1.5, 0.1, 100)
		cam.Position = mgl64.Vec3{0, 0, 10}
		cam.LookAt(mgl64.Vec3{})

		r := cam.Ray(mgl64.Vec2{0, 0})
		Expect(vecClose(r.Origin, cam.Position)).To(BeTrue())
		Expect(r.Direction.ApproxEqualThreshold(mgl64.Vec3{0, 0, -1}, 1e-9)).To(BeTrue())

		ndc, ok := cam.Project(mgl64.Vec3{})
		Expect(ok).To(BeTrue())
		Expect(ndc[0]).To(BeNumerically("~", 0, 1e-9))
		Expect(ndc[1]).To(BeNumerically("~", 0, 1e-9))

		_, ok = cam.Project(mgl64.Vec3{0, 0, 20})
		Expect(ok).To(BeFalse())
	})

	It("scales the orthographic frustum by zoom", func() {
		cam := NewOrthographic(-10, 10, 10, -10, 0.1, 100)
		cam.Position = mgl64.Vec3{0, 0, 10}
		cam.LookAt(mgl64.Vec3{})

		r := cam.Ray(mgl64.Vec2{0.5, 0})
		Expect(r.Origin[0]).To(BeNumerically("~", 5, 1e-9))
		Expect(r.Direction.ApproxEqualThreshold(mgl64.Vec3{0, 0, -1}, 1e-9)).To(BeTrue())

		cam.Zoom = 2
		r = cam.Ray(mgl64.Vec2{0.5, 0})
		Expect(r.Origin[0]).To(BeNumerically("~", 2.5, 1e-9))
	})

	It("converts between screen and device coordinates", func() {
		x, y := ToScreen(mgl64.Vec3{-1, 1, 0}, 200, 100)
		Expect(x).To(BeNumerically("~", 0))
		Expect(y).To(BeNumerically("~", 0))
		ndc := ToNDC(150, 75, 200, 100)
		Expect(ndc[0]).To(BeNumerically("~", 0.5))
		Expect(ndc[1]).To(BeNumerically("~", -0.5))
	})
})
