// Package viewer ties the camera, scene, density overlay and focus
// animation together behind a per-frame tick.
package viewer

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/molview/internal/camera"
	"github.com/san-kum/molview/internal/config"
	"github.com/san-kum/molview/internal/density"
	"github.com/san-kum/molview/internal/logging"
	"github.com/san-kum/molview/internal/molecule"
	"github.com/san-kum/molview/internal/parse"
	"github.com/san-kum/molview/internal/scene"
)

// framePadding leaves a margin around the scene when framing it.
const framePadding = 1.15

type Options struct {
	Config *config.Config
	// Viewport size in pixels; defaults to 800x600.
	Width, Height float64
	Logger        logging.Logger
}

// Viewer is one mounted molecule view. All methods except Accept's
// liveness check expect to be called from a single event loop.
type Viewer struct {
	Camera   *camera.Camera
	Controls *camera.Controls
	Scene    *scene.Scene
	Density  *density.Overlay
	Focus    *scene.Focus
	Input    *camera.Hub

	cfg    *config.Config
	log    logging.Logger
	width  float64
	height float64
	closed atomic.Bool
	errs   []error
}

// FrameResult is what one tick produced for the renderer.
type FrameResult struct {
	Scene    scene.Frame
	Labels   []scene.ScreenLabel
	Density  []density.Point
	Changed  bool
	Focusing bool
}

func New(opts Options) (*Viewer, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w, h := opts.Width, opts.Height
	if w <= 0 || h <= 0 {
		w, h = 800, 600
	}
	log := logging.OrNop(opts.Logger)

	cam, err := cfg.NewCamera(w / h)
	if err != nil {
		return nil, err
	}
	ctl := camera.NewControls(cam, log)
	if err := cfg.Apply(ctl); err != nil {
		return nil, err
	}
	ctl.SetViewport(w, h)

	v := &Viewer{
		Camera:   cam,
		Controls: ctl,
		Scene:    scene.New(),
		Density:  density.NewOverlay(log),
		Focus:    scene.NewFocus(),
		Input:    camera.NewHub(),
		cfg:      cfg,
		log:      log,
		width:    w,
		height:   h,
	}
	v.Density.SetThresholds(cfg.Thresholds())
	v.Density.SetVisible(cfg.Density.Visible)
	ctl.Listen(v.Input)
	ctl.On(func(e camera.Event) {
		if e.Type == camera.EventWarning {
			v.errs = append(v.errs, e.Err)
		}
	})
	return v, nil
}

func (v *Viewer) Config() *config.Config { return v.cfg }

func (v *Viewer) Viewport() (width, height float64) { return v.width, v.height }

// SetViewport resizes the drawing surface.
func (v *Viewer) SetViewport(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	v.width, v.height = width, height
	aspect := width / height
	v.Camera.Aspect = aspect
	if v.Camera.Projection == camera.Orthographic {
		half := (v.Camera.Top - v.Camera.Bottom) / 2
		v.Camera.Left, v.Camera.Right = -half*aspect, half*aspect
	}
	v.Controls.SetViewport(width, height)
}

// SurfaceReady is called once the drawing surface exists. The density
// cloud is built from then on.
func (v *Viewer) SurfaceReady() {
	v.Density.MarkReady()
}

// Frame advances the camera by one tick (or one focus step) and returns
// the primitives and projected labels to draw. The density cloud is not
// rebuilt here.
func (v *Viewer) Frame(now time.Time) FrameResult {
	var r FrameResult
	if v.Focus.Running() {
		r.Focusing = v.Focus.Step(now, v.Controls)
		r.Changed = true
	} else {
		r.Changed = v.Controls.Update()
	}
	r.Scene = v.Scene.Frame()
	r.Labels = scene.ProjectLabels(r.Scene, v.Camera, v.width, v.height)
	r.Density = v.Density.Points()
	return r
}

// LoadOptions are the parse options matching this viewer's layout.
func (v *Viewer) LoadOptions() parse.LoadOptions {
	return parse.LoadOptions{OffsetStep: v.cfg.Layout.OffsetStep}
}

// Load parses paths and returns the batch for Accept. It blocks and may
// be run off the event loop.
func (v *Viewer) Load(ctx context.Context, paths []string) parse.Batch {
	return parse.LoadFiles(ctx, paths, v.LoadOptions())
}

// Accept adds a loaded batch. Files that failed are logged and kept in
// Errors; they never affect the molecules already shown. After Close it
// does nothing and returns false.
func (v *Viewer) Accept(b parse.Batch) bool {
	if v.closed.Load() {
		return false
	}
	wasEmpty := v.Scene.Len() == 0
	added := 0
	for _, f := range b.Files {
		if f.Err != nil {
			v.log.Warnf("load %s: %v", f.Path, f.Err)
			v.errs = append(v.errs, f.Err)
		}
		for _, m := range f.Molecules {
			if v.cfg.View.Labels {
				m.LabelsVisible = true
			}
			v.Scene.Add(m)
			added++
		}
		if f.Grid != nil {
			v.Density.SetGrid(f.Grid)
		}
	}
	v.log.Infof("accepted %d molecules from %d files", added, len(b.Files))
	if wasEmpty && added > 0 {
		v.FrameAll()
	}
	return true
}

// AddMolecules shows already built molecules, such as the demo set.
func (v *Viewer) AddMolecules(ms ...*molecule.Molecule) {
	if v.closed.Load() {
		return
	}
	wasEmpty := v.Scene.Len() == 0
	for _, m := range ms {
		v.Scene.Add(m)
	}
	if wasEmpty && len(ms) > 0 {
		v.FrameAll()
	}
}

// Errors returns load failures and camera warnings seen so far.
func (v *Viewer) Errors() []error { return v.errs }

// PickAt selects the nearest atom under ndc and starts flying to it. A
// miss changes nothing.
func (v *Viewer) PickAt(ndc mgl64.Vec2, now time.Time) (scene.Hit, bool) {
	hit, ok := scene.Pick(v.Scene.Frame(), v.Camera, ndc)
	if !ok {
		return scene.Hit{}, false
	}
	if err := v.Scene.Select(hit.Molecule, hit.Index); err != nil {
		return scene.Hit{}, false
	}
	pos, _ := v.Scene.AtomPosition(hit.Molecule, hit.Index)
	v.Focus.Start(now, v.Controls, pos)
	v.log.Debugf("picked molecule %d atom %d at %.3f", hit.Molecule, hit.Index, hit.Distance)
	return hit, true
}

// FrameAll points the camera at the centre of every visible atom and
// backs off until they fit, keeping the current view direction. The
// framed pose becomes the Reset pose.
func (v *Viewer) FrameAll() bool {
	lo, hi, ok := v.Scene.Bounds()
	if !ok {
		return false
	}
	v.Focus.Cancel()
	center := lo.Add(hi).Mul(0.5)
	radius := math.Max(hi.Sub(lo).Len()/2, 1e-3) * framePadding

	dir := v.Camera.Position.Sub(v.Controls.Target)
	if dir.LenSqr() == 0 {
		dir = mgl64.Vec3{0, 0, 1}
	}
	dir = dir.Normalize()

	cam := v.Camera
	var dist float64
	switch cam.Projection {
	case camera.Orthographic:
		dist = math.Max(radius*2, cam.Near*2)
		ctl := v.Controls
		cam.Zoom = math.Max(ctl.MinZoom, math.Min(ctl.MaxZoom, (cam.Top-cam.Bottom)/2/radius))
	default:
		half := mgl64.DegToRad(cam.Fov / 2)
		if cam.Aspect > 0 && cam.Aspect < 1 {
			half = math.Atan(math.Tan(half) * cam.Aspect)
		}
		dist = radius / math.Sin(half)
	}

	v.Controls.Target = center
	cam.Position = center.Add(dir.Mul(dist))
	v.Controls.Update()
	v.Controls.SaveState()
	return true
}

// Close unmounts the viewer. Input is detached and late loads are dropped.
func (v *Viewer) Close() {
	if v.closed.Swap(true) {
		return
	}
	v.Focus.Cancel()
	v.Controls.Dispose()
}

func (v *Viewer) Closed() bool { return v.closed.Load() }
