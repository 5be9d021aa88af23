package density

import (
	"github.com/san-kum/molview/internal/logging"
	"github.com/san-kum/molview/internal/molecule"
)

// Overlay is the density cloud owned by one viewer. Points are rebuilt
// only when the grid or thresholds change, and only once the drawing
// surface has reported ready.
type Overlay struct {
	grid       *molecule.Grid
	thresholds Thresholds
	visible    bool
	ready      bool
	dirty      bool
	points     []Point
	log        logging.Logger
}

func NewOverlay(log logging.Logger) *Overlay {
	return &Overlay{
		thresholds: DefaultThresholds(),
		visible:    true,
		log:        logging.OrNop(log),
	}
}

// SetGrid replaces the grid. A nil grid clears the cloud.
func (o *Overlay) SetGrid(g *molecule.Grid) {
	o.grid = g
	o.dirty = true
	o.rebuild()
}

func (o *Overlay) Grid() *molecule.Grid { return o.grid }

func (o *Overlay) Thresholds() Thresholds { return o.thresholds }

// SetThresholds triggers a full rebuild. Negative inputs are taken as magnitudes.
func (o *Overlay) SetThresholds(th Thresholds) {
	if th.Positive < 0 {
		th.Positive = -th.Positive
	}
	if th.Negative < 0 {
		th.Negative = -th.Negative
	}
	o.thresholds = th
	o.dirty = true
	o.rebuild()
}

func (o *Overlay) Visible() bool { return o.visible }

func (o *Overlay) SetVisible(v bool) { o.visible = v }

func (o *Overlay) Toggle() bool {
	o.visible = !o.visible
	return o.visible
}

// MarkReady is called by the owner of the drawing surface. A grid set
// before this point is built now.
func (o *Overlay) MarkReady() {
	if o.ready {
		return
	}
	o.ready = true
	o.rebuild()
}

func (o *Overlay) Ready() bool { return o.ready }

// Points returns the current cloud, or nil while hidden or not ready.
func (o *Overlay) Points() []Point {
	if !o.visible || !o.ready {
		return nil
	}
	return o.points
}

func (o *Overlay) rebuild() {
	if !o.ready || !o.dirty {
		return
	}
	o.dirty = false
	o.points = Build(o.grid, o.thresholds)
	if o.grid != nil {
		o.log.Debugf("density cloud rebuilt: %d points (pos>=%g neg>=%g)", len(o.points), o.thresholds.Positive, o.thresholds.Negative)
	}
}
