package density

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/molview/internal/molecule"
)

type Summary struct {
	Voxels   int
	Min, Max float64
	Mean     float64
	Positive int // above the noise floor
	Negative int
}

func Stats(g *molecule.Grid) Summary {
	if g == nil || len(g.Values) == 0 {
		return Summary{}
	}
	s := Summary{
		Voxels: len(g.Values),
		Min:    floats.Min(g.Values),
		Max:    floats.Max(g.Values),
		Mean:   floats.Sum(g.Values) / float64(len(g.Values)),
	}
	for _, v := range g.Values {
		switch {
		case v >= NoiseFloor:
			s.Positive++
		case v <= -NoiseFloor:
			s.Negative++
		}
	}
	return s
}

// SweepPoint is the cloud size at one threshold applied to both signs.
type SweepPoint struct {
	Threshold float64
	Positive  int
	Negative  int
}

// Sweep evaluates the cloud size at each threshold.
func Sweep(g *molecule.Grid, thresholds []float64) []SweepPoint {
	out := make([]SweepPoint, len(thresholds))
	for i, t := range thresholds {
		pos, neg := Count(g, Thresholds{Positive: t, Negative: t})
		out[i] = SweepPoint{Threshold: t, Positive: pos, Negative: neg}
	}
	return out
}

// LogThresholds returns n thresholds spaced evenly in log10 between lo and hi.
func LogThresholds(lo, hi float64, n int) []float64 {
	if n < 2 || lo <= 0 || hi <= lo {
		return []float64{lo}
	}
	exps := make([]float64, n)
	floats.Span(exps, math.Log10(lo), math.Log10(hi))
	for i, e := range exps {
		exps[i] = math.Pow(10, e)
	}
	return exps
}

// WriteHistogram renders a histogram of the voxel values above the noise
// floor to path. The image format follows the extension.
func WriteHistogram(g *molecule.Grid, bins int, path string) error {
	if g == nil {
		return fmt.Errorf("density: no grid")
	}
	vals := make(plotter.Values, 0, len(g.Values))
	for _, v := range g.Values {
		if math.Abs(v) >= NoiseFloor {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return fmt.Errorf("density: every voxel is below the noise floor")
	}
	if bins <= 0 {
		bins = 40
	}

	p := plot.New()
	p.Title.Text = "Voxel values"
	p.X.Label.Text = "value"
	p.Y.Label.Text = "voxels"

	h, err := plotter.NewHist(vals, bins)
	if err != nil {
		return fmt.Errorf("density: histogram: %w", err)
	}
	p.Add(h)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("density: save %s: %w", path, err)
	}
	return nil
}
