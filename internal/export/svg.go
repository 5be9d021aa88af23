package export

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"

	svg "github.com/ajstarks/svgo"

	"github.com/san-kum/molview/internal/scene"
)

// dotRadius is the size of a density point in pixels.
const dotRadius = 1

// WriteSVG draws s as SVG: bonds as stroked lines, atoms as shaded
// circles, density points and then labels on top.
func WriteSVG(w io.Writer, s Snapshot) error {
	cw := &errWriter{w: w}
	canvas := svg.New(cw)
	canvas.Start(s.Width, s.Height)
	canvas.Rect(0, 0, s.Width, s.Height, "fill:"+scene.Hex(s.Background))

	for _, sh := range s.Shapes {
		switch sh.Kind {
		case scene.ShapeBond:
			canvas.Line(px(sh.X), px(sh.Y), px(sh.X2), px(sh.Y2),
				fmt.Sprintf("stroke:%s;stroke-width:%.1f;stroke-linecap:round", scene.Hex(sh.Color), math.Max(2*sh.R, 1)))
		case scene.ShapeAtom:
			canvas.Circle(px(sh.X), px(sh.Y), max(px(sh.R), 1),
				fmt.Sprintf("fill:%s;stroke:%s", scene.Hex(sh.Color), scene.Hex(scene.Shade(sh.Color, 0.6))))
		}
	}

	if len(s.Dots) > 0 {
		canvas.Gstyle("stroke:none")
		for _, d := range s.Dots {
			canvas.Circle(px(d.X), px(d.Y), dotRadius, "fill:"+scene.Hex(d.Color))
		}
		canvas.Gend()
	}

	if len(s.Labels) > 0 {
		canvas.Gstyle("font-family:monospace;font-size:12px;text-anchor:middle;fill:" + labelColor(s.Background))
		for _, l := range s.Labels {
			canvas.Text(px(l.X), px(l.Y), l.Text)
		}
		canvas.Gend()
	}
	canvas.End()
	return cw.err
}

// SVG returns the document as a string.
func SVG(s Snapshot) string {
	var b bytes.Buffer
	_ = WriteSVG(&b, s)
	return b.String()
}

func SaveSVG(path string, s Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSVG(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func px(v float64) int { return int(math.Round(v)) }

// labelColor picks black or white text for the background.
func labelColor(bg color.RGBA) string {
	if 0.299*float64(bg.R)+0.587*float64(bg.G)+0.114*float64(bg.B) > 127.5 {
		return "#000000"
	}
	return "#ffffff"
}

// errWriter keeps the first write error; svgo drops them.
type errWriter struct {
	w   io.Writer
	err error
}

func (c *errWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return len(p), nil
	}
	n, err := c.w.Write(p)
	if err != nil {
		c.err = err
	}
	return n, err
}
