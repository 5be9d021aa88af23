package scene

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	DefaultAtomRadius = 0.3
	BondRadius        = 0.05
)

var cpkHex = map[string]string{
	"H":  "#FFFFFF",
	"C":  "#909090",
	"N":  "#3050F8",
	"O":  "#FF0D0D",
	"F":  "#90E050",
	"P":  "#FF8000",
	"S":  "#FFFF30",
	"Cl": "#1FF01F",
	"Br": "#A62929",
	"I":  "#940094",
}

var atomicRadii = map[string]float64{
	"H": 0.2,
	"C": 0.4,
	"N": 0.35,
	"O": 0.35,
}

var (
	defaultAtomColor = mustColor("#B0B0B0")
	BondColor        = mustColor("#AAAAAA")
	HighlightColor   = mustColor("#FFFF00")

	cpk = func() map[string]color.RGBA {
		m := make(map[string]color.RGBA, len(cpkHex))
		for el, hex := range cpkHex {
			m[el] = mustColor(hex)
		}
		return m
	}()
)

// ParseColor accepts #RRGGBB or #RGB.
func ParseColor(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("scene: colour %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

func mustColor(hex string) color.RGBA {
	c, err := ParseColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats c as #RRGGBB.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// ElementColor is the CPK colour of an element symbol.
func ElementColor(element string) color.RGBA {
	if c, ok := cpk[element]; ok {
		return c
	}
	return defaultAtomColor
}

func ElementRadius(element string) float64 {
	if r, ok := atomicRadii[element]; ok {
		return r
	}
	return DefaultAtomRadius
}

// highlight mixes c toward the selection colour.
func highlight(c color.RGBA) color.RGBA {
	base, _ := colorful.MakeColor(c)
	hl, _ := colorful.MakeColor(HighlightColor)
	r, g, b := base.BlendRgb(hl, 0.8).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Shade scales the brightness of c by f in Lab space; f=1 returns c.
func Shade(c color.RGBA, f float64) color.RGBA {
	cc, _ := colorful.MakeColor(c)
	l, a, b := cc.Lab()
	r, g, bb := colorful.Lab(l*f, a, b).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: bb, A: c.A}
}
