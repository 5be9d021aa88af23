package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a grid of braille cells. Each cell carries one colour, the
// colour of the last dot set in it, and may be overwritten by text.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]lipgloss.Color
	text          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	w, h = max(w, 1), max(h, 1)
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Colors: make([][]lipgloss.Color, h),
		text:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]lipgloss.Color, w)
		c.text[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// PixelSize is the canvas size in dots.
func (c *Canvas) PixelSize() (int, int) { return c.Width * 2, c.Height * 4 }

func (c *Canvas) cell(x, y int) (col, row int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row = x/2, y/4
	return col, row, col < c.Width && row < c.Height
}

// Set lights the dot at (x, y) in dot coordinates.
func (c *Canvas) Set(x, y int, color lipgloss.Color) {
	col, row, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	if color != "" {
		c.Colors[row][col] = color
	}
}

// Unset clears a dot. The cell keeps its colour.
func (c *Canvas) Unset(x, y int) {
	col, row, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.Grid[row][col] &^= rune(pixelMap[y%4][x%2])
	if c.Grid[row][col] < blank {
		c.Grid[row][col] = blank
	}
}

func (c *Canvas) Lit(x, y int) bool {
	col, row, ok := c.cell(x, y)
	if !ok {
		return false
	}
	return c.Grid[row][col]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Colors[i][j] = ""
			c.text[i][j] = 0
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, color lipgloss.Color) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, color)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// FillCircle lights every dot within r of (cx, cy).
func (c *Canvas) FillCircle(cx, cy, r int, color lipgloss.Color) {
	if r <= 0 {
		c.Set(cx, cy, color)
		return
	}
	for y := -r; y <= r; y++ {
		for x := -r; x <= r; x++ {
			if x*x+y*y <= r*r {
				c.Set(cx+x, cy+y, color)
			}
		}
	}
}

// Text writes s into the cells starting at (col, row), clipped to the
// canvas. Text replaces the braille pattern of the cells it covers.
func (c *Canvas) Text(col, row int, s string, color lipgloss.Color) {
	if row < 0 || row >= c.Height {
		return
	}
	for _, r := range s {
		if col >= c.Width {
			return
		}
		if col >= 0 {
			c.text[row][col] = r
			c.Colors[row][col] = color
		}
		col++
	}
}

func (c *Canvas) at(row, col int) rune {
	if t := c.text[row][col]; t != 0 {
		return t
	}
	return c.Grid[row][col]
}

// String renders the canvas without colour.
func (c *Canvas) String() string {
	var b strings.Builder
	for row := range c.Grid {
		for col := range c.Grid[row] {
			b.WriteRune(c.at(row, col))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Render colours the canvas, one style per run of equally coloured cells.
// Cells without a colour use fallback.
func (c *Canvas) Render(fallback lipgloss.Color) string {
	var b strings.Builder
	var run strings.Builder
	for row := range c.Grid {
		cur := lipgloss.Color("")
		flush := func() {
			if run.Len() == 0 {
				return
			}
			b.WriteString(lipgloss.NewStyle().Foreground(cur).Render(run.String()))
			run.Reset()
		}
		for col := range c.Grid[row] {
			color := c.Colors[row][col]
			if color == "" {
				color = fallback
			}
			if color != cur {
				flush()
				cur = color
			}
			run.WriteRune(c.at(row, col))
		}
		flush()
		if row < c.Height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
