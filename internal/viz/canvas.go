package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/orbitfield/internal/field"
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

// Canvas is a Braille dot grid with one composited colour per cell.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]field.Color
	Background    field.Color
}

func NewCanvas(w, h int, bg field.Color) *Canvas {
	c := &Canvas{
		Width:      w,
		Height:     h,
		Grid:       make([][]rune, h),
		Colors:     make([][]field.Color, h),
		Background: bg,
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]field.Color, w)
	}
	c.Clear()
	return c
}

// Set lights the dot at (x, y) in sub-pixel coordinates and composites col
// over the cell colour. The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int, col field.Color) {
	if x < 0 || y < 0 {
		return
	}
	row, cell := y/4, x/2
	if cell >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][cell] |= rune(pixelMap[y%4][x%2])
	c.Colors[row][cell] = col.Over(c.Colors[row][cell])
}

func (c *Canvas) Lit(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Colors[i][j] = c.Background
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, col field.Color) {
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
		c.Set(x0, y0, col)
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

// FillDisc lights every dot whose centre lies within r of (cx, cy). A disc
// smaller than one dot still lights the dot under its centre.
func (c *Canvas) FillDisc(cx, cy, r float64, col field.Color) {
	if r < 0.5 {
		c.Set(int(cx), int(cy), col)
		return
	}
	r2 := r * r
	for y := int(cy - r); y <= int(cy+r); y++ {
		for x := int(cx - r); x <= int(cx+r); x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			if dx*dx+dy*dy <= r2 {
				c.Set(x, y, col)
			}
		}
	}
}

// String renders the dots without colour.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render renders the dots with each cell's colour, batching runs of equal
// colour into one styled span.
func (c *Canvas) Render() string {
	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && c.Colors[i][j] == c.Colors[i][start] {
				continue
			}
			span := string(row[start:j])
			if c.Colors[i][start] == c.Background {
				b.WriteString(span)
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(c.Colors[i][start].Hex())).Render(span))
			}
			start = j
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
