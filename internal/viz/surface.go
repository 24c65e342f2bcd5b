package viz

import (
	"image"
	"image/draw"
	"math"

	"github.com/san-kum/orbitfield/internal/field"
)

const (
	// CellWidth and CellHeight are the logical pixels one terminal cell stands for.
	CellWidth  = 8
	CellHeight = 16

	// DotsPerPixel maps logical pixels to Braille dots: two dots per cell
	// horizontally and four vertically.
	DotsPerPixel = 0.25

	// DefaultMinLineAlpha drops links too faint to register as a lit dot.
	DefaultMinLineAlpha = 0.02
)

// Surface draws onto a Braille canvas. Resize receives the canvas size in dots.
type Surface struct {
	Canvas       *Canvas
	MinLineAlpha float64

	background field.Color
	scale      float64
}

func NewSurface(background field.Color) *Surface {
	return &Surface{
		Canvas:       NewCanvas(0, 0, background),
		MinLineAlpha: DefaultMinLineAlpha,
		background:   background,
		scale:        DotsPerPixel,
	}
}

func (s *Surface) Resize(width, height int, dpr float64) {
	if dpr <= 0 {
		dpr = DotsPerPixel
	}
	s.scale = dpr
	s.Canvas = NewCanvas((width+1)/2, (height+3)/4, s.background)
}

// SetBackground changes the colour cells are composited over, starting with
// the next Clear.
func (s *Surface) SetBackground(bg field.Color) {
	s.background = bg
	s.Canvas.Background = bg
}

func (s *Surface) Clear() { s.Canvas.Clear() }

func (s *Surface) FillCircle(x, y, r float64, c field.Color) {
	s.Canvas.FillDisc(x*s.scale, y*s.scale, r*s.scale, c)
}

// StrokeLine ignores width; a Braille line is always one dot wide.
func (s *Surface) StrokeLine(x0, y0, x1, y1, _ float64, c field.Color) {
	if c.Alpha() < s.MinLineAlpha {
		return
	}
	s.Canvas.DrawLine(
		int(math.Floor(x0*s.scale)), int(math.Floor(y0*s.scale)),
		int(math.Floor(x1*s.scale)), int(math.Floor(y1*s.scale)),
		c,
	)
}

// Image rasterizes the canvas with each cell cellW x cellH pixels, lighting
// every dot as a block in its cell colour.
func (c *Canvas) Image(cellW, cellH int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.Width*cellW, c.Height*cellH))
	draw.Draw(img, img.Bounds(), image.NewUniform(c.Background.NRGBA()), image.Point{}, draw.Src)

	dotW, dotH := cellW/2, cellH/4
	for row := range c.Height {
		for col := range c.Width {
			pattern := c.Grid[row][col]
			if pattern == blank {
				continue
			}
			ink := image.NewUniform(c.Colors[row][col].NRGBA())
			baseX, baseY := col*cellW, row*cellH
			for dy := range 4 {
				for dx := range 2 {
					if pattern&rune(pixelMap[dy][dx]) == 0 {
						continue
					}
					x, y := baseX+dx*dotW, baseY+dy*dotH
					draw.Draw(img, image.Rect(x, y, x+dotW, y+dotH), ink, image.Point{}, draw.Src)
				}
			}
		}
	}
	return img
}
