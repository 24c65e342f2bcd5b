package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/orbitfield/internal/field"
)

// SVG is a vector surface that keeps the draw calls of the current frame and
// renders them as an SVG document.
type SVG struct {
	Background field.Color

	width, height int
	scale         float64
	body          strings.Builder
	circles       int
	lines         int
}

func NewSVG(background field.Color) *SVG {
	return &SVG{Background: background, scale: 1}
}

func (s *SVG) Resize(width, height int, dpr float64) {
	if dpr <= 0 {
		dpr = 1
	}
	s.width, s.height, s.scale = width, height, dpr
	s.Clear()
}

func (s *SVG) Clear() {
	s.body.Reset()
	s.circles, s.lines = 0, 0
}

func (s *SVG) FillCircle(x, y, r float64, c field.Color) {
	if r <= 0 {
		return
	}
	fmt.Fprintf(&s.body, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" fill-opacity="%.3f"/>`+"\n",
		x*s.scale, y*s.scale, r*s.scale, c.Hex(), c.Alpha())
	s.circles++
}

func (s *SVG) StrokeLine(x0, y0, x1, y1, width float64, c field.Color) {
	fmt.Fprintf(&s.body, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-opacity="%.3f" stroke-width="%.2f"/>`+"\n",
		x0*s.scale, y0*s.scale, x1*s.scale, y1*s.scale, c.Hex(), c.Alpha(), width*s.scale)
	s.lines++
}

// Counts reports the circles and lines drawn since the last Clear.
func (s *SVG) Counts() (circles, lines int) { return s.circles, s.lines }

func (s *SVG) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, s.width, s.height, s.width, s.height, s.Background.Hex())
	sb.WriteString(s.body.String())
	sb.WriteString("</svg>\n")
	return sb.String()
}

func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}
