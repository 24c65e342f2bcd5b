package field

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an sRGB colour with a separate alpha channel. Alpha is kept unclamped
// until the colour is composed for a concrete surface.
type Color struct {
	R, G, B uint8
	A       float64
}

// Opaque returns a fully opaque colour.
func Opaque(r, g, b uint8) Color { return Color{R: r, G: g, B: b, A: 1} }

// ParseHex reads "#rrggbb" or "#rgb".
func ParseHex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("field: bad colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return Opaque(r, g, b), nil
}

// MustHex is ParseHex for package-level literals.
func MustHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// Fade multiplies the alpha channel.
func (c Color) Fade(f float64) Color {
	c.A *= f
	return c
}

// Alpha returns A clamped to [0, 1].
func (c Color) Alpha() float64 {
	return math.Max(0, math.Min(1, c.A))
}

// NRGBA composes the colour into 8-bit non-premultiplied form.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Floor(c.Alpha() * 255))}
}

func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Hex returns "#rrggbb", dropping alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Over composites c on top of an opaque background and returns the opaque result.
func (c Color) Over(bg Color) Color {
	mixed := bg.Colorful().BlendRgb(c.Colorful(), c.Alpha()).Clamped()
	r, g, b := mixed.RGB255()
	return Opaque(r, g, b)
}

type Palette []Color

var defaultPalette = Palette{
	MustHex("#8B5CF6"), // electric violet
	MustHex("#A78BFA"), // light violet
	MustHex("#FF6B35"), // atomic orange
	MustHex("#FFFFFF"),
	MustHex("#94A3B8"), // slate
}

// LinkColor is the violet used for connective lines.
var LinkColor = Opaque(139, 92, 246)

// DefaultPalette returns a copy of the five-colour palette.
func DefaultPalette() Palette {
	p := make(Palette, len(defaultPalette))
	copy(p, defaultPalette)
	return p
}

// ParsePalette parses a list of hex colours. An empty list yields the default palette.
func ParsePalette(hexes []string) (Palette, error) {
	if len(hexes) == 0 {
		return DefaultPalette(), nil
	}
	p := make(Palette, 0, len(hexes))
	for _, h := range hexes {
		c, err := ParseHex(h)
		if err != nil {
			return nil, err
		}
		p = append(p, c)
	}
	return p, nil
}

func (p Palette) Hex() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = c.Hex()
	}
	return out
}
