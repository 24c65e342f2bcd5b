package export

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/san-kum/orbitfield/internal/field"
)

// kappa places cubic control points so four segments approximate a circle.
const kappa = 0.5522847498

// DefaultBackground is the near-black the visualizer is composited over.
var DefaultBackground = field.MustHex("#0A0A12")

// Raster is an anti-aliased image surface. Coordinates arrive in logical
// pixels and are scaled by the device pixel ratio.
type Raster struct {
	Background field.Color

	img   *image.RGBA
	z     *vector.Rasterizer
	scale float64
}

func NewRaster(background field.Color) *Raster {
	return &Raster{Background: background, scale: 1}
}

func (r *Raster) Resize(width, height int, dpr float64) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if dpr <= 0 {
		dpr = 1
	}
	r.scale = dpr
	r.img = image.NewRGBA(image.Rect(0, 0, width, height))
	r.z = vector.NewRasterizer(width, height)
	r.Clear()
}

func (r *Raster) Clear() {
	if r.img == nil {
		return
	}
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(r.Background.NRGBA()), image.Point{}, draw.Src)
}

func (r *Raster) FillCircle(x, y, radius float64, c field.Color) {
	if r.img == nil || radius <= 0 || c.Alpha() == 0 {
		return
	}
	cx, cy, rr := float32(x*r.scale), float32(y*r.scale), float32(radius*r.scale)
	k := rr * kappa

	r.z.Reset(r.img.Bounds().Dx(), r.img.Bounds().Dy())
	r.z.DrawOp = draw.Over
	r.z.MoveTo(cx+rr, cy)
	r.z.CubeTo(cx+rr, cy+k, cx+k, cy+rr, cx, cy+rr)
	r.z.CubeTo(cx-k, cy+rr, cx-rr, cy+k, cx-rr, cy)
	r.z.CubeTo(cx-rr, cy-k, cx-k, cy-rr, cx, cy-rr)
	r.z.CubeTo(cx+k, cy-rr, cx+rr, cy-k, cx+rr, cy)
	r.z.ClosePath()
	r.z.Draw(r.img, r.img.Bounds(), image.NewUniform(c.NRGBA()), image.Point{})
}

// StrokeLine fills the quad around the segment. Widths below one device pixel
// are widened to one so hairlines stay visible.
func (r *Raster) StrokeLine(x0, y0, x1, y1, width float64, c field.Color) {
	if r.img == nil || c.Alpha() == 0 {
		return
	}
	x0, y0, x1, y1 = x0*r.scale, y0*r.scale, x1*r.scale, y1*r.scale
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	half := math.Max(width*r.scale, 1) / 2
	nx, ny := -dy/length*half, dx/length*half

	r.z.Reset(r.img.Bounds().Dx(), r.img.Bounds().Dy())
	r.z.DrawOp = draw.Over
	r.z.MoveTo(float32(x0+nx), float32(y0+ny))
	r.z.LineTo(float32(x1+nx), float32(y1+ny))
	r.z.LineTo(float32(x1-nx), float32(y1-ny))
	r.z.LineTo(float32(x0-nx), float32(y0-ny))
	r.z.ClosePath()
	r.z.Draw(r.img, r.img.Bounds(), image.NewUniform(c.NRGBA()), image.Point{})
}

// Caption stamps text in the bottom-left corner.
func (r *Raster) Caption(text string, c field.Color) {
	if r.img == nil || text == "" {
		return
	}
	face := basicfont.Face7x13
	d := font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(c.NRGBA()),
		Face: face,
		Dot:  fixed.P(8, r.img.Bounds().Dy()-face.Descent-6),
	}
	d.DrawString(text)
}

// Image returns the backing image; it is overwritten by later frames.
func (r *Raster) Image() *image.RGBA { return r.img }

func (r *Raster) WritePNG(w io.Writer) error {
	if r.img == nil {
		return fmt.Errorf("export: raster has no size")
	}
	if err := png.Encode(w, r.img); err != nil {
		return fmt.Errorf("export: encode png: %w", err)
	}
	return nil
}
