package export

import (
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"

	"github.com/san-kum/orbitfield/internal/field"
)

var ErrNoFrames = errors.New("export: no frames recorded")

// Recorder is a raster surface that keeps a paletted copy of every completed
// frame. A frame is complete when the next one clears the surface or Flush is
// called.
type Recorder struct {
	*Raster
	Frames []*image.Paletted
	Limit  int
	drawn  bool
}

// NewRecorder keeps at most limit frames, dropping the oldest; zero keeps all.
func NewRecorder(r *Raster, limit int) *Recorder {
	return &Recorder{Raster: r, Limit: limit}
}

func (r *Recorder) Clear() {
	r.Flush()
	r.Raster.Clear()
}

func (r *Recorder) FillCircle(x, y, radius float64, c field.Color) {
	r.drawn = true
	r.Raster.FillCircle(x, y, radius, c)
}

func (r *Recorder) StrokeLine(x0, y0, x1, y1, width float64, c field.Color) {
	r.drawn = true
	r.Raster.StrokeLine(x0, y0, x1, y1, width, c)
}

// Flush captures the current frame if anything was drawn since the last one.
func (r *Recorder) Flush() {
	if !r.drawn || r.img == nil {
		return
	}
	r.drawn = false
	r.Frames = append(r.Frames, Quantize(r.img))
	if r.Limit > 0 && len(r.Frames) > r.Limit {
		r.Frames = r.Frames[len(r.Frames)-r.Limit:]
	}
}

func (r *Recorder) WriteGIF(w io.Writer, delay int) error {
	r.Flush()
	return EncodeGIF(w, r.Frames, delay)
}

// Quantize maps img onto the Plan 9 palette with Floyd-Steinberg dithering.
func Quantize(img image.Image) *image.Paletted {
	p := image.NewPaletted(img.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(p, img.Bounds(), img, img.Bounds().Min)
	return p
}

// EncodeGIF writes a looping animation; delay is in hundredths of a second.
func EncodeGIF(w io.Writer, frames []*image.Paletted, delay int) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, f := range frames {
		anim.Image = append(anim.Image, f)
		anim.Delay = append(anim.Delay, delay)
	}
	if err := gif.EncodeAll(w, &anim); err != nil {
		return fmt.Errorf("export: encode gif: %w", err)
	}
	return nil
}
