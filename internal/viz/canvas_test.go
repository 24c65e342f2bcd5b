package viz

import (
	"strings"
	"testing"

	"github.com/san-kum/orbitfield/internal/field"
)

var (
	black = field.Opaque(0, 0, 0)
	white = field.Opaque(255, 255, 255)
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1, black)
	c.Set(0, 0, white)
	c.Set(3, 3, white)

	if c.Grid[0][0] != blank|0x1 {
		t.Errorf("expected dot 1 in cell 0, got %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != blank|0x80 {
		t.Errorf("expected dot 8 in cell 1, got %U", c.Grid[0][1])
	}
	if !c.Lit(0, 0) || c.Lit(1, 0) {
		t.Error("Lit disagrees with Set")
	}

	// out of range is ignored
	c.Set(-1, 0, white)
	c.Set(4, 0, white)
	c.Set(0, 4, white)
}

func TestCanvasCompositesCellColour(t *testing.T) {
	c := NewCanvas(1, 1, black)
	c.Set(0, 0, white.WithAlpha(0.5))
	got := c.Colors[0][0]
	if got.R < 126 || got.R > 129 || got.A != 1 {
		t.Errorf("expected half-grey opaque cell, got %+v", got)
	}

	c.Clear()
	if c.Grid[0][0] != blank || c.Colors[0][0] != black {
		t.Error("Clear should reset dots and colours")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(4, 1, black)
	c.DrawLine(0, 1, 7, 1, white)
	for x := range 8 {
		if !c.Lit(x, 1) {
			t.Errorf("dot %d not lit", x)
		}
		if c.Lit(x, 0) {
			t.Errorf("dot %d above the line is lit", x)
		}
	}
}

func TestCanvasFillDisc(t *testing.T) {
	c := NewCanvas(10, 5, black)
	c.FillDisc(10, 10, 3, white)
	if !c.Lit(10, 10) || !c.Lit(8, 10) || !c.Lit(10, 12) {
		t.Error("expected dots inside the disc to be lit")
	}
	if c.Lit(14, 10) || c.Lit(10, 5) {
		t.Error("expected dots outside the disc to stay dark")
	}

	c.Clear()
	c.FillDisc(3.7, 2.2, 0.1, white)
	if !c.Lit(3, 2) {
		t.Error("a tiny disc should light the dot under its centre")
	}
}

func TestCanvasRender(t *testing.T) {
	c := NewCanvas(3, 2, black)
	c.Set(0, 0, white)
	plain := c.String()
	if strings.Count(plain, "\n") != 2 {
		t.Errorf("expected 2 rows, got %q", plain)
	}
	if !strings.ContainsRune(c.Render(), '⠁') {
		t.Error("rendered canvas is missing the lit cell")
	}
}

func TestCanvasImage(t *testing.T) {
	c := NewCanvas(2, 1, black)
	c.Set(0, 0, white)
	img := c.Image(8, 16)

	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 16 {
		t.Fatalf("unexpected image size %v", img.Bounds())
	}
	if px := img.RGBAAt(1, 1); px.R != 255 {
		t.Errorf("lit dot should be white, got %+v", px)
	}
	if px := img.RGBAAt(5, 1); px.R != 0 {
		t.Errorf("unlit dot should be background, got %+v", px)
	}
}
