// Package raster paints host object trees into images. It is a headless
// debug surface: each text object becomes a line of pixels, indented by tree
// depth, so a frame can be inspected or written to disk without a real
// display backend.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/go-fern/fern/pkg/host"
)

// Painter renders memory trees into RGBA images.
type Painter struct {
	Width      int
	Height     int
	Background color.Color
	Foreground color.Color
	Face       font.Face
}

// NewPainter creates a painter with a dark background and the builtin
// fixed-width face.
func NewPainter(width, height int) *Painter {
	return &Painter{
		Width:      width,
		Height:     height,
		Background: color.RGBA{R: 0x1e, G: 0x1e, B: 0x2e, A: 0xff},
		Foreground: color.RGBA{R: 0xcd, G: 0xd6, B: 0xf4, A: 0xff},
		Face:       basicfont.Face7x13,
	}
}

// Paint renders the tree into a fresh image. Text objects paint one line
// each, top to bottom in tree order; a "color" prop of the form "#rrggbb"
// overrides the foreground for that line.
func (p *Painter) Paint(root *host.Memory) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(p.Background), image.Point{}, draw.Src)
	if root == nil {
		return img
	}

	metrics := p.Face.Metrics()
	lineHeight := metrics.Height.Ceil()
	if lineHeight == 0 {
		lineHeight = 13
	}
	ascent := metrics.Ascent.Ceil()

	line := 0
	paintSubtree(img, p, root, 0, &line, lineHeight, ascent)
	return img
}

func paintSubtree(img *image.RGBA, p *Painter, object *host.Memory, depth int, line *int, lineHeight, ascent int) {
	y := *line*lineHeight + ascent
	if y > p.Height {
		return
	}
	if object.Tag() == "text" {
		fg := p.Foreground
		if hex, ok := object.Prop("color"); ok {
			if parsed, err := ParseHexColor(fmt.Sprintf("%v", hex)); err == nil {
				fg = parsed
			}
		}
		drawer := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(fg),
			Face: p.Face,
			Dot: fixed.P(
				4+depth*8,
				y,
			),
		}
		drawer.DrawString(object.Text())
		*line++
	}
	for _, child := range object.Children() {
		if memory, ok := child.(*host.Memory); ok {
			paintSubtree(img, p, memory, depth+1, line, lineHeight, ascent)
		}
	}
}

// ParseHexColor parses "#rrggbb" into an opaque color.
func ParseHexColor(s string) (color.RGBA, error) {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("color %q is not of the form #rrggbb", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("color %q is not of the form #rrggbb: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// EncodePNG writes img to w as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
