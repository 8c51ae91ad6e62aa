// Package overlay draws detection boxes and caption labels onto frames.
// The pipeline consumes it only through the OverlayRenderer port.
package overlay

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/framelingo/framelingo-annotation-service/internal/domain/port"
)

// Box colors keyed by region language, RGB per the UI legend.
var langColors = map[string]color.RGBA{
	"eng": {0, 200, 100, 255},
	"hin": {255, 150, 0, 255},
	"ben": {100, 100, 255, 255},
	"tam": {200, 50, 200, 255},
	"ara": {255, 80, 80, 255},
	"rus": {80, 180, 255, 255},
}

var defaultColor = color.RGBA{0, 200, 200, 255}

const (
	boxThickness = 2
	labelHeight  = 16
	labelPad     = 2
)

type Renderer struct {
	face font.Face
}

func NewRenderer() *Renderer {
	return &Renderer{face: basicfont.Face7x13}
}

// Render returns a copy of the frame with every region's box and caption
// drawn on. The input frame is never mutated.
func (r *Renderer) Render(frame image.Image, regions []port.AnnotatedRegion) image.Image {
	bounds := frame.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, frame, bounds.Min, draw.Src)

	for _, ar := range regions {
		c, ok := langColors[ar.Region.Language]
		if !ok {
			c = defaultColor
		}
		box := ar.Region.Box
		r.drawBox(out, box.X, box.Y, box.Width, box.Height, c)
		if ar.Caption != "" {
			labelY := box.Y - labelHeight
			if labelY < bounds.Min.Y {
				labelY = bounds.Min.Y
			}
			r.drawLabel(out, box.X, labelY, ar.Caption)
		}
	}
	return out
}

func (r *Renderer) drawBox(img *image.RGBA, x, y, w, h int, c color.RGBA) {
	for t := 0; t < boxThickness; t++ {
		drawRectOutline(img, x-t, y-t, w+2*t, h+2*t, c)
	}
}

func drawRectOutline(img *image.RGBA, x, y, w, h int, c color.RGBA) {
	for i := x; i <= x+w; i++ {
		setInBounds(img, i, y, c)
		setInBounds(img, i, y+h, c)
	}
	for j := y; j <= y+h; j++ {
		setInBounds(img, x, j, c)
		setInBounds(img, x+w, j, c)
	}
}

func setInBounds(img *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetRGBA(x, y, c)
	}
}

// drawLabel paints the caption in white over a black backing rectangle so
// it stays readable on any frame content.
func (r *Renderer) drawLabel(img *image.RGBA, x, y int, text string) {
	width := font.MeasureString(r.face, text).Ceil()
	bg := image.Rect(x-labelPad, y-labelPad, x+width+labelPad, y+labelHeight)
	draw.Draw(img, bg.Intersect(img.Bounds()), image.NewUniform(color.Black), image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: r.face,
		Dot:  fixed.P(x, y+r.face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
}
