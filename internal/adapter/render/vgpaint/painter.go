// Package vgpaint implements ports.Painter on top of gonum/plot's raster canvas.
package vgpaint

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/tejashwikalptaru/tonescope/internal/domain"
	"github.com/tejashwikalptaru/tonescope/internal/ports"
)

// dpi makes one vg point equal one pixel.
const dpi = 72

// Painter draws with top-left pixel coordinates onto a transparent image.
// A Painter is not safe for concurrent use.
type Painter struct {
	width, height int
	canvas        *vgimg.Canvas

	fill      color.NRGBA
	hasFill   bool
	stroke    color.NRGBA
	hasStroke bool
	weight    float64
}

var _ ports.Painter = (*Painter)(nil)

// New creates a transparent painter of the given size.
// Sizes below one pixel are raised to one.
func New(width, height int) *Painter {
	width, height = max(width, 1), max(height, 1)
	return &Painter{
		width:  width,
		height: height,
		canvas: vgimg.NewWith(
			vgimg.UseWH(vg.Length(width), vg.Length(height)),
			vgimg.UseDPI(dpi),
			vgimg.UseBackgroundColor(color.Transparent),
		),
		fill:      color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		hasFill:   true,
		stroke:    color.NRGBA{A: 255},
		hasStroke: true,
		weight:    1,
	}
}

// Image returns the frame drawn so far. The image is owned by the painter.
func (p *Painter) Image() image.Image {
	return p.canvas.Image()
}

// Width implements ports.Painter.
func (p *Painter) Width() int { return p.width }

// Height implements ports.Painter.
func (p *Painter) Height() int { return p.height }

// Clear implements ports.Painter.
func (p *Painter) Clear() {
	img := p.canvas.Image()
	draw.Draw(img, img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

// Fill implements ports.Painter.
func (p *Painter) Fill(c domain.Color) {
	p.fill = toNRGBA(c)
	p.hasFill = true
}

// NoFill implements ports.Painter.
func (p *Painter) NoFill() { p.hasFill = false }

// Stroke implements ports.Painter.
func (p *Painter) Stroke(c domain.Color) {
	p.stroke = toNRGBA(c)
	p.hasStroke = true
}

// NoStroke implements ports.Painter.
func (p *Painter) NoStroke() { p.hasStroke = false }

// StrokeWeight implements ports.Painter.
func (p *Painter) StrokeWeight(w float64) { p.weight = w }

// Rect implements ports.Painter.
func (p *Painter) Rect(x, y, w, h float64) {
	var path vg.Path
	path.Move(p.pt(x, y))
	path.Line(p.pt(x+w, y))
	path.Line(p.pt(x+w, y+h))
	path.Line(p.pt(x, y+h))
	path.Close()
	p.paint(path, true)
}

// Polyline implements ports.Painter.
func (p *Painter) Polyline(points []domain.Point) {
	if len(points) < 2 {
		return
	}
	var path vg.Path
	path.Move(p.pt(points[0].X, points[0].Y))
	for _, pt := range points[1:] {
		path.Line(p.pt(pt.X, pt.Y))
	}
	p.paint(path, len(points) > 2)
}

func (p *Painter) paint(path vg.Path, fillable bool) {
	if p.hasFill && fillable {
		p.canvas.SetColor(p.fill)
		p.canvas.Fill(path)
	}
	if p.hasStroke && p.weight > 0 {
		p.canvas.SetColor(p.stroke)
		p.canvas.SetLineWidth(vg.Length(p.weight))
		p.canvas.Stroke(path)
	}
}

// pt converts top-left pixel coordinates to the canvas' bottom-left space.
func (p *Painter) pt(x, y float64) vg.Point {
	return vg.Point{X: vg.Length(x), Y: vg.Length(float64(p.height) - y)}
}

func toNRGBA(c domain.Color) color.NRGBA {
	return color.NRGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: channel(c.A)}
}

func channel(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}
