package tablecanvas

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/rivo/uniseg"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// RasterCanvas is a Canvas backed by an in-memory RGBA image.
type RasterCanvas struct {
	img   *image.RGBA
	fonts *FontCache
	ctx   *rasterContext
}

var _ ImageCanvas = (*RasterCanvas)(nil)

// NewRasterCanvas creates a width x height transparent canvas. A nil
// FontCache gets a fresh one.
func NewRasterCanvas(width, height int, fonts *FontCache) *RasterCanvas {
	if fonts == nil {
		fonts = NewFontCache()
	}
	c := &RasterCanvas{fonts: fonts}
	c.SetSize(width, height)
	return c
}

func (c *RasterCanvas) Width() int  { return c.img.Bounds().Dx() }
func (c *RasterCanvas) Height() int { return c.img.Bounds().Dy() }

// SetSize replaces the backing image and resets the context state.
func (c *RasterCanvas) SetSize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	c.img = image.NewRGBA(image.Rect(0, 0, width, height))
	c.ctx = &rasterContext{canvas: c, state: defaultRasterState()}
}

func (c *RasterCanvas) Context() Context { return c.ctx }

// Image returns the backing image. It is replaced by SetSize.
func (c *RasterCanvas) Image() image.Image { return c.img }

// RGBA is Image without the interface conversion.
func (c *RasterCanvas) RGBA() *image.RGBA { return c.img }

// rasterState is the part of the context saved by Save. The transform is
// x' = scale*x + tx.
type rasterState struct {
	tx, ty    float64
	scale     float64
	fill      color.Color
	stroke    color.Color
	lineWidth float64
	font      Font
	align     TextAlign
}

func defaultRasterState() rasterState {
	return rasterState{
		scale:     1,
		fill:      color.Black,
		stroke:    color.Black,
		lineWidth: 1,
		font:      Font{Family: DefaultFontFamily, Size: 10},
		align:     AlignLeft,
	}
}

type rasterContext struct {
	canvas *RasterCanvas
	state  rasterState
	stack  []rasterState
}

func (x *rasterContext) Save() {
	x.stack = append(x.stack, x.state)
}

func (x *rasterContext) Restore() {
	if len(x.stack) == 0 {
		return
	}
	x.state = x.stack[len(x.stack)-1]
	x.stack = x.stack[:len(x.stack)-1]
}

func (x *rasterContext) Translate(dx, dy float64) {
	x.state.tx += x.state.scale * dx
	x.state.ty += x.state.scale * dy
}

func (x *rasterContext) Scale(s float64) {
	x.state.scale *= s
}

func (x *rasterContext) SetFillColor(c color.Color)   { x.state.fill = c }
func (x *rasterContext) SetStrokeColor(c color.Color) { x.state.stroke = c }
func (x *rasterContext) SetLineWidth(w float64)       { x.state.lineWidth = w }
func (x *rasterContext) SetFont(f Font)               { x.state.font = f }
func (x *rasterContext) SetTextAlign(a TextAlign)     { x.state.align = a }

// device maps a logical point to device space.
func (x *rasterContext) device(px, py float64) (float64, float64) {
	return x.state.tx + x.state.scale*px, x.state.ty + x.state.scale*py
}

// deviceRect maps a logical rectangle to whole device pixels.
func (x *rasterContext) deviceRect(px, py, w, h float64) image.Rectangle {
	x0, y0 := x.device(px, py)
	x1, y1 := x.device(px+w, py+h)
	return image.Rect(round(x0), round(y0), round(x1), round(y1))
}

func round(v float64) int {
	return int(math.Round(v))
}

func floor(v float64) int {
	return int(math.Floor(v + 1e-9))
}

func (x *rasterContext) ClearRect(px, py, w, h float64) {
	r := x.deviceRect(px, py, w, h)
	draw.Draw(x.canvas.img, r, image.Transparent, image.Point{}, draw.Src)
}

func (x *rasterContext) FillRect(px, py, w, h float64) {
	x.fill(x.deviceRect(px, py, w, h), x.state.fill)
}

func (x *rasterContext) fill(r image.Rectangle, c color.Color) {
	if r.Empty() {
		return
	}
	draw.Draw(x.canvas.img, r, image.NewUniform(c), image.Point{}, draw.Over)
}

// StrokeRect outlines the rectangle with lines centered on its edges, so
// adjacent rectangles share their border pixels.
func (x *rasterContext) StrokeRect(px, py, w, h float64) {
	lw := round(x.state.lineWidth * x.state.scale)
	if lw < 1 {
		lw = 1
	}
	x0, y0 := x.device(px, py)
	x1, y1 := x.device(px+w, py+h)
	half := float64(lw)/2 - 0.5
	left := floor(x0 - half)
	top := floor(y0 - half)
	right := floor(x1 - half)
	bottom := floor(y1 - half)

	c := x.state.stroke
	x.fill(image.Rect(left, top, right+lw, top+lw), c)
	x.fill(image.Rect(left, bottom, right+lw, bottom+lw), c)
	x.fill(image.Rect(left, top+lw, left+lw, bottom), c)
	x.fill(image.Rect(right, top+lw, right+lw, bottom), c)
}

func (x *rasterContext) face() font.Face {
	return x.canvas.fonts.Face(x.state.font, x.state.scale)
}

func (x *rasterContext) MeasureText(text string) float64 {
	if x.state.scale == 0 {
		return 0
	}
	w := font.MeasureString(x.face(), text)
	return fixedToFloat(w) / x.state.scale
}

func (x *rasterContext) FillText(text string, px, py, maxWidth float64) {
	if text == "" || !(maxWidth > 0) {
		return
	}
	face := x.face()
	if !math.IsInf(maxWidth, 1) {
		text = clipText(face, text, maxWidth*x.state.scale)
		if text == "" {
			return
		}
	}
	dx, dy := x.device(px, py)
	w := fixedToFloat(font.MeasureString(face, text))
	switch x.state.align {
	case AlignCenter:
		dx -= w / 2
	case AlignRight:
		dx -= w
	}
	// Center the em box on dy.
	m := face.Metrics()
	baseline := dy + (fixedToFloat(m.Ascent)-fixedToFloat(m.Descent))/2

	d := &font.Drawer{
		Dst:  x.canvas.img,
		Src:  image.NewUniform(x.state.fill),
		Face: face,
		Dot:  fixed.Point26_6{X: floatToFixed(dx), Y: floatToFixed(baseline)},
	}
	d.DrawString(text)
}

// clipText returns the longest prefix of text, cut at grapheme cluster
// boundaries, whose advance fits in maxWidth device pixels.
func clipText(face font.Face, text string, maxWidth float64) string {
	if fixedToFloat(font.MeasureString(face, text)) <= maxWidth {
		return text
	}
	limit := floatToFixed(maxWidth)
	end := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		_, to := g.Positions()
		if font.MeasureString(face, text[:to]) > limit {
			break
		}
		end = to
	}
	return text[:end]
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
