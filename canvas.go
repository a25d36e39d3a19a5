package tablecanvas

import (
	"image"
	"image/color"
)

// Canvas is a drawing surface with a mutable pixel size.
type Canvas interface {
	Width() int
	Height() int
	// SetSize resizes the surface, clearing its pixels and resetting the
	// drawing state of its context.
	SetSize(width, height int)
	Context() Context
}

// Context is the 2-D drawing context of a Canvas. Coordinates are mapped
// through the current translate/scale transform.
type Context interface {
	// Save pushes the current state (transform, colors, font, alignment).
	Save()
	// Restore pops the state pushed by the matching Save.
	Restore()
	Translate(x, y float64)
	// Scale multiplies the transform by a uniform factor.
	Scale(s float64)

	SetFillColor(c color.Color)
	SetStrokeColor(c color.Color)
	SetLineWidth(w float64)
	SetFont(f Font)
	SetTextAlign(a TextAlign)

	ClearRect(x, y, w, h float64)
	FillRect(x, y, w, h float64)
	StrokeRect(x, y, w, h float64)
	// FillText draws text vertically centered on y, anchored at x according
	// to the text alignment. Text wider than maxWidth is clipped; a
	// maxWidth <= 0 draws nothing. Pass math.Inf(1) for no limit.
	FillText(text string, x, y, maxWidth float64)
	// MeasureText returns the advance width of text in current units.
	MeasureText(text string) float64
}

// ImageCanvas is a Canvas whose content can be read back as an image.
type ImageCanvas interface {
	Canvas
	Image() image.Image
}
