package tablecanvas

import "math"

// Padding is the space between the canvas edge and the table.
type Padding struct {
	Top, Right, Bottom, Left float64
}

// defaultPadding is used when no padding is configured.
var defaultPadding = Padding{Top: 10, Right: 10, Bottom: 10, Left: 10}

// resolvePadding cycles p to fill top, right, bottom and left, so one value
// applies to all sides and two values alternate.
func resolvePadding(p []float64) Padding {
	if len(p) == 0 {
		return defaultPadding
	}
	var v [4]float64
	for i := range v {
		v[i] = p[i%len(p)]
	}
	return Padding{Top: v[0], Right: v[1], Bottom: v[2], Left: v[3]}
}

// minReservedRows is the number of data rows reserved even when there is
// less data, matching the empty-data placeholder.
const minReservedRows = 2

// Layout holds the dimensions of one render pass. Lengths are in logical
// units unless named Pixel.
type Layout struct {
	TableWidth  float64
	TableHeight float64
	HeadHeight  float64
	MaxDepth    int
	// Width and Height are the table plus padding, including the title line.
	Width   float64
	Height  float64
	Padding Padding
	// Scale maps logical units to output units before the device pixel ratio.
	Scale            float64
	DevicePixelRatio float64
	PixelWidth       int
	PixelHeight      int
}

// Transform is the uniform factor mapping logical units to raster pixels.
func (l Layout) Transform() float64 {
	return l.Scale * l.DevicePixelRatio
}

// layoutParams are the inputs of computeLayout.
type layoutParams struct {
	tableWidth       float64
	maxDepth         int
	rowCount         int
	rowHeight        float64
	headerRowHeight  float64
	padding          Padding
	titleHeight      float64
	targetWidth      float64 // 0 means auto
	targetHeight     float64 // 0 means auto
	devicePixelRatio float64
}

// computeLayout resolves the table size, the outer size and the uniform
// scale that fits the outer size to the fixed targets.
func computeLayout(p layoutParams) Layout {
	l := Layout{
		TableWidth:       p.tableWidth,
		MaxDepth:         p.maxDepth,
		HeadHeight:       float64(p.maxDepth) * p.headerRowHeight,
		Padding:          p.padding,
		DevicePixelRatio: p.devicePixelRatio,
	}
	if l.DevicePixelRatio <= 0 {
		l.DevicePixelRatio = 1
	}
	rows := p.rowCount
	if rows < minReservedRows {
		rows = minReservedRows
	}
	l.TableHeight = float64(rows)*p.rowHeight + l.HeadHeight
	l.Padding.Top += p.titleHeight

	l.Width = l.TableWidth + l.Padding.Left + l.Padding.Right
	l.Height = l.TableHeight + l.Padding.Top + l.Padding.Bottom

	ratio := 1.0
	switch {
	case p.targetWidth > 0 && p.targetHeight > 0:
		ratio = math.Max(l.Width/p.targetWidth, l.Height/p.targetHeight)
	case p.targetWidth > 0:
		ratio = l.Width / p.targetWidth
	case p.targetHeight > 0:
		ratio = l.Height / p.targetHeight
	}
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		ratio = 1
	}
	l.Scale = 1 / ratio

	l.PixelWidth = pixels(l.Width * l.Scale * l.DevicePixelRatio)
	l.PixelHeight = pixels(l.Height * l.Scale * l.DevicePixelRatio)
	return l
}

// pixels truncates v to whole pixels, absorbing float error just below an
// integer.
func pixels(v float64) int {
	if v <= 0 {
		return 0
	}
	return int(math.Floor(v + 1e-9))
}
