package tablecanvas

import (
	"image/color"
)

// renderer draws one pass of a table onto a Context. Coordinates are
// logical; the context transform maps them to pixels.
type renderer struct {
	ctx    Context
	style  resolvedStyle
	title  resolvedTitle
	text   string
	bg     color.NRGBA
	layout Layout
}

// prepare clears the surface, fills the backgrounds and installs the
// logical-to-pixel transform.
func (r *renderer) prepare() {
	ctx, l := r.ctx, r.layout
	ctx.SetFont(r.style.font)
	ctx.SetFillColor(r.style.color)
	ctx.SetStrokeColor(r.style.color)
	ctx.SetTextAlign(r.style.textAlign)
	ctx.SetLineWidth(1)

	w, h := float64(l.PixelWidth), float64(l.PixelHeight)
	ctx.Save()
	ctx.ClearRect(0, 0, w, h)
	ctx.SetFillColor(r.bg)
	ctx.FillRect(0, 0, w, h)
	ctx.Restore()

	ctx.Scale(l.Transform())

	if r.style.background != nil {
		ctx.Save()
		ctx.SetFillColor(*r.style.background)
		ctx.FillRect(l.Padding.Left, l.Padding.Top, l.TableWidth, l.TableHeight)
		ctx.Restore()
	}
}

func (r *renderer) renderHeader(boxes []HeaderBox) {
	ctx, l := r.ctx, r.layout
	ctx.Save()
	ctx.Translate(l.Padding.Left, l.Padding.Top)
	for _, b := range boxes {
		c := b.Column
		r.drawBox(c, b.X, b.Y, b.Width, b.Height, &c.headerBg, c.Title)
	}
	ctx.Restore()
}

func (r *renderer) renderRows(cells []CellBox, rowCount int) {
	ctx, l := r.ctx, r.layout
	if rowCount == 0 {
		if l.TableWidth > 0 {
			r.renderPlaceholder()
		}
		return
	}
	ctx.Save()
	ctx.Translate(l.Padding.Left, l.Padding.Top+l.HeadHeight)
	for _, cell := range cells {
		r.drawBox(cell.column, cell.X, cell.Y, cell.Width, cell.Height, cell.column.bgColor, cell.Text)
	}
	ctx.Restore()
}

// renderPlaceholder draws the two-row "Empty Data!" box under the header.
func (r *renderer) renderPlaceholder() {
	ctx, l := r.ctx, r.layout
	rowHeight := r.style.rowHeight
	gray, _ := ParseColor(placeholderColor)

	ctx.Save()
	ctx.SetStrokeColor(r.style.borderColor)
	ctx.StrokeRect(l.Padding.Left, l.Padding.Top+l.HeadHeight, l.TableWidth, rowHeight*minReservedRows)
	ctx.SetFillColor(gray)
	ctx.SetTextAlign(AlignCenter)
	ctx.FillText(placeholderText, l.Padding.Left+0.5*l.TableWidth, l.Padding.Top+l.HeadHeight+rowHeight, l.TableWidth)
	ctx.Restore()
}

// drawBox fills, outlines and labels one header or data cell.
func (r *renderer) drawBox(c *Column, x, y, w, h float64, bg *color.NRGBA, text string) {
	ctx := r.ctx
	ctx.Save()
	if bg != nil {
		ctx.SetFillColor(*bg)
		ctx.FillRect(x, y, w, h)
	}
	ctx.SetStrokeColor(c.borderColor)
	ctx.StrokeRect(x, y, w, h)

	if maxWidth := w - 2*c.paddingLR; text != "" && maxWidth > 0 {
		ctx.SetFont(c.font)
		ctx.SetFillColor(c.color)
		ctx.SetTextAlign(c.align)
		tx := x + c.paddingLR
		switch c.align {
		case AlignCenter:
			tx = x + w/2
		case AlignRight:
			tx = x + w - c.paddingLR
		}
		ctx.FillText(text, tx, y+h/2, maxWidth)
	}
	ctx.Restore()
}

// renderTitle draws the title centered in the line reserved above the table.
func (r *renderer) renderTitle() {
	if r.text == "" {
		return
	}
	ctx, l, t := r.ctx, r.layout, r.title
	ctx.Save()
	ctx.SetFont(t.font)
	ctx.SetFillColor(t.color)
	ctx.SetTextAlign(t.align)
	midY := l.Padding.Top - t.lineHeight*0.5
	x := l.Padding.Left
	switch t.align {
	case AlignCenter:
		x = l.Width * 0.5
	case AlignRight:
		x = l.Width - l.Padding.Right
	}
	ctx.FillText(r.text, x, midY, l.TableWidth)
	ctx.Restore()
}
