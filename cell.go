package tablecanvas

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Row is one data record, keyed by column data index.
type Row map[string]any

// Cell is the result of rendering one data cell: its text and how many
// rows and columns it spans. The zero Cell means "no result" and falls
// back to the stringified field value.
type Cell struct {
	text    string
	rowSpan int
	colSpan int
	set     bool
}

// Text returns an unmerged cell showing s.
func Text(s string) Cell {
	return Cell{text: s, rowSpan: 1, colSpan: 1, set: true}
}

// RowSpan returns a copy of c spanning n rows. A span of 0 marks the cell
// as a continuation of a merge declared above it.
func (c Cell) RowSpan(n int) Cell {
	c = c.ensure()
	c.rowSpan = n
	return c
}

// ColSpan returns a copy of c spanning n columns. A span of 0 marks the
// cell as a continuation of a merge declared to its left.
func (c Cell) ColSpan(n int) Cell {
	c = c.ensure()
	c.colSpan = n
	return c
}

func (c Cell) ensure() Cell {
	if !c.set {
		return Text(c.text)
	}
	return c
}

// String returns the cell text.
func (c Cell) String() string {
	return c.text
}

// Spans returns the declared row and column spans.
func (c Cell) Spans() (rows, cols int) {
	return c.rowSpan, c.colSpan
}

// Suppressed reports whether the cell declared itself part of another
// cell's merge.
func (c Cell) Suppressed() bool {
	return c.set && (c.rowSpan == 0 || c.colSpan == 0)
}

// RenderFunc computes a cell from the field value, the whole row and the
// row index.
type RenderFunc func(value any, row Row, index int) Cell

type renderKind int

const (
	renderDefault renderKind = iota
	renderCallback
	renderTemplate
)

// templatePlaceholder is replaced by the cell value in template renders.
const templatePlaceholder = "{c}"

// Render selects how a column turns values into cells: a callback, a
// format template, or (the zero value) plain stringification.
type Render struct {
	kind     renderKind
	fn       RenderFunc
	template string
}

// RenderWith returns a Render that calls fn for every cell.
func RenderWith(fn RenderFunc) Render {
	if fn == nil {
		return Render{}
	}
	return Render{kind: renderCallback, fn: fn}
}

// Template returns a Render that substitutes "{c}" in t with the value.
func Template(t string) Render {
	return Render{kind: renderTemplate, template: t}
}

// IsZero reports whether r is the default render.
func (r Render) IsZero() bool {
	return r.kind == renderDefault
}

// UnmarshalYAML reads a render from a definition file, where only
// templates can be expressed.
func (r *Render) UnmarshalYAML(value *yaml.Node) error {
	var t string
	if err := value.Decode(&t); err != nil {
		return fmt.Errorf("render must be a template string: %w", err)
	}
	if t == "" {
		*r = Render{}
		return nil
	}
	*r = Template(t)
	return nil
}

// apply renders one cell. Missing results fall back to the value itself.
func (r Render) apply(value any, row Row, index int) Cell {
	switch r.kind {
	case renderCallback:
		c := r.fn(value, row, index)
		if !c.set {
			return Text(stringify(value))
		}
		return c
	case renderTemplate:
		return Text(strings.ReplaceAll(r.template, templatePlaceholder, stringify(value)))
	default:
		return Text(stringify(value))
	}
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	case float64:
		return formatFloat(x, 64)
	case float32:
		return formatFloat(float64(x), 32)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

func formatFloat(f float64, bits int) string {
	if math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, bits)
	}
	return strconv.FormatFloat(f, 'g', -1, bits)
}

// CellBox is a resolved data cell: the rectangle it occupies relative to
// the top-left corner of the data area, and its text.
type CellBox struct {
	Row, Col int
	X, Y     float64
	Width    float64
	Height   float64
	Text     string
	RowSpan  int
	ColSpan  int

	column *Column
}

// spanMask records which cells are covered by an earlier merge. It
// belongs to a single render pass.
type spanMask struct {
	cols    int
	covered []bool
}

func newSpanMask(rows, cols int) *spanMask {
	return &spanMask{cols: cols, covered: make([]bool, rows*cols)}
}

func (m *spanMask) isCovered(r, c int) bool {
	return m.covered[r*m.cols+c]
}

// cover marks the rs x cs block at (r, c) as covered, except (r, c).
func (m *spanMask) cover(r, c, rs, cs int) {
	for i := 0; i < rs; i++ {
		for j := 0; j < cs; j++ {
			if i == 0 && j == 0 {
				continue
			}
			m.covered[(r+i)*m.cols+c+j] = true
		}
	}
}

// clampSpan limits a declared span to [1, remaining].
func clampSpan(n, remaining int) int {
	if n < 1 {
		return 1
	}
	if n > remaining {
		return remaining
	}
	return n
}

// resolveCells walks the grid top to bottom, left to right, and returns
// the cells to draw. Cells covered by an earlier merge are skipped
// without calling their render; cells declaring a zero span are skipped
// as well.
func resolveCells(rows []Row, flat []FlatColumn, rowHeight float64, log logrus.FieldLogger) []CellBox {
	mask := newSpanMask(len(rows), len(flat))
	boxes := make([]CellBox, 0, len(rows)*len(flat))
	for r, row := range rows {
		for c, fc := range flat {
			if mask.isCovered(r, c) {
				continue
			}
			var value any
			if fc.DataIndex != "" {
				value = row[fc.DataIndex]
			}
			cell := fc.render.apply(value, row, r)
			if cell.Suppressed() {
				log.WithFields(logrus.Fields{"row": r, "col": c}).
					Debug("Cell declares a zero span outside any merge, skipping.")
				continue
			}
			rs := clampSpan(cell.rowSpan, len(rows)-r)
			cs := clampSpan(cell.colSpan, len(flat)-c)
			mask.cover(r, c, rs, cs)
			last := flat[c+cs-1]
			boxes = append(boxes, CellBox{
				Row:     r,
				Col:     c,
				X:       fc.Offset,
				Y:       float64(r) * rowHeight,
				Width:   last.Offset + last.Width - fc.Offset,
				Height:  float64(rs) * rowHeight,
				Text:    cell.text,
				RowSpan: rs,
				ColSpan: cs,
				column:  fc.Column,
			})
		}
	}
	return boxes
}
