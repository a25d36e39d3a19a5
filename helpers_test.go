package tablecanvas

import (
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// discardLogger returns a logger that drops everything.
func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// hookedLogger returns a debug-level logger whose entries are captured.
func hookedLogger() (*logrus.Logger, *test.Hook) {
	l, hook := test.NewNullLogger()
	l.SetLevel(logrus.DebugLevel)
	return l, hook
}

// drawOp is one recorded drawing call, in device coordinates.
type drawOp struct {
	kind     string // clearRect, fillRect, strokeRect, fillText
	x, y     float64
	w, h     float64
	text     string
	maxWidth float64
	align    TextAlign
	fill     color.Color
	stroke   color.Color
	font     Font
}

// recordingCanvas is a Canvas that records every call instead of drawing.
type recordingCanvas struct {
	width, height int
	resizes       int
	ctx           *recordingContext
}

func newRecordingCanvas() *recordingCanvas {
	c := &recordingCanvas{}
	c.SetSize(0, 0)
	c.resizes = 0
	return c
}

func (c *recordingCanvas) Width() int  { return c.width }
func (c *recordingCanvas) Height() int { return c.height }

func (c *recordingCanvas) SetSize(w, h int) {
	c.width, c.height = w, h
	c.resizes++
	c.ctx = &recordingContext{state: recordingState{scale: 1}}
}

func (c *recordingCanvas) Context() Context { return c.ctx }

func (c *recordingCanvas) ops(kind string) []drawOp {
	var out []drawOp
	for _, op := range c.ctx.ops {
		if op.kind == kind {
			out = append(out, op)
		}
	}
	return out
}

func (c *recordingCanvas) texts() []string {
	var out []string
	for _, op := range c.ops("fillText") {
		out = append(out, op.text)
	}
	return out
}

type recordingState struct {
	tx, ty, scale float64
	fill, stroke  color.Color
	font          Font
	align         TextAlign
}

type recordingContext struct {
	state recordingState
	stack []recordingState
	ops   []drawOp
}

func (x *recordingContext) Save() { x.stack = append(x.stack, x.state) }

func (x *recordingContext) Restore() {
	x.state = x.stack[len(x.stack)-1]
	x.stack = x.stack[:len(x.stack)-1]
}

func (x *recordingContext) Translate(dx, dy float64) {
	x.state.tx += x.state.scale * dx
	x.state.ty += x.state.scale * dy
}

func (x *recordingContext) Scale(s float64)              { x.state.scale *= s }
func (x *recordingContext) SetFillColor(c color.Color)   { x.state.fill = c }
func (x *recordingContext) SetStrokeColor(c color.Color) { x.state.stroke = c }
func (x *recordingContext) SetLineWidth(float64)         {}
func (x *recordingContext) SetFont(f Font)               { x.state.font = f }
func (x *recordingContext) SetTextAlign(a TextAlign)     { x.state.align = a }

func (x *recordingContext) record(kind string, px, py, w, h float64) *drawOp {
	s := x.state
	x.ops = append(x.ops, drawOp{
		kind:   kind,
		x:      s.tx + s.scale*px,
		y:      s.ty + s.scale*py,
		w:      s.scale * w,
		h:      s.scale * h,
		align:  s.align,
		fill:   s.fill,
		stroke: s.stroke,
		font:   s.font,
	})
	return &x.ops[len(x.ops)-1]
}

func (x *recordingContext) ClearRect(px, py, w, h float64)  { x.record("clearRect", px, py, w, h) }
func (x *recordingContext) FillRect(px, py, w, h float64)   { x.record("fillRect", px, py, w, h) }
func (x *recordingContext) StrokeRect(px, py, w, h float64) { x.record("strokeRect", px, py, w, h) }

func (x *recordingContext) FillText(text string, px, py, maxWidth float64) {
	op := x.record("fillText", px, py, 0, 0)
	op.text = text
	op.maxWidth = x.state.scale * maxWidth
}

func (x *recordingContext) MeasureText(text string) float64 {
	return float64(len(text)) * x.state.font.Size / 2
}

// sampleColumns mirrors a typical nested header: a two-leaf group, three
// plain columns, and a group holding a nested group.
func sampleColumns() []ColumnSpec {
	return []ColumnSpec{
		{Title: "name", Children: []ColumnSpec{
			{Title: "first", DataIndex: "first"},
			{Title: "last", DataIndex: "last", Render: RenderWith(func(v any, _ Row, i int) Cell {
				switch i {
				case 0:
					return Text(stringify(v)).RowSpan(2)
				case 1:
					return Text(stringify(v)).RowSpan(0)
				}
				return Text(stringify(v))
			})},
		}},
		{Title: "age", DataIndex: "age", TextAlign: AlignCenter, TextColor: "blue"},
		{Title: "weight", DataIndex: "weight", Render: Template("{c}kg")},
		{Title: "address", DataIndex: "address", Width: 200},
		{Title: "other-abcd", Children: []ColumnSpec{
			{Title: "a", DataIndex: "a", Render: RenderWith(func(v any, _ Row, i int) Cell {
				switch i {
				case 2:
					return Text(stringify(v)).ColSpan(2).RowSpan(2)
				case 3:
					return Text(stringify(v)).ColSpan(0).RowSpan(0)
				}
				return Text(stringify(v))
			})},
			{Title: "b", DataIndex: "b", Render: RenderWith(func(v any, _ Row, i int) Cell {
				if i == 2 || i == 3 {
					return Text(stringify(v)).ColSpan(0).RowSpan(0)
				}
				return Text(stringify(v))
			})},
			{Title: "c+d", DataIndex: "c", Children: []ColumnSpec{
				{Title: "c", DataIndex: "c"},
				{Title: "d", DataIndex: "d"},
			}},
		}},
	}
}

func sampleRows() []Row {
	return []Row{
		{"first": "Jack", "last": "smith", "age": 16, "weight": 50, "address": "where", "a": "a1", "b": "b1", "c": "c1", "d": "d1"},
		{"first": "Jack", "last": "smith", "age": 26, "weight": 60, "address": "where", "a": "a2", "b": "b2", "c": "c2", "d": "d2"},
		{"first": "Jack", "last": "last", "age": 36, "weight": 70, "address": "where", "a": "merge-a+b", "b": "merge-a+b", "c": "c3", "d": "d3"},
		{"first": "Tom", "last": "last", "age": 46, "weight": 80, "address": "where", "a": "merge-a+b", "b": "merge-a+b", "c": "c4", "d": "d4"},
	}
}

// flatSpecs returns n plain leaf columns keyed "a", "b", "c"...
func flatSpecs(n int) []ColumnSpec {
	specs := make([]ColumnSpec, n)
	for i := range specs {
		key := string(rune('a' + i))
		specs[i] = ColumnSpec{Title: key, DataIndex: key}
	}
	return specs
}

// gridRows returns n rows; row r holds "<key><r>" under each key.
func gridRows(n, cols int) []Row {
	rows := make([]Row, n)
	for r := range rows {
		row := Row{}
		for c := 0; c < cols; c++ {
			key := string(rune('a' + c))
			row[key] = key + string(rune('0'+r))
		}
		rows[r] = row
	}
	return rows
}

// normalize runs the normalizer with default style.
func normalize(specs []ColumnSpec) ([]*Column, int) {
	st := resolveStyle(nil, discardLogger())
	return normalizeColumns(specs, st.columnDefaults(), discardLogger())
}

// writeFile writes data to path, creating parent directories.
func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}
