package tablecanvas

import (
	"image/color"

	"github.com/sirupsen/logrus"
)

// ColumnSpec is the user-supplied description of a column. A spec with
// children is a group header and never renders data itself.
type ColumnSpec struct {
	Title     string  `yaml:"title"`
	DataIndex string  `yaml:"dataIndex"`
	Width     float64 `yaml:"width"`
	// Per-column text style. Empty values inherit from the table style.
	TextAlign  TextAlign `yaml:"textAlign"`
	TextColor  string    `yaml:"textColor"`
	FontSize   string    `yaml:"fontSize"`
	FontFamily string    `yaml:"fontFamily"`
	// BgColor fills this column's data cells; HeaderBgColor overrides the
	// table header background for this node.
	BgColor       string       `yaml:"bgColor"`
	HeaderBgColor string       `yaml:"headerBgColor"`
	Render        Render       `yaml:"render"`
	Children      []ColumnSpec `yaml:"children"`
}

// columnDefaults carries the table-wide values a column falls back to.
type columnDefaults struct {
	width       float64
	height      float64
	borderColor color.NRGBA
	paddingLR   float64
	font        Font
	color       color.NRGBA
	bgColor     color.NRGBA
	textAlign   TextAlign
}

func (s resolvedStyle) columnDefaults() columnDefaults {
	return columnDefaults{
		width:       s.columnWidth,
		height:      s.headerRowHeight,
		borderColor: s.borderColor,
		paddingLR:   s.paddingLR,
		font:        s.font,
		color:       s.color,
		bgColor:     s.headerBgColor,
		textAlign:   s.textAlign,
	}
}

// Column is a normalized header node. It is built once per render pass
// and not modified afterwards.
type Column struct {
	Title     string
	DataIndex string
	// Width is the leaf's own width, or the sum of the children's widths.
	Width float64
	// Height is the height of one header row.
	Height float64
	// Depth is 1 for top-level columns and grows downwards.
	Depth int
	// RowSpan is the number of header rows a leaf occupies; 1 for groups.
	RowSpan  int
	Children []*Column

	render      Render
	align       TextAlign
	color       color.NRGBA
	bgColor     *color.NRGBA
	headerBg    color.NRGBA
	borderColor color.NRGBA
	font        Font
	paddingLR   float64
}

// IsLeaf reports whether c renders a data column.
func (c *Column) IsLeaf() bool {
	return len(c.Children) == 0
}

// LeafCount returns the number of leaf columns under c, i.e. its colspan.
func (c *Column) LeafCount() int {
	if c.IsLeaf() {
		return 1
	}
	n := 0
	for _, ch := range c.Children {
		n += ch.LeafCount()
	}
	return n
}

// FlatColumn is a leaf column with its resolved left offset.
type FlatColumn struct {
	*Column
	Offset float64
}

// normalizeColumns builds the column tree and returns it together with the
// tree's maximum leaf depth.
func normalizeColumns(specs []ColumnSpec, d columnDefaults, log logrus.FieldLogger) ([]*Column, int) {
	cols := buildColumns(specs, 1, d, log)
	maxDepth := 0
	walkLeaves(cols, func(c *Column) {
		if c.Depth > maxDepth {
			maxDepth = c.Depth
		}
	})
	walkLeaves(cols, func(c *Column) {
		c.RowSpan = maxDepth - c.Depth + 1
	})
	return cols, maxDepth
}

func buildColumns(specs []ColumnSpec, depth int, d columnDefaults, log logrus.FieldLogger) []*Column {
	if len(specs) == 0 {
		return nil
	}
	cols := make([]*Column, 0, len(specs))
	for _, spec := range specs {
		c := &Column{
			Title:       spec.Title,
			DataIndex:   spec.DataIndex,
			Height:      d.height,
			Depth:       depth,
			RowSpan:     1,
			render:      spec.Render,
			align:       alignOr(spec.TextAlign, d.textAlign, "column.textAlign", log),
			color:       d.color,
			headerBg:    d.bgColor,
			borderColor: d.borderColor,
			font:        d.font,
			paddingLR:   d.paddingLR,
		}
		if spec.TextColor != "" {
			if tc, err := ParseColor(spec.TextColor); err == nil {
				c.color = tc
			} else {
				log.WithField("field", "column.textColor").Warnf("%v, using table text color", err)
			}
		}
		if spec.HeaderBgColor != "" {
			if bg, err := ParseColor(spec.HeaderBgColor); err == nil {
				c.headerBg = bg
			} else {
				log.WithField("field", "column.headerBgColor").Warnf("%v, using table header background", err)
			}
		}
		if spec.BgColor != "" {
			if bg, err := ParseColor(spec.BgColor); err == nil {
				c.bgColor = &bg
			} else {
				log.WithField("field", "column.bgColor").Warnf("%v, leaving cells unfilled", err)
			}
		}
		if spec.FontFamily != "" {
			c.font.Family = spec.FontFamily
		}
		if spec.FontSize != "" {
			if px, err := ParseFontSize(spec.FontSize); err == nil && px > 0 {
				c.font.Size = px
			} else {
				log.WithField("field", "column.fontSize").Warnf("invalid font size %q, using table font size", spec.FontSize)
			}
		}
		if len(spec.Children) > 0 {
			c.Children = buildColumns(spec.Children, depth+1, d, log)
			for _, ch := range c.Children {
				c.Width += ch.Width
			}
		} else {
			c.Width = positiveOr(spec.Width, d.width)
		}
		cols = append(cols, c)
	}
	return cols
}

// walkLeaves visits the leaves of cols depth-first, left to right.
func walkLeaves(cols []*Column, fn func(*Column)) {
	for _, c := range cols {
		if c.IsLeaf() {
			fn(c)
			continue
		}
		walkLeaves(c.Children, fn)
	}
}

// flattenColumns returns the leaves of cols in visual order, each carrying
// the cumulative width of the leaves before it.
func flattenColumns(cols []*Column) []FlatColumn {
	var flat []FlatColumn
	offset := 0.0
	walkLeaves(cols, func(c *Column) {
		flat = append(flat, FlatColumn{Column: c, Offset: offset})
		offset += c.Width
	})
	return flat
}

// HeaderBox is the rectangle a header node occupies, relative to the
// top-left corner of the table.
type HeaderBox struct {
	Column  *Column
	X, Y    float64
	Width   float64
	Height  float64
	ColSpan int
	RowSpan int
}

// headerBoxes lays out every header node in drawing order: each node
// before its children, roots left to right.
func headerBoxes(cols []*Column) []HeaderBox {
	var boxes []HeaderBox
	var walk func(cols []*Column, x float64)
	walk = func(cols []*Column, x float64) {
		for _, c := range cols {
			h := c.Height
			if c.IsLeaf() {
				h = float64(c.RowSpan) * c.Height
			}
			boxes = append(boxes, HeaderBox{
				Column:  c,
				X:       x,
				Y:       float64(c.Depth-1) * c.Height,
				Width:   c.Width,
				Height:  h,
				ColSpan: c.LeafCount(),
				RowSpan: c.RowSpan,
			})
			walk(c.Children, x)
			x += c.Width
		}
	}
	walk(cols, 0)
	return boxes
}
