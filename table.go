package tablecanvas

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Options configures a Table.
type Options struct {
	// Canvas receives the drawing. Nil means a new RasterCanvas.
	Canvas Canvas
	// FontCache is used for the default RasterCanvas. Nil means a new one.
	FontCache  *FontCache
	Columns    []ColumnSpec
	DataSource []Row
	Style      *TableStyle
	// BgColor fills the whole surface. Default: transparent.
	BgColor string
	// Text is an optional title drawn above the table.
	Text      string
	TextStyle *TextStyle
	// Width and Height fix the output size in logical units; 0 means auto.
	Width  float64
	Height float64
	// Padding is cycled over top, right, bottom, left. Default: 10 on all sides.
	Padding []float64
	// DevicePixelRatio multiplies the raster size. Default: 1.
	DevicePixelRatio float64
	// Logger receives diagnostics. Nil discards them.
	Logger logrus.FieldLogger
}

// Table renders rows of records under a possibly nested header.
type Table struct {
	opts   Options
	canvas Canvas
	log    logrus.FieldLogger
	style  resolvedStyle
	title  resolvedTitle
	bg     color.NRGBA

	rows    []Row
	columns []*Column
	flat    []FlatColumn
	headers []HeaderBox
	cells   []CellBox
	layout  Layout
}

// New creates a Table and renders it immediately.
func New(opts Options) *Table {
	t := &Table{opts: opts, canvas: opts.Canvas, log: opts.Logger}
	if t.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		t.log = l
	}
	if t.canvas == nil {
		t.canvas = NewRasterCanvas(0, 0, opts.FontCache)
	}
	t.style = resolveStyle(opts.Style, t.log)
	t.title = resolveTitle(opts.TextStyle, t.style, t.log)
	t.bg = colorOr(opts.BgColor, "transparent", "bgColor", t.log)
	t.rows = append([]Row(nil), opts.DataSource...)
	t.render()
	return t
}

// AppendData adds rows and re-renders the whole table. Appending nothing
// is a no-op.
func (t *Table) AppendData(rows ...Row) {
	if len(rows) == 0 {
		return
	}
	t.rows = append(t.rows, rows...)
	t.render()
}

// render runs a full pass: normalize, flatten, lay out, draw.
func (t *Table) render() {
	cols, maxDepth := normalizeColumns(t.opts.Columns, t.style.columnDefaults(), t.log)
	flat := flattenColumns(cols)
	tableWidth := 0.0
	for _, c := range cols {
		tableWidth += c.Width
	}
	titleHeight := 0.0
	if t.opts.Text != "" {
		titleHeight = t.title.lineHeight
	}
	l := computeLayout(layoutParams{
		tableWidth:       tableWidth,
		maxDepth:         maxDepth,
		rowCount:         len(t.rows),
		rowHeight:        t.style.rowHeight,
		headerRowHeight:  t.style.headerRowHeight,
		padding:          resolvePadding(t.opts.Padding),
		titleHeight:      titleHeight,
		targetWidth:      t.opts.Width,
		targetHeight:     t.opts.Height,
		devicePixelRatio: t.opts.DevicePixelRatio,
	})
	cells := resolveCells(t.rows, flat, t.style.rowHeight, t.log)

	t.columns, t.flat, t.layout, t.cells = cols, flat, l, cells
	t.headers = headerBoxes(cols)

	t.log.WithFields(logrus.Fields{
		"columns": len(flat),
		"rows":    len(t.rows),
		"cells":   len(cells),
		"width":   l.PixelWidth,
		"height":  l.PixelHeight,
		"scale":   l.Scale,
	}).Debug("Table layout resolved.")

	t.canvas.SetSize(l.PixelWidth, l.PixelHeight)
	r := &renderer{
		ctx:    t.canvas.Context(),
		style:  t.style,
		title:  t.title,
		text:   t.opts.Text,
		bg:     t.bg,
		layout: l,
	}
	r.prepare()
	r.renderHeader(t.headers)
	r.renderRows(t.cells, len(t.rows))
	r.renderTitle()
}

// Canvas returns the surface the table draws on.
func (t *Table) Canvas() Canvas { return t.canvas }

// Layout returns the dimensions of the last render.
func (t *Table) Layout() Layout { return t.layout }

// Columns returns the normalized column tree of the last render.
func (t *Table) Columns() []*Column { return t.columns }

// FlatColumns returns the leaf columns of the last render.
func (t *Table) FlatColumns() []FlatColumn { return t.flat }

// Headers returns the header rectangles of the last render.
func (t *Table) Headers() []HeaderBox { return t.headers }

// Cells returns the data cells drawn by the last render.
func (t *Table) Cells() []CellBox { return t.cells }

// Rows returns the table's data rows.
func (t *Table) Rows() []Row { return t.rows }

// ErrNoImage is returned when the canvas cannot be read back as an image.
var ErrNoImage = errors.New("canvas does not expose an image")

// Image returns the rendered image if the canvas exposes one.
func (t *Table) Image() (image.Image, error) {
	ic, ok := t.canvas.(ImageCanvas)
	if !ok {
		return nil, ErrNoImage
	}
	return ic.Image(), nil
}

// ImageFormat represents the output image format.
type ImageFormat int

const (
	ImageFormatPNG ImageFormat = iota
	ImageFormatJPEG
)

// EncodeOptions configures image encoding.
type EncodeOptions struct {
	Format ImageFormat
	// JPEGQuality is the JPEG quality (1-100). Default: 90.
	JPEGQuality int
}

// DefaultEncodeOptions returns PNG encoding options.
func DefaultEncodeOptions() *EncodeOptions {
	return &EncodeOptions{Format: ImageFormatPNG, JPEGQuality: 90}
}

// Encode writes the rendered image to w.
func (t *Table) Encode(w io.Writer, opts *EncodeOptions) error {
	img, err := t.Image()
	if err != nil {
		return err
	}
	if opts == nil {
		opts = DefaultEncodeOptions()
	}
	switch opts.Format {
	case ImageFormatJPEG:
		quality := opts.JPEGQuality
		if quality <= 0 || quality > 100 {
			quality = 90
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	default:
		return png.Encode(w, img)
	}
}

// Save renders the image to a file, creating parent directories.
func (t *Table) Save(path string, opts *EncodeOptions) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if err := t.Encode(f, opts); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
