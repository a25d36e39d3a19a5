package tablecanvas

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/sirupsen/logrus"
)

// TextAlign represents horizontal text alignment inside a cell.
type TextAlign string

const (
	AlignLeft   TextAlign = "left"
	AlignCenter TextAlign = "center"
	AlignRight  TextAlign = "right"
)

func (a TextAlign) valid() bool {
	switch a {
	case AlignLeft, AlignCenter, AlignRight:
		return true
	}
	return false
}

// Default style values.
const (
	DefaultRowHeight   = 55
	DefaultColumnWidth = 150
	DefaultPaddingLR   = 8
	DefaultLineHeight  = 55
	DefaultBorderColor = "#e8e8e8"
	DefaultTextColor   = "rgba(0,0,0,0.85)"
	DefaultFontSize    = "14px"
	DefaultFontFamily  = "sans-serif"
	DefaultHeaderBg    = "rgba(0,0,0,0.02)"
	placeholderColor   = "#999"
	placeholderText    = "Empty Data!"
)

// TableStyle is a partial override of the table-wide defaults.
// Zero values mean "use the default".
type TableStyle struct {
	HeaderRowHeight float64   `yaml:"headerRowHeight"`
	RowHeight       float64   `yaml:"rowHeight"`
	ColumnWidth     float64   `yaml:"columnWidth"`
	BorderColor     string    `yaml:"borderColor"`
	TextAlign       TextAlign `yaml:"textAlign"`
	Color           string    `yaml:"color"`
	FontSize        string    `yaml:"fontSize"`
	FontFamily      string    `yaml:"fontFamily"`
	HeaderBgColor   string    `yaml:"headerBgColor"`
	// PaddingLR is a pointer because zero padding is a valid override.
	PaddingLR  *float64 `yaml:"paddingLR"`
	Background string   `yaml:"background"`
}

// TextStyle configures the optional title drawn above the table.
type TextStyle struct {
	TextAlign  TextAlign `yaml:"textAlign"`
	LineHeight float64   `yaml:"lineHeight"`
	Color      string    `yaml:"color"`
	FontSize   string    `yaml:"fontSize"`
	FontFamily string    `yaml:"fontFamily"`
}

// Font describes a resolved font: a family name and a pixel size.
type Font struct {
	Family string
	Size   float64 // in logical pixels
	Bold   bool
}

// resolvedStyle is the fully populated, immutable table style.
type resolvedStyle struct {
	headerRowHeight float64
	rowHeight       float64
	columnWidth     float64
	borderColor     color.NRGBA
	textAlign       TextAlign
	color           color.NRGBA
	font            Font
	headerBgColor   color.NRGBA
	paddingLR       float64
	background      *color.NRGBA
}

type resolvedTitle struct {
	align      TextAlign
	lineHeight float64
	color      color.NRGBA
	font       Font
}

// resolveStyle merges s over the defaults. Invalid values fall back to the
// default for that field and are reported on log.
func resolveStyle(s *TableStyle, log logrus.FieldLogger) resolvedStyle {
	if s == nil {
		s = &TableStyle{}
	}
	rs := resolvedStyle{
		rowHeight:   positiveOr(s.RowHeight, DefaultRowHeight),
		columnWidth: positiveOr(s.ColumnWidth, DefaultColumnWidth),
		borderColor: colorOr(s.BorderColor, DefaultBorderColor, "borderColor", log),
		textAlign:   alignOr(s.TextAlign, AlignLeft, "textAlign", log),
		color:       colorOr(s.Color, DefaultTextColor, "color", log),
		font: Font{
			Family: stringOr(s.FontFamily, DefaultFontFamily),
			Size:   fontSizeOr(s.FontSize, DefaultFontSize, "fontSize", log),
		},
		headerBgColor: colorOr(s.HeaderBgColor, DefaultHeaderBg, "headerBgColor", log),
		paddingLR:     DefaultPaddingLR,
	}
	// An unset header row height follows the row height.
	rs.headerRowHeight = positiveOr(s.HeaderRowHeight, rs.rowHeight)
	if s.PaddingLR != nil && *s.PaddingLR >= 0 {
		rs.paddingLR = *s.PaddingLR
	}
	if s.Background != "" {
		bg := colorOr(s.Background, "transparent", "background", log)
		rs.background = &bg
	}
	return rs
}

// resolveTitle fills the title style, inheriting color and font from the
// table style.
func resolveTitle(t *TextStyle, base resolvedStyle, log logrus.FieldLogger) resolvedTitle {
	if t == nil {
		t = &TextStyle{}
	}
	rt := resolvedTitle{
		align:      alignOr(t.TextAlign, AlignCenter, "textStyle.textAlign", log),
		lineHeight: positiveOr(t.LineHeight, DefaultLineHeight),
		color:      base.color,
		font: Font{
			Family: stringOr(t.FontFamily, base.font.Family),
			Size:   base.font.Size,
			Bold:   true,
		},
	}
	if t.Color != "" {
		if c, err := ParseColor(t.Color); err == nil {
			rt.color = c
		} else {
			log.WithField("field", "textStyle.color").Warnf("%v, using table text color", err)
		}
	}
	if t.FontSize != "" {
		rt.font.Size = fontSizeOr(t.FontSize, DefaultFontSize, "textStyle.fontSize", log)
	}
	return rt
}

func positiveOr(v, def float64) float64 {
	if v > 0 && !math.IsInf(v, 0) {
		return v
	}
	return def
}

func stringOr(v, def string) string {
	if strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func alignOr(a, def TextAlign, field string, log logrus.FieldLogger) TextAlign {
	if a == "" {
		return def
	}
	a = TextAlign(strings.ToLower(string(a)))
	if a.valid() {
		return a
	}
	log.WithField("field", field).Warnf("unknown text alignment %q, using %q", a, def)
	return def
}

func colorOr(s, def, field string, log logrus.FieldLogger) color.NRGBA {
	if s != "" {
		c, err := ParseColor(s)
		if err == nil {
			return c
		}
		log.WithField("field", field).Warnf("%v, using %q", err, def)
	}
	c, _ := ParseColor(def)
	return c
}

func fontSizeOr(s, def, field string, log logrus.FieldLogger) float64 {
	if s != "" {
		px, err := ParseFontSize(s)
		if err == nil && px > 0 {
			return px
		}
		log.WithField("field", field).Warnf("invalid font size %q, using %q", s, def)
	}
	px, _ := ParseFontSize(def)
	return px
}

// namedColors holds the CSS basic color keywords.
var namedColors = map[string]color.NRGBA{
	"black":   {0, 0, 0, 255},
	"silver":  {192, 192, 192, 255},
	"gray":    {128, 128, 128, 255},
	"grey":    {128, 128, 128, 255},
	"white":   {255, 255, 255, 255},
	"maroon":  {128, 0, 0, 255},
	"red":     {255, 0, 0, 255},
	"purple":  {128, 0, 128, 255},
	"fuchsia": {255, 0, 255, 255},
	"green":   {0, 128, 0, 255},
	"lime":    {0, 255, 0, 255},
	"olive":   {128, 128, 0, 255},
	"yellow":  {255, 255, 0, 255},
	"navy":    {0, 0, 128, 255},
	"blue":    {0, 0, 255, 255},
	"teal":    {0, 128, 128, 255},
	"aqua":    {0, 255, 255, 255},
	"orange":  {255, 165, 0, 255},
}

// ParseColor parses a CSS color: "#rgb", "#rgba", "#rrggbb", "#rrggbbaa",
// "rgb(r,g,b)", "rgba(r,g,b,a)", "hsl(h,s%,l%)", "transparent" or a basic
// color keyword.
func ParseColor(s string) (color.NRGBA, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case v == "transparent" || v == "none":
		return color.NRGBA{}, nil
	case strings.HasPrefix(v, "#"):
		return parseHexColor(v)
	case strings.HasPrefix(v, "rgb"):
		return parseRGBFunc(v)
	case strings.HasPrefix(v, "hsl"):
		return parseHSLFunc(v)
	}
	if c, ok := namedColors[v]; ok {
		return c, nil
	}
	return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
}

func parseHexColor(v string) (color.NRGBA, error) {
	alpha := uint8(255)
	switch len(v) {
	case 4, 7:
	case 5:
		a, err := strconv.ParseUint(v[4:5], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %q", v)
		}
		alpha = uint8(a * 17)
		v = v[:4]
	case 9:
		a, err := strconv.ParseUint(v[7:9], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %q", v)
		}
		alpha = uint8(a)
		v = v[:7]
	default:
		return color.NRGBA{}, fmt.Errorf("invalid color %q", v)
	}
	c, err := colorful.Hex(v)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", v, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// funcArgs splits "name(a, b, c)" or "name(a b c / d)" into its arguments.
func funcArgs(v string) ([]string, error) {
	open := strings.IndexByte(v, '(')
	if open < 0 || !strings.HasSuffix(v, ")") {
		return nil, fmt.Errorf("invalid color %q", v)
	}
	inner := v[open+1 : len(v)-1]
	return strings.FieldsFunc(inner, func(r rune) bool {
		return r == ',' || r == ' ' || r == '/'
	}), nil
}

func parseRGBFunc(v string) (color.NRGBA, error) {
	args, err := funcArgs(v)
	if err != nil {
		return color.NRGBA{}, err
	}
	if len(args) != 3 && len(args) != 4 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: want 3 or 4 components", v)
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		n, err := parseComponent(args[i], 255)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", v, err)
		}
		ch[i] = uint8(math.Round(n))
	}
	alpha := uint8(255)
	if len(args) == 4 {
		a, err := parseComponent(args[3], 1)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", v, err)
		}
		alpha = uint8(math.Round(a * 255))
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: alpha}, nil
}

func parseHSLFunc(v string) (color.NRGBA, error) {
	args, err := funcArgs(v)
	if err != nil {
		return color.NRGBA{}, err
	}
	if len(args) != 3 && len(args) != 4 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: want 3 or 4 components", v)
	}
	h, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "deg"), 64)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", v, err)
	}
	s, err := parseComponent(args[1], 1)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", v, err)
	}
	l, err := parseComponent(args[2], 1)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", v, err)
	}
	r, g, b := colorful.Hsl(math.Mod(h, 360), s, l).Clamped().RGB255()
	alpha := uint8(255)
	if len(args) == 4 {
		a, err := parseComponent(args[3], 1)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", v, err)
		}
		alpha = uint8(math.Round(a * 255))
	}
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// parseComponent parses a number or percentage and clamps it to [0, max].
func parseComponent(s string, max float64) (float64, error) {
	pct := strings.HasSuffix(s, "%")
	n, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, err
	}
	if pct {
		n = n / 100 * max
	}
	return math.Max(0, math.Min(max, n)), nil
}
