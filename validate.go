package tablecanvas

import (
	"fmt"
	"math"
	"strings"
)

// Validate checks the options for structural issues and returns an error
// describing all problems found, or nil if the options are valid.
// New does not call Validate: invalid values are replaced by defaults.
func (o Options) Validate() error {
	var errs []string

	if negative(o.Width) {
		errs = append(errs, "width must not be negative")
	}
	if negative(o.Height) {
		errs = append(errs, "height must not be negative")
	}
	if negative(o.DevicePixelRatio) {
		errs = append(errs, "device pixel ratio must not be negative")
	}
	switch n := len(o.Padding); n {
	case 0, 1, 2, 3, 4:
	default:
		errs = append(errs, fmt.Sprintf("padding takes 1 to 4 values, got %d", n))
	}
	for i, p := range o.Padding {
		if negative(p) {
			errs = append(errs, fmt.Sprintf("padding %d is negative", i+1))
		}
	}
	errs = append(errs, checkColor("bgColor", o.BgColor)...)

	if s := o.Style; s != nil {
		if negative(s.HeaderRowHeight) {
			errs = append(errs, "style: headerRowHeight is negative")
		}
		if negative(s.RowHeight) {
			errs = append(errs, "style: rowHeight is negative")
		}
		if negative(s.ColumnWidth) {
			errs = append(errs, "style: columnWidth is negative")
		}
		if s.PaddingLR != nil && negative(*s.PaddingLR) {
			errs = append(errs, "style: paddingLR is negative")
		}
		errs = append(errs, checkAlign("style: textAlign", s.TextAlign)...)
		errs = append(errs, checkColor("style: borderColor", s.BorderColor)...)
		errs = append(errs, checkColor("style: color", s.Color)...)
		errs = append(errs, checkColor("style: headerBgColor", s.HeaderBgColor)...)
		errs = append(errs, checkColor("style: background", s.Background)...)
		errs = append(errs, checkFontSize("style: fontSize", s.FontSize)...)
	}
	if ts := o.TextStyle; ts != nil {
		if negative(ts.LineHeight) {
			errs = append(errs, "textStyle: lineHeight is negative")
		}
		errs = append(errs, checkAlign("textStyle: textAlign", ts.TextAlign)...)
		errs = append(errs, checkColor("textStyle: color", ts.Color)...)
		errs = append(errs, checkFontSize("textStyle: fontSize", ts.FontSize)...)
	}
	errs = append(errs, validateColumns(o.Columns, "column")...)

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(errs, "\n  "))
}

func validateColumns(specs []ColumnSpec, prefix string) []string {
	var errs []string
	for i, c := range specs {
		p := fmt.Sprintf("%s %d", prefix, i+1)
		if c.Title != "" {
			p += fmt.Sprintf(" (%s)", c.Title)
		}
		if negative(c.Width) {
			errs = append(errs, p+": width is negative")
		}
		// Group headers take the same style fields as leaves.
		errs = append(errs, checkAlign(p+": textAlign", c.TextAlign)...)
		errs = append(errs, checkColor(p+": textColor", c.TextColor)...)
		errs = append(errs, checkColor(p+": bgColor", c.BgColor)...)
		errs = append(errs, checkColor(p+": headerBgColor", c.HeaderBgColor)...)
		errs = append(errs, checkFontSize(p+": fontSize", c.FontSize)...)
		if len(c.Children) > 0 {
			if c.Width > 0 {
				errs = append(errs, p+": group width is ignored, it is the sum of its children")
			}
			if !c.Render.IsZero() {
				errs = append(errs, p+": group columns do not render data")
			}
			errs = append(errs, validateColumns(c.Children, p+" > column")...)
			continue
		}
		if c.DataIndex == "" && c.Render.IsZero() {
			errs = append(errs, p+": leaf column has neither a data index nor a render")
		}
	}
	return errs
}

func negative(v float64) bool {
	return v < 0 || math.IsNaN(v)
}

func checkColor(field, v string) []string {
	if v == "" {
		return nil
	}
	if _, err := ParseColor(v); err != nil {
		return []string{fmt.Sprintf("%s: %v", field, err)}
	}
	return nil
}

func checkAlign(field string, a TextAlign) []string {
	if a == "" || TextAlign(strings.ToLower(string(a))).valid() {
		return nil
	}
	return []string{fmt.Sprintf("%s: unknown alignment %q", field, a)}
}

func checkFontSize(field, v string) []string {
	if v == "" {
		return nil
	}
	if _, err := ParseFontSize(v); err != nil {
		return []string{fmt.Sprintf("%s: %v", field, err)}
	}
	return nil
}
