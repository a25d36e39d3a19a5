package tablecanvas

import (
	"fmt"
	"strconv"
	"strings"
)

// CSS length conversion helpers.
// 1 inch = 96 px = 72 pt, 1 em = 16 px.

const (
	pxPerInch = 96
	ptPerInch = 72
	pxPerEm   = 16
)

// PointToPixel converts points to CSS pixels.
func PointToPixel(n float64) float64 {
	return n * pxPerInch / ptPerInch
}

// PixelToPoint converts CSS pixels to points.
func PixelToPoint(n float64) float64 {
	return n * ptPerInch / pxPerInch
}

// ParseFontSize parses a CSS font size ("14px", "10.5pt", "1.2em", "2rem"
// or a bare number of pixels) and returns it in pixels.
func ParseFontSize(s string) (float64, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	scale := 1.0
	switch {
	case strings.HasSuffix(v, "px"):
		v = strings.TrimSuffix(v, "px")
	case strings.HasSuffix(v, "pt"):
		v = strings.TrimSuffix(v, "pt")
		scale = float64(pxPerInch) / ptPerInch
	case strings.HasSuffix(v, "rem"):
		v = strings.TrimSuffix(v, "rem")
		scale = pxPerEm
	case strings.HasSuffix(v, "em"):
		v = strings.TrimSuffix(v, "em")
		scale = pxPerEm
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid font size %q", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative font size %q", s)
	}
	return n * scale, nil
}
