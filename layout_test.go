package tablecanvas

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolvePadding(t *testing.T) {
	tests := []struct {
		in   []float64
		want Padding
	}{
		{nil, Padding{10, 10, 10, 10}},
		{[]float64{5}, Padding{5, 5, 5, 5}},
		{[]float64{5, 20}, Padding{5, 20, 5, 20}},
		{[]float64{1, 2, 3}, Padding{1, 2, 3, 1}},
		{[]float64{1, 2, 3, 4}, Padding{1, 2, 3, 4}},
		{[]float64{0}, Padding{}},
	}
	for _, tt := range tests {
		if got := resolvePadding(tt.in); got != tt.want {
			t.Errorf("resolvePadding(%v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func baseParams(rows int) layoutParams {
	return layoutParams{
		tableWidth:      450,
		maxDepth:        1,
		rowCount:        rows,
		rowHeight:       DefaultRowHeight,
		headerRowHeight: DefaultRowHeight,
		padding:         defaultPadding,
	}
}

func TestComputeLayout_Auto(t *testing.T) {
	got := computeLayout(baseParams(4))
	want := Layout{
		TableWidth:       450,
		TableHeight:      275,
		HeadHeight:       55,
		MaxDepth:         1,
		Width:            470,
		Height:           295,
		Padding:          defaultPadding,
		Scale:            1,
		DevicePixelRatio: 1,
		PixelWidth:       470,
		PixelHeight:      295,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("layout (-want +got):\n%s", diff)
	}
}

func TestComputeLayout_ReservesTwoRows(t *testing.T) {
	for _, rows := range []int{0, 1, 2} {
		l := computeLayout(baseParams(rows))
		if l.TableHeight != 2*DefaultRowHeight+DefaultRowHeight {
			t.Errorf("%d rows: expected table height 165, got %v", rows, l.TableHeight)
		}
	}
	if l := computeLayout(baseParams(3)); l.TableHeight != 220 {
		t.Errorf("3 rows: expected table height 220, got %v", l.TableHeight)
	}
}

func TestComputeLayout_FixedSize(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
		scale         float64
		px, py        int
	}{
		{"width", 235, 0, 0.5, 235, 147},
		{"height", 0, 590, 2, 940, 590},
		{"both, width binds", 235, 590, 0.5, 235, 147},
		{"both, height binds", 940, 295, 1, 470, 295},
		{"both, larger box", 1000, 1000, 1000.0 / 470, 1000, 627},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := baseParams(4)
			p.targetWidth, p.targetHeight = tt.width, tt.height
			l := computeLayout(p)
			if math.Abs(l.Scale-tt.scale) > 1e-12 {
				t.Errorf("expected scale %v, got %v", tt.scale, l.Scale)
			}
			if l.PixelWidth != tt.px || l.PixelHeight != tt.py {
				t.Errorf("expected %dx%d px, got %dx%d", tt.px, tt.py, l.PixelWidth, l.PixelHeight)
			}
			if tt.width > 0 && float64(l.PixelWidth) > tt.width {
				t.Errorf("width %d overflows target %v", l.PixelWidth, tt.width)
			}
			if tt.height > 0 && float64(l.PixelHeight) > tt.height {
				t.Errorf("height %d overflows target %v", l.PixelHeight, tt.height)
			}
			// Uniform scale keeps the aspect ratio.
			if got := l.Width * l.Scale / (l.Height * l.Scale); math.Abs(got-470.0/295) > 1e-12 {
				t.Errorf("aspect ratio changed: %v", got)
			}
		})
	}
}

func TestComputeLayout_DevicePixelRatio(t *testing.T) {
	p := baseParams(4)
	p.devicePixelRatio = 2
	l := computeLayout(p)
	if l.Scale != 1 || l.Transform() != 2 {
		t.Errorf("expected scale 1 and transform 2, got %v and %v", l.Scale, l.Transform())
	}
	if l.PixelWidth != 940 || l.PixelHeight != 590 {
		t.Errorf("expected 940x590 px, got %dx%d", l.PixelWidth, l.PixelHeight)
	}

	p.targetWidth = 235
	l = computeLayout(p)
	if l.Transform() != 1 || l.PixelWidth != 470 {
		t.Errorf("expected transform 1 and 470 px, got %v and %d", l.Transform(), l.PixelWidth)
	}

	p.devicePixelRatio = -3
	if l := computeLayout(p); l.DevicePixelRatio != 1 {
		t.Errorf("expected non-positive ratio to default to 1, got %v", l.DevicePixelRatio)
	}
}

func TestComputeLayout_Title(t *testing.T) {
	p := baseParams(4)
	p.titleHeight = DefaultLineHeight
	l := computeLayout(p)
	if l.Padding.Top != 65 || l.Padding.Bottom != 10 {
		t.Errorf("expected title to extend top padding only, got %+v", l.Padding)
	}
	if l.Height != 350 || l.PixelHeight != 350 {
		t.Errorf("expected height 350, got %v (%d px)", l.Height, l.PixelHeight)
	}
}

func TestComputeLayout_Degenerate(t *testing.T) {
	p := layoutParams{padding: Padding{}, targetWidth: 100, targetHeight: 100}
	l := computeLayout(p)
	if l.Scale != 1 {
		t.Errorf("expected scale 1 for an empty table, got %v", l.Scale)
	}
	if l.PixelWidth != 0 || l.PixelHeight != 0 {
		t.Errorf("expected an empty canvas, got %dx%d", l.PixelWidth, l.PixelHeight)
	}
}

func TestPixels(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{-4, 0},
		{147.5, 147},
		{589.9999999999999, 590},
		{0.29 * 100, 29},
	}
	for _, tt := range tests {
		if got := pixels(tt.in); got != tt.want {
			t.Errorf("pixels(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
