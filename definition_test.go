package tablecanvas

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleDefinition = `
columns:
  - title: name
    children:
      - {title: first, dataIndex: first}
      - {title: last, dataIndex: last}
  - title: weight
    dataIndex: weight
    render: "{c}kg"
    textAlign: right
dataSource:
  - {first: Jack, last: Smith, weight: 50}
  - {first: Tom, last: Jones, weight: 60.5}
style:
  rowHeight: 40
  paddingLR: 0
  color: "#333"
bgColor: white
text: People
textStyle:
  lineHeight: 30
width: auto
height: 400
padding: [5, 10]
devicePixelRatio: 2
`

func TestParseDefinition(t *testing.T) {
	d, err := ParseDefinition([]byte(sampleDefinition))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	opts := d.Options()
	if opts.Width != 0 || opts.Height != 400 || opts.DevicePixelRatio != 2 {
		t.Errorf("unexpected sizes %v x %v @ %v", opts.Width, opts.Height, opts.DevicePixelRatio)
	}
	if diff := cmp.Diff([]float64{5, 10}, opts.Padding); diff != "" {
		t.Errorf("padding (-want +got):\n%s", diff)
	}
	if opts.Style == nil || opts.Style.RowHeight != 40 || opts.Style.PaddingLR == nil || *opts.Style.PaddingLR != 0 {
		t.Errorf("unexpected style %+v", opts.Style)
	}
	if opts.Text != "People" || opts.TextStyle == nil || opts.TextStyle.LineHeight != 30 || opts.BgColor != "white" {
		t.Errorf("unexpected title or background: %q %+v %q", opts.Text, opts.TextStyle, opts.BgColor)
	}
	if len(opts.Columns) != 2 || len(opts.Columns[0].Children) != 2 {
		t.Fatalf("unexpected columns %+v", opts.Columns)
	}
	weight := opts.Columns[1]
	if weight.Render.IsZero() || weight.TextAlign != AlignRight {
		t.Errorf("unexpected weight column %+v", weight)
	}
	if len(opts.DataSource) != 2 || opts.DataSource[1]["weight"] != 60.5 {
		t.Errorf("unexpected data %v", opts.DataSource)
	}
	if err := opts.Validate(); err != nil {
		t.Errorf("expected a valid definition, got %v", err)
	}

	opts.Canvas = newRecordingCanvas()
	tbl := New(opts)
	var texts []string
	for _, c := range tbl.Cells() {
		texts = append(texts, c.Text)
	}
	if diff := cmp.Diff([]string{"Jack", "Smith", "50kg", "Tom", "Jones", "60.5kg"}, texts); diff != "" {
		t.Errorf("cell texts (-want +got):\n%s", diff)
	}
}

func TestParseDefinition_Padding(t *testing.T) {
	tests := []struct {
		in   string
		want PaddingList
	}{
		{"padding: 4", PaddingList{4}},
		{"padding: [1, 2, 3, 4]", PaddingList{1, 2, 3, 4}},
		{"width: 10", nil},
	}
	for _, tt := range tests {
		d, err := ParseDefinition([]byte(tt.in))
		if err != nil {
			t.Errorf("%q: %v", tt.in, err)
			continue
		}
		if diff := cmp.Diff(tt.want, d.Padding); diff != "" {
			t.Errorf("%q (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestParseDefinition_JSON(t *testing.T) {
	d, err := ParseDefinition([]byte(`{"columns": [{"title": "A", "dataIndex": "a", "width": 80}], "dataSource": [{"a": 1}], "width": "auto", "padding": 0}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(d.Columns) != 1 || d.Columns[0].Width != 80 || d.Width != 0 {
		t.Errorf("unexpected definition %+v", d)
	}
	if diff := cmp.Diff(PaddingList{0}, d.Padding); diff != "" {
		t.Errorf("padding (-want +got):\n%s", diff)
	}
}

func TestParseDefinition_Empty(t *testing.T) {
	d, err := ParseDefinition(nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(d.Columns) != 0 || d.Style != nil {
		t.Errorf("expected an empty definition, got %+v", d)
	}
}

func TestParseDefinition_Errors(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"colums: []", "field colums not found"},
		{"width: wide", `size must be a number or "auto"`},
		{"padding: {top: 1}", "padding must be a number or a list of numbers"},
		{"padding: [a]", "padding must be a number or a list of numbers"},
		{"columns: [{title: x, render: [1]}]", "render must be a template string"},
	}
	for _, tt := range tests {
		_, err := ParseDefinition([]byte(tt.in))
		if err == nil {
			t.Errorf("%q: expected an error", tt.in)
			continue
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%q: expected %q in %q", tt.in, tt.want, err)
		}
	}
}

func TestLoadDefinition(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "table.yaml")
	if err := os.WriteFile(path, []byte(sampleDefinition), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := LoadDefinition(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if d.Text != "People" {
		t.Errorf("expected title People, got %q", d.Text)
	}

	if _, err := LoadDefinition(filepath.Join(dir, "missing.yaml")); !os.IsNotExist(err) {
		t.Errorf("expected a not-exist error, got %v", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("width: [1"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadDefinition(bad); err == nil || !strings.Contains(err.Error(), bad) {
		t.Errorf("expected the path in the error, got %v", err)
	}
}
