package tablecanvas

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Definition is the serializable part of Options, read from YAML or JSON
// table definition files. Column renders can only be templates here.
type Definition struct {
	Columns          []ColumnSpec `yaml:"columns"`
	DataSource       []Row        `yaml:"dataSource"`
	Style            *TableStyle  `yaml:"style"`
	BgColor          string       `yaml:"bgColor"`
	Text             string       `yaml:"text"`
	TextStyle        *TextStyle   `yaml:"textStyle"`
	Width            Length       `yaml:"width"`
	Height           Length       `yaml:"height"`
	Padding          PaddingList  `yaml:"padding"`
	DevicePixelRatio float64      `yaml:"devicePixelRatio"`
}

// Length is a fixed size in logical units, or 0 for "auto".
type Length float64

// UnmarshalYAML accepts a number or the string "auto".
func (l *Length) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode && strings.EqualFold(strings.TrimSpace(value.Value), "auto") {
		*l = 0
		return nil
	}
	var f float64
	if err := value.Decode(&f); err != nil {
		return fmt.Errorf("line %d: size must be a number or \"auto\"", value.Line)
	}
	*l = Length(f)
	return nil
}

// PaddingList is a padding given as one number or a list of numbers.
type PaddingList []float64

// UnmarshalYAML accepts a number or a sequence of numbers.
func (p *PaddingList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var f float64
		if err := value.Decode(&f); err != nil {
			return fmt.Errorf("line %d: padding must be a number or a list of numbers", value.Line)
		}
		*p = PaddingList{f}
		return nil
	case yaml.SequenceNode:
		var fs []float64
		if err := value.Decode(&fs); err != nil {
			return fmt.Errorf("line %d: padding must be a number or a list of numbers", value.Line)
		}
		*p = fs
		return nil
	}
	return fmt.Errorf("line %d: padding must be a number or a list of numbers", value.Line)
}

// ParseDefinition decodes a YAML (or JSON) table definition.
func ParseDefinition(data []byte) (*Definition, error) {
	var d Definition
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return &d, nil
		}
		return nil, fmt.Errorf("decode definition: %w", err)
	}
	return &d, nil
}

// LoadDefinition reads a table definition file.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := ParseDefinition(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Options converts the definition into table options.
func (d *Definition) Options() Options {
	return Options{
		Columns:          d.Columns,
		DataSource:       d.DataSource,
		Style:            d.Style,
		BgColor:          d.BgColor,
		Text:             d.Text,
		TextStyle:        d.TextStyle,
		Width:            float64(d.Width),
		Height:           float64(d.Height),
		Padding:          []float64(d.Padding),
		DevicePixelRatio: d.DevicePixelRatio,
	}
}
