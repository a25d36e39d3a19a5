package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	tablecanvas "github.com/VantageDataChat/GoTable"
)

const (
	formatPNG  = "png"
	formatJPEG = "jpeg"
)

type renderParams struct {
	output   string
	format   string
	quality  int
	width    float64
	height   float64
	dpr      float64
	bgColor  string
	title    string
	fontDirs []string
	strict   bool
	watch    bool
}

func newRenderParams() renderParams {
	return renderParams{format: formatPNG, quality: 90}
}

// addTableFlags registers the flags shared by commands that build a table.
func (p *renderParams) addTableFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&p.width, "width", 0, "fix the output width in logical pixels (0 keeps the definition or auto)")
	cmd.Flags().Float64Var(&p.height, "height", 0, "fix the output height in logical pixels (0 keeps the definition or auto)")
	cmd.Flags().Float64Var(&p.dpr, "dpr", 0, "device pixel ratio multiplying the output resolution")
	cmd.Flags().StringVar(&p.bgColor, "bg", "", "surface background color")
	cmd.Flags().StringVar(&p.title, "title", "", "title drawn above the table")
	cmd.Flags().StringSliceVar(&p.fontDirs, "font-dir", nil, "additional directories to search for fonts")
	cmd.Flags().BoolVar(&p.strict, "strict", false, "fail on definition problems instead of falling back to defaults")
}

func init() {
	params := newRenderParams()
	renderCommand := &cobra.Command{
		Use:   "render <definition>",
		Short: "Render a table definition to an image",
		Long: `Render a YAML or JSON table definition to a PNG or JPEG image.

The output defaults to the definition path with its extension replaced.
With --watch the definition is rendered again every time it changes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := rootLog.newLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			render := func() error {
				return renderDefinition(cmd, args[0], params, logger)
			}
			if err := render(); err != nil {
				if !params.watch {
					return err
				}
				logger.WithField("definition", args[0]).Error(err.Error())
			}
			if !params.watch {
				return nil
			}
			return watchDefinition(cmd.Context(), args[0], logger, render)
		},
	}
	params.addTableFlags(renderCommand)
	renderCommand.Flags().StringVarP(&params.output, "output", "o", "", "output image path")
	renderCommand.Flags().StringVarP(&params.format, "format", "f", params.format, "output format: png or jpeg")
	renderCommand.Flags().IntVar(&params.quality, "quality", params.quality, "JPEG quality (1-100)")
	renderCommand.Flags().BoolVarP(&params.watch, "watch", "w", false, "render again whenever the definition changes")
	rootCommand.AddCommand(renderCommand)
}

// buildTable loads the definition at path, applies flag overrides and
// renders it.
func buildTable(cmd *cobra.Command, path string, params renderParams, logger logrus.FieldLogger) (*tablecanvas.Table, error) {
	def, err := tablecanvas.LoadDefinition(path)
	if err != nil {
		return nil, err
	}
	opts := def.Options()
	flags := cmd.Flags()
	if flags.Changed("width") {
		opts.Width = params.width
	}
	if flags.Changed("height") {
		opts.Height = params.height
	}
	if flags.Changed("dpr") {
		opts.DevicePixelRatio = params.dpr
	}
	if flags.Changed("bg") {
		opts.BgColor = params.bgColor
	}
	if flags.Changed("title") {
		opts.Text = params.title
	}

	if err := opts.Validate(); err != nil {
		if params.strict {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		logger.WithField("definition", path).Warn(err.Error())
	}

	opts.FontCache = tablecanvas.NewFontCache(params.fontDirs...)
	opts.Logger = logger
	return tablecanvas.New(opts), nil
}

func renderDefinition(cmd *cobra.Command, path string, params renderParams, logger logrus.FieldLogger) error {
	enc := tablecanvas.DefaultEncodeOptions()
	switch strings.ToLower(params.format) {
	case formatPNG:
	case formatJPEG, "jpg":
		enc.Format = tablecanvas.ImageFormatJPEG
		enc.JPEGQuality = params.quality
	default:
		return fmt.Errorf("unsupported format %q: want png or jpeg", params.format)
	}

	t, err := buildTable(cmd, path, params, logger)
	if err != nil {
		return err
	}

	out := params.output
	if out == "" {
		ext := "." + formatPNG
		if enc.Format == tablecanvas.ImageFormatJPEG {
			ext = ".jpg"
		}
		out = strings.TrimSuffix(path, filepath.Ext(path)) + ext
	}
	if err := t.Save(out, enc); err != nil {
		return err
	}

	l := t.Layout()
	logger.WithFields(logrus.Fields{
		"output": out,
		"width":  l.PixelWidth,
		"height": l.PixelHeight,
		"rows":   len(t.Rows()),
	}).Info("Rendered table.")
	return nil
}
