package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	tablecanvas "github.com/VantageDataChat/GoTable"
)

// maxTextWidth is the display width cell text is truncated to.
const maxTextWidth = 32

func init() {
	params := newRenderParams()
	layoutCommand := &cobra.Command{
		Use:   "layout <definition>",
		Short: "Print the resolved geometry of a table definition",
		Long: `Print the table size, the scale and every header and data cell
rectangle (in logical units) of a table definition, without writing an image.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := rootLog.newLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			t, err := buildTable(cmd, args[0], params, logger)
			if err != nil {
				return err
			}
			printLayout(cmd.OutOrStdout(), t)
			return nil
		},
	}
	params.addTableFlags(layoutCommand)
	rootCommand.AddCommand(layoutCommand)
}

func printLayout(out io.Writer, t *tablecanvas.Table) {
	l := t.Layout()
	fmt.Fprintf(out, "Table: %sx%s (header %s, depth %d)\n", num(l.TableWidth), num(l.TableHeight), num(l.HeadHeight), l.MaxDepth)
	fmt.Fprintf(out, "Canvas: %dx%d px (scale %s, device pixel ratio %s)\n", l.PixelWidth, l.PixelHeight, num(l.Scale), num(l.DevicePixelRatio))

	headers := tablewriter.NewWriter(out)
	headers.SetHeader([]string{"Header", "X", "Y", "W", "H", "Colspan", "Rowspan"})
	headers.SetAutoFormatHeaders(false)
	for _, h := range t.Headers() {
		headers.Append([]string{
			truncate(h.Column.Title),
			num(h.X), num(h.Y), num(h.Width), num(h.Height),
			strconv.Itoa(h.ColSpan), strconv.Itoa(h.RowSpan),
		})
	}
	headers.Render()

	cells := tablewriter.NewWriter(out)
	cells.SetHeader([]string{"Row", "Col", "X", "Y", "W", "H", "Span", "Text"})
	cells.SetAutoFormatHeaders(false)
	for _, c := range t.Cells() {
		cells.Append([]string{
			strconv.Itoa(c.Row), strconv.Itoa(c.Col),
			num(c.X), num(c.Y), num(c.Width), num(c.Height),
			fmt.Sprintf("%dx%d", c.RowSpan, c.ColSpan),
			truncate(c.Text),
		})
	}
	cells.Render()
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func truncate(s string) string {
	return runewidth.Truncate(s, maxTextWidth, "…")
}
