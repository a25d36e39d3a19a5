package main

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	tablecanvas "github.com/VantageDataChat/GoTable"
)

func init() {
	versionCommand := &cobra.Command{
		Use:   "version",
		Short: "Print the version of table2png",
		Run: func(cmd *cobra.Command, _ []string) {
			generateVersionOutput(cmd.OutOrStdout())
		},
	}
	rootCommand.AddCommand(versionCommand)
}

func generateVersionOutput(out io.Writer) {
	fmt.Fprintln(out, "Version: "+tablecanvas.Version)
	fmt.Fprintln(out, "Go Version: "+runtime.Version())
}
