package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"

	"github.com/spf13/cobra"
)

// rootCommand is the base command all subcommands are added to.
var rootCommand = &cobra.Command{
	Use:           path.Base(os.Args[0]),
	Short:         "Render tables to images",
	Long:          "Render a table definition (columns, rows, style) to a PNG or JPEG image.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return cmdFlags.CheckEnvironmentVariables(cmd)
	},
}

var rootLog = newLogParams()

func init() {
	rootLog.addFlags(rootCommand)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run executes the command line; an interrupt cancels the context, which
// ends a --watch loop.
func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCommand.ExecuteContext(ctx)
}
