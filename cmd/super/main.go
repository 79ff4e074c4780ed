package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	if err := run(context.Background(), newRootCommand()); err != nil {
		os.Exit(1)
	}
}

// run executes cmd through fang, reporting any error on the command's
// stderr as a single "Error: <message>" line.
func run(ctx context.Context, cmd *cobra.Command) error {
	return fang.Execute(ctx, cmd,
		fang.WithVersion(version),
		fang.WithErrorHandler(printError),
	)
}

func printError(w io.Writer, _ fang.Styles, err error) {
	fmt.Fprintf(w, "Error: %s\n", err)
}
