// Command dirtools reports directory sizes, prints directory trees and
// compares text files.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"

	"github.com/idelchi/dirtools/internal/cli"
)

// version is set via ldflags.
var version = "unknown"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := cli.New(version).Execute(ctx)
	if err == nil {
		return cli.ExitOK
	}

	fmt.Fprintln(os.Stderr, color.RedString("error:"), err)

	code := cli.ExitCode(err)
	if code == cli.ExitUsage {
		fmt.Fprintln(os.Stderr, `Run "dirtools --help" for usage`)
	}

	return code
}
