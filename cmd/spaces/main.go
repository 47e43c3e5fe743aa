// Command spaces renders, inspects and interactively resizes edge-anchored
// layouts.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/BenJenkinson/react-spaces/internal/cli"
	spaceserrors "github.com/BenJenkinson/react-spaces/pkg/errors"
)

// Exit codes.
const (
	exitError       = 1
	exitBadLayout   = 2   // the layout or the flags describing a drag are wrong
	exitInterrupted = 130 // SIGINT, as shells report it
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := run(ctx, os.Args[1:])
	if err == nil {
		return
	}
	code := exitCode(err)
	if code != exitInterrupted {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(code)
}

func run(ctx context.Context, args []string) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	loadConfig := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if loadConfig == nil {
			return nil
		}
		return loadConfig(cmd, args)
	}

	return root.ExecuteContext(ctx)
}

// exitCode maps err to the process exit status. Errors in the layout
// document or in the drag flags exit with 2 so scripts can tell them from
// render or cache failures.
func exitCode(err error) int {
	if errors.Is(err, context.Canceled) {
		return exitInterrupted
	}
	switch spaceserrors.GetCode(err) {
	case spaceserrors.ErrCodeInvalidInput,
		spaceserrors.ErrCodeInvalidLayout,
		spaceserrors.ErrCodeInvalidSize,
		spaceserrors.ErrCodeInvalidType,
		spaceserrors.ErrCodeInvalidAnchor,
		spaceserrors.ErrCodeInvalidFormat,
		spaceserrors.ErrCodeDuplicateID,
		spaceserrors.ErrCodeSpaceNotFound:
		return exitBadLayout
	}
	return exitError
}
