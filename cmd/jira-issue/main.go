// Package main is the entry point for the jira-issue CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/nhle/jira-issues/internal/cli"
	"github.com/nhle/jira-issues/internal/ui/form"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := cli.NewRootCommand(version).ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, form.ErrAborted):
		return 130
	default:
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
}
