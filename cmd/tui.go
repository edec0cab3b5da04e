package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/nibzard/task-tracker/internal/ui"
)

// tuiCommand launches the read-only terminal viewer.
func (a *app) tuiCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("task-tracker tui", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	interval := fs.Duration("interval", time.Second, "Refresh interval")

	if err := fs.Parse(args); err != nil {
		return &usageError{msg: err.Error()}
	}
	if extra := fs.Args(); len(extra) > 0 {
		return &usageError{msg: fmt.Sprintf("unexpected arguments: %v", extra)}
	}

	return ui.RunTUI(ctx, a.svc, a.stdout,
		ui.WithTaskFile(a.cfg.TaskFile),
		ui.WithRefreshInterval(*interval),
	)
}
