// Package cmd implements the task-tracker command line.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/nibzard/task-tracker/internal/config"
	"github.com/nibzard/task-tracker/internal/logging"
	"github.com/nibzard/task-tracker/internal/store"
	"github.com/nibzard/task-tracker/internal/task"
	"github.com/nibzard/task-tracker/internal/tracker"
)

// Version is set via ldflags at build time.
var Version = "dev"

// app carries what every command needs.
type app struct {
	cfg    *config.Config
	cws    *config.ConfigWithSources
	svc    *tracker.Service
	logger *log.Logger
	stdout io.Writer
	stderr io.Writer
}

// Run executes the task-tracker CLI. Command output goes to stdout and
// diagnostics to stderr. Every outcome, failures included, is printed to
// stdout; the returned error carries the same outcome for the caller.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	fs := flag.NewFlagSet("task-tracker", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return report(stdout, fmt.Errorf("loading config: %w", err))
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(stdout)
	}

	a := newApp(cws, stdout, stderr)

	remaining := fs.Args()
	if len(remaining) == 0 {
		printUsage(fs, stdout)
		return nil
	}
	command, rest := remaining[0], remaining[1:]
	a.logger.Debug("dispatching", "command", command, "args", len(rest), "file", a.cfg.TaskFile)

	switch command {
	case "add":
		err = a.addCommand(rest)
	case "update":
		err = a.updateCommand(rest)
	case "delete":
		err = a.deleteCommand(rest)
	case "mark-in-progress":
		err = a.markCommand(rest, task.StatusInProgress)
	case "mark-done":
		err = a.markCommand(rest, task.StatusDone)
	case "list":
		err = a.listCommand(rest)
	case "export":
		err = a.exportCommand(rest)
	case "tui":
		err = a.tuiCommand(ctx, rest)
	case "doctor":
		err = a.doctorCommand(rest)
	case "config":
		err = a.configCommand(rest)
	case "version":
		err = versionCommand(stdout)
	case "help":
		printUsage(fs, stdout)
	default:
		a.logger.Debug("unknown command", "command", command)
		err = &usageError{msg: "Unknown command"}
	}
	if err != nil {
		return report(stdout, err)
	}
	return nil
}

func newApp(cws *config.ConfigWithSources, stdout, stderr io.Writer) *app {
	cfg := cws.Config
	logger := logging.NewFromConfig(stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)

	// config.Validate has already rejected anything else.
	ids, err := tracker.ParseIDStrategy(cfg.IDStrategy)
	if err != nil {
		logger.Warn("falling back to count id strategy", "err", err)
		ids = tracker.IDCount
	}

	st := store.NewFileStore(cfg.TaskFile, logger)
	svc := tracker.New(st, tracker.WithIDStrategy(ids), tracker.WithLogger(logger))
	return &app{
		cfg:    cfg,
		cws:    cws,
		svc:    svc,
		logger: logger,
		stdout: stdout,
		stderr: stderr,
	}
}

// usageError is a command-line mistake reported with a fixed message.
type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

func (e *usageError) Is(target error) bool {
	return target == task.ErrValidation
}

// message converts an outcome into the line shown to the user.
func message(err error) string {
	var ue *usageError
	switch {
	case errors.As(err, &ue):
		return "Error: " + ue.msg
	case errors.Is(err, task.ErrNotFound):
		return "Task not found"
	case errors.Is(err, tracker.ErrNoTasks):
		return "No tasks found"
	default:
		return "Error: " + err.Error()
	}
}

// report prints err as a single line and returns it unchanged.
func report(w io.Writer, err error) error {
	fmt.Fprintln(w, message(err))
	return err
}

func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "task-tracker version %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Task Tracker - track what you need to do from the command line")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  task-tracker [options] <command> [arguments]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add <description>             Add a new task")
	fmt.Fprintln(w, "  update <id> <description>     Replace a task's description")
	fmt.Fprintln(w, "  delete <id>                   Delete a task")
	fmt.Fprintln(w, "  mark-in-progress <id>         Mark a task as in-progress")
	fmt.Fprintln(w, "  mark-done <id>                Mark a task as done")
	fmt.Fprintln(w, "  list [todo|in-progress|done]  List tasks, optionally by status")
	fmt.Fprintln(w, "  export [options]              Write tasks as JSON, CSV or PDF")
	fmt.Fprintln(w, "  tui                           Launch terminal viewer")
	fmt.Fprintln(w, "  doctor [-v]                   Check config and task file validity")
	fmt.Fprintln(w, "  config [-example]             Show resolved configuration")
	fmt.Fprintln(w, "  version                       Show version information")
	fmt.Fprintln(w, "  help                          Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export Options (use with 'export' command):")
	fmt.Fprintln(w, "  -format string")
	fmt.Fprintln(w, "        Output format (json|csv|pdf) (default \"json\")")
	fmt.Fprintln(w, "  -o string")
	fmt.Fprintln(w, "        Output path, - for stdout (default tasks-export.<format>)")
	fmt.Fprintln(w, "  -status string")
	fmt.Fprintln(w, "        Only export tasks with these statuses (comma-separated)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "TUI Options (use with 'tui' command):")
	fmt.Fprintln(w, "  -interval duration")
	fmt.Fprintln(w, "        Refresh interval (default 1s)")
}
