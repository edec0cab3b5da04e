package cmd

import (
	"flag"
	"fmt"
	"strconv"

	"github.com/nibzard/task-tracker/internal/config"
)

// configCommand prints the resolved configuration and where each value came
// from, or an example config file with -example.
func (a *app) configCommand(args []string) error {
	fs := flag.NewFlagSet("task-tracker config", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	example := fs.Bool("example", false, "Print an example config file")

	if err := fs.Parse(args); err != nil {
		return &usageError{msg: err.Error()}
	}
	if extra := fs.Args(); len(extra) > 0 {
		return &usageError{msg: fmt.Sprintf("unexpected arguments: %v", extra)}
	}

	if *example {
		fmt.Fprint(a.stdout, config.ExampleConfig())
		return nil
	}

	cfg, sources := a.cfg, a.cws.Sources
	rows := []struct {
		key   string
		value string
	}{
		{"task_file", strconv.Quote(cfg.TaskFile)},
		{"schema_file", strconv.Quote(cfg.SchemaFile)},
		{"id_strategy", strconv.Quote(cfg.IDStrategy)},
		{"log_level", strconv.Quote(cfg.LogLevel)},
		{"log_format", strconv.Quote(cfg.LogFormat)},
		{"log_timestamps", strconv.FormatBool(cfg.LogTimestamps)},
		{"log_caller", strconv.FormatBool(cfg.LogCaller)},
	}
	for _, r := range rows {
		fmt.Fprintf(a.stdout, "%s = %s # %s\n", r.key, r.value, sources[r.key])
	}
	for _, f := range a.cws.Files {
		fmt.Fprintf(a.stdout, "# read %s\n", f)
	}
	return nil
}
