package cmd

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nibzard/task-tracker/internal/export"
	"github.com/nibzard/task-tracker/internal/task"
)

// exportCommand writes the task list as a JSON, CSV or PDF report.
func (a *app) exportCommand(args []string) error {
	fs := flag.NewFlagSet("task-tracker export", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	formatName := fs.String("format", string(export.JSON), "Output format (json|csv|pdf)")
	output := fs.String("o", "", "Output path, - for stdout")
	statusNames := fs.String("status", "", "Only export tasks with these statuses (comma-separated)")

	if err := fs.Parse(args); err != nil {
		return &usageError{msg: err.Error()}
	}
	if extra := fs.Args(); len(extra) > 0 {
		return &usageError{msg: fmt.Sprintf("unexpected arguments: %v", extra)}
	}

	format, err := export.ParseFormat(*formatName)
	if err != nil {
		return err
	}

	list, err := a.svc.Snapshot()
	if err != nil {
		return err
	}
	if *statusNames != "" {
		var statuses []task.Status
		for _, name := range splitAndTrim(*statusNames, ",") {
			status, err := parseStatus(name)
			if err != nil {
				return err
			}
			statuses = append(statuses, status)
		}
		var filtered task.List
		for t := range list.Filter(statuses...) {
			filtered = append(filtered, t)
		}
		list = filtered
	}

	data, err := export.Export(list, format)
	if err != nil {
		return err
	}

	path := *output
	if path == "-" {
		_, err := a.stdout.Write(data)
		return err
	}
	if path == "" {
		path = filepath.Join(a.cfg.WorkDir, format.DefaultPath())
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: write %s: %w", task.ErrIO, path, err)
	}
	a.logger.Debug("exported", "format", format, "path", path, "bytes", len(data))
	fmt.Fprintf(a.stdout, "Exported %d tasks to %s\n", len(list), path)
	return nil
}

// splitAndTrim splits s by sep and trims whitespace from each part.
// Empty parts are omitted from the result.
func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
