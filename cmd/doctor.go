package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/nibzard/task-tracker/internal/store"
	"github.com/nibzard/task-tracker/internal/task"
)

var errDoctorFailed = errors.New("doctor checks failed")

// doctorCommand checks the configuration and the task file without
// modifying anything.
func (a *app) doctorCommand(args []string) error {
	fs := flag.NewFlagSet("task-tracker doctor", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	verbose := fs.Bool("v", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return &usageError{msg: err.Error()}
	}
	remaining := fs.Args()
	if len(remaining) > 1 {
		return &usageError{msg: fmt.Sprintf("unexpected arguments: %v", remaining[1:])}
	}
	taskPath := a.cfg.TaskFile
	if len(remaining) == 1 {
		taskPath = remaining[0]
	}

	w := a.stdout
	fmt.Fprintln(w, "Task Tracker Doctor")
	fmt.Fprintln(w, "===================")
	fmt.Fprintln(w)

	allOK := true

	fmt.Fprintln(w, "Config:")
	if len(a.cws.Files) == 0 {
		fmt.Fprintln(w, "  ✅ Files: none (using defaults)")
	}
	for _, f := range a.cws.Files {
		fmt.Fprintf(w, "  ✅ File: %s\n", f)
	}
	fmt.Fprintf(w, "  ✅ ID strategy: %s\n", a.cfg.IDStrategy)
	if *verbose {
		fmt.Fprintf(w, "  Log level: %s (%s)\n", a.cfg.LogLevel, a.cws.Sources["log_level"])
		fmt.Fprintf(w, "  Log format: %s (%s)\n", a.cfg.LogFormat, a.cws.Sources["log_format"])
	}
	fmt.Fprintln(w)

	schemaPath := a.cfg.SchemaFile
	if schemaPath != "" {
		fmt.Fprintf(w, "Schema file: %s\n", schemaPath)
		if info, err := os.Stat(schemaPath); err != nil {
			if os.IsNotExist(err) {
				fmt.Fprintln(w, "  ⚠️  Not found (embedded schema will be used)")
			} else {
				fmt.Fprintf(w, "  ❌ Error: %v\n", err)
				allOK = false
			}
		} else if info.IsDir() {
			fmt.Fprintln(w, "  ❌ Error: path is a directory")
			allOK = false
		} else {
			fmt.Fprintln(w, "  ✅ OK")
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Task file: %s\n", taskPath)
	info, err := os.Stat(taskPath)
	switch {
	case err != nil && os.IsNotExist(err):
		fmt.Fprintln(w, "  ⚠️  Not found (will be created by the first command)")
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	case info.IsDir():
		fmt.Fprintln(w, "  ❌ Error: path is a directory")
		allOK = false
	default:
		fmt.Fprintln(w, "  ✅ OK")
		if !a.checkTaskFile(taskPath, schemaPath, *verbose) {
			allOK = false
		}
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed. Task Tracker may not function correctly.")
	return errDoctorFailed
}

func (a *app) checkTaskFile(path, schemaPath string, verbose bool) bool {
	w := a.stdout
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Read error: %v\n", err)
		return false
	}

	result := task.Validate(data, task.ValidationOptions{SchemaPath: schemaPath})
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "  ⚠️  %s\n", warning)
	}
	if !result.Valid {
		fmt.Fprintf(w, "  ❌ Validation failed (%s schema):\n", result.Schema)
		for _, e := range result.Errors {
			fmt.Fprintf(w, "     - %v\n", e)
		}
		return false
	}
	fmt.Fprintf(w, "  ✅ Valid (%s schema)\n", result.Schema)

	if verbose {
		fmt.Fprintf(w, "  Tasks: %d\n", result.Tasks)
		if list, err := store.Decode(data); err == nil {
			for _, t := range list {
				fmt.Fprintf(w, "    - [%s] %d: %s\n", t.Status, t.ID, t.Description)
			}
		}
	}
	return true
}
