package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nibzard/task-tracker/internal/task"
)

var errInvalidStatus = &usageError{msg: "Invalid status. Use 'todo', 'in-progress', or 'done'"}

func (a *app) addCommand(args []string) error {
	missing := &usageError{msg: "Missing task description"}
	if len(args) == 0 {
		return missing
	}
	id, err := a.svc.Add(strings.Join(args, " "))
	if err != nil {
		if errors.Is(err, task.ErrValidation) {
			return missing
		}
		return err
	}
	fmt.Fprintf(a.stdout, "Task added successfully (ID: %d)\n", id)
	return nil
}

func (a *app) updateCommand(args []string) error {
	missing := &usageError{msg: "Missing task ID or new description"}
	if len(args) < 2 {
		return missing
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := a.svc.Update(id, strings.Join(args[1:], " ")); err != nil {
		if errors.Is(err, task.ErrValidation) {
			return missing
		}
		return err
	}
	fmt.Fprintf(a.stdout, "Task %d updated successfully\n", id)
	return nil
}

func (a *app) deleteCommand(args []string) error {
	if len(args) == 0 {
		return &usageError{msg: "Missing task ID"}
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := a.svc.Delete(id); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Task %d deleted successfully\n", id)
	return nil
}

func (a *app) markCommand(args []string, status task.Status) error {
	if len(args) == 0 {
		return &usageError{msg: "Missing task ID"}
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := a.svc.ChangeStatus(id, status); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Task %d marked as %s\n", id, status)
	return nil
}

func (a *app) listCommand(args []string) error {
	var statuses []task.Status
	if len(args) > 0 {
		status, err := parseStatus(args[0])
		if err != nil {
			return err
		}
		statuses = append(statuses, status)
	}

	tasks, err := a.svc.List(statuses...)
	if err != nil {
		return err
	}
	for t := range tasks {
		fmt.Fprintf(a.stdout, "[%d] %s - %s (Created: %s)\n", t.ID, t.Description, t.Status, t.CreatedAt)
	}
	return nil
}

// parseID parses a task ID argument. Surrounding whitespace and a leading
// sign are accepted.
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, &usageError{msg: "Invalid task ID: " + arg}
	}
	return id, nil
}

// parseStatus accepts only the exact status names.
func parseStatus(arg string) (task.Status, error) {
	status, err := task.ParseStatus(arg)
	if err != nil {
		return 0, errInvalidStatus
	}
	return status, nil
}
