// Package tracker implements task operations over a store.
//
// Each operation is one load, mutate, save cycle. When the mutate step
// fails nothing is saved.
package tracker

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/task-tracker/internal/store"
	"github.com/nibzard/task-tracker/internal/task"
)

// ErrNoTasks is returned by List when nothing matches.
var ErrNoTasks = errors.New("no tasks found")

// IDStrategy selects how new task IDs are assigned.
type IDStrategy string

const (
	// IDCount assigns len(list)+1. IDs can repeat after a deletion.
	IDCount IDStrategy = "count"
	// IDMax assigns the largest existing ID plus one.
	IDMax IDStrategy = "max"
)

// ParseIDStrategy validates an ID strategy name. Empty means IDCount.
func ParseIDStrategy(s string) (IDStrategy, error) {
	switch IDStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", IDCount:
		return IDCount, nil
	case IDMax:
		return IDMax, nil
	default:
		return "", fmt.Errorf("unknown id strategy %q (expected count|max)", s)
	}
}

func (s IDStrategy) next(list task.List) int {
	if s == IDMax {
		return list.MaxID() + 1
	}
	return len(list) + 1
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithIDStrategy sets the ID assignment strategy.
func WithIDStrategy(strategy IDStrategy) Option {
	return func(s *Service) {
		s.ids = strategy
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger.WithPrefix("tracker")
		}
	}
}

// Service enforces task mutation rules over a Store.
type Service struct {
	store  store.Store
	now    func() time.Time
	ids    IDStrategy
	logger *log.Logger
}

// New returns a Service backed by st.
func New(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		now:    time.Now,
		ids:    IDCount,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add appends a new todo task and returns its ID.
func (s *Service) Add(description string) (int, error) {
	if err := checkDescription(description); err != nil {
		return 0, err
	}

	var id int
	err := s.mutate(func(list *task.List) error {
		id = s.ids.next(*list)
		now := task.NewTimestamp(s.now())
		list.Append(task.Task{
			ID:          id,
			Description: description,
			Status:      task.StatusTodo,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.Debug("added task", "id", id)
	return id, nil
}

// Update replaces the description of task id.
func (s *Service) Update(id int, description string) error {
	if err := checkDescription(description); err != nil {
		return err
	}
	return s.mutate(func(list *task.List) error {
		t := list.Get(id)
		if t == nil {
			return &task.NotFoundError{ID: id}
		}
		t.Description = description
		t.Touch(task.NewTimestamp(s.now()))
		s.logger.Debug("updated task", "id", id)
		return nil
	})
}

// Delete removes task id. A missing ID is not an error.
func (s *Service) Delete(id int) error {
	return s.mutate(func(list *task.List) error {
		removed := list.Remove(id)
		s.logger.Debug("deleted task", "id", id, "removed", removed)
		return nil
	})
}

// ChangeStatus sets the status of task id. Any transition is allowed.
func (s *Service) ChangeStatus(id int, status task.Status) error {
	if !status.Valid() {
		return &task.ValidationError{Field: "status", Err: fmt.Errorf("invalid status %s", status)}
	}
	return s.mutate(func(list *task.List) error {
		t := list.Get(id)
		if t == nil {
			return &task.NotFoundError{ID: id}
		}
		t.Status = status
		t.Touch(task.NewTimestamp(s.now()))
		s.logger.Debug("changed status", "id", id, "status", status)
		return nil
	})
}

// List returns tasks whose status is one of statuses, or all tasks when
// none are given, in creation order. It returns ErrNoTasks when nothing
// matches.
func (s *Service) List(statuses ...task.Status) (iter.Seq[task.Task], error) {
	for _, st := range statuses {
		if !st.Valid() {
			return nil, &task.ValidationError{Field: "status", Err: fmt.Errorf("invalid status %s", st)}
		}
	}
	list, err := s.load()
	if err != nil {
		return nil, err
	}
	matches := list.Filter(statuses...)
	for range matches {
		return matches, nil
	}
	return nil, ErrNoTasks
}

// Snapshot returns the whole list without modifying it.
func (s *Service) Snapshot() (task.List, error) {
	return s.load()
}

func (s *Service) load() (task.List, error) {
	if err := s.store.EnsureInitialized(); err != nil {
		return nil, err
	}
	return s.store.Load()
}

func (s *Service) mutate(fn func(*task.List) error) error {
	list, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(&list); err != nil {
		return err
	}
	return s.store.Save(list)
}

func checkDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return &task.ValidationError{Field: "description", Err: errors.New("description is required")}
	}
	return nil
}
