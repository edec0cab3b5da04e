package task

import (
	"fmt"
	"iter"
	"slices"
)

// Status represents a task status.
type Status uint8

const (
	StatusTodo Status = iota + 1
	StatusInProgress
	StatusDone
)

var statusNames = map[Status]string{
	StatusTodo:       "todo",
	StatusInProgress: "in-progress",
	StatusDone:       "done",
}

// Statuses returns every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

// ParseStatus converts the external name of a status into a Status.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses() {
		if statusNames[st] == s {
			return st, nil
		}
	}
	return 0, &ValidationError{
		Field: "status",
		Err:   fmt.Errorf("invalid status %q, must be one of: todo, in-progress, done", s),
	}
}

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("cannot encode %s", s)
	}
	return []byte(statusNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	for _, st := range Statuses() {
		if statusNames[st] == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// Task represents a single tracked task.
type Task struct {
	ID          int       `json:"id"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   Timestamp `json:"createdAt"`
	UpdatedAt   Timestamp `json:"updatedAt"`
}

// IsZero returns true if the task has never been assigned an ID.
func (t *Task) IsZero() bool {
	return t.ID == 0
}

// Touch sets UpdatedAt to now, never earlier than CreatedAt.
func (t *Task) Touch(now Timestamp) {
	if now.Before(t.CreatedAt.Time) {
		now = t.CreatedAt
	}
	t.UpdatedAt = now
}

// List is the ordered task collection. Order is creation order.
type List []Task

// Get returns a pointer to the first task with id, or nil if none matches.
// The pointer aliases the list element.
func (l List) Get(id int) *Task {
	for i := range l {
		if l[i].ID == id {
			return &l[i]
		}
	}
	return nil
}

// Append adds t to the end of the list.
func (l *List) Append(t Task) {
	*l = append(*l, t)
}

// Remove deletes every task with id and reports whether any was removed.
func (l *List) Remove(id int) bool {
	before := len(*l)
	*l = slices.DeleteFunc(*l, func(t Task) bool { return t.ID == id })
	return len(*l) != before
}

// MaxID returns the largest ID in the list, or 0 when empty.
func (l List) MaxID() int {
	max := 0
	for _, t := range l {
		if t.ID > max {
			max = t.ID
		}
	}
	return max
}

// DuplicateIDs returns IDs that appear more than once, in first-seen order.
func (l List) DuplicateIDs() []int {
	seen := make(map[int]int, len(l))
	var dups []int
	for _, t := range l {
		seen[t.ID]++
		if seen[t.ID] == 2 {
			dups = append(dups, t.ID)
		}
	}
	return dups
}

// Filter yields tasks whose status is one of statuses, in list order.
// With no statuses every task is yielded.
func (l List) Filter(statuses ...Status) iter.Seq[Task] {
	return func(yield func(Task) bool) {
		for _, t := range l {
			if len(statuses) > 0 && !slices.Contains(statuses, t.Status) {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// Counts returns the number of tasks per status.
func (l List) Counts() map[Status]int {
	counts := make(map[Status]int, len(statusNames))
	for _, st := range Statuses() {
		counts[st] = 0
	}
	for _, t := range l {
		counts[t.Status]++
	}
	return counts
}
