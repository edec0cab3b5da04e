// Package store persists the task list.
//
// Every tracker operation brackets its work with Load and Save; no handle
// is held between calls. Writes are not transactional: a crash during Save
// can leave a truncated file. Concurrent processes are not coordinated and
// may overwrite each other's changes.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/nibzard/task-tracker/internal/task"
)

// Store loads and saves the whole task list.
type Store interface {
	// EnsureInitialized creates an empty list if none exists. Idempotent.
	EnsureInitialized() error
	// Load returns the persisted list.
	Load() (task.List, error)
	// Save replaces the persisted list.
	Save(task.List) error
}

// Encode serializes a list the way it is written to disk: 4-space
// indentation and a trailing newline. A nil list encodes as [].
func Encode(list task.List) ([]byte, error) {
	if list == nil {
		list = task.List{}
	}
	data, err := json.MarshalIndent(list, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshal task list: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode validates data against the task file schema and decodes it.
// Failures are reported as task.ErrParse.
func Decode(data []byte) (task.List, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", task.ErrParse)
	}
	if err := task.CheckDocument(data); err != nil {
		return nil, fmt.Errorf("%w: %v", task.ErrParse, err)
	}
	var list task.List
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("%w: %v", task.ErrParse, err)
	}
	if list == nil {
		list = task.List{}
	}
	return list, nil
}
