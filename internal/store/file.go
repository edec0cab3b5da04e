package store

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"

	"github.com/nibzard/task-tracker/internal/task"
)

// DefaultFile is the task file name used when none is configured.
const DefaultFile = "tasks.json"

// FileStore keeps the task list in a single JSON file.
type FileStore struct {
	Path   string
	logger *log.Logger
}

// NewFileStore returns a store backed by path. A nil logger discards output.
func NewFileStore(path string, logger *log.Logger) *FileStore {
	if path == "" {
		path = DefaultFile
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &FileStore{Path: path, logger: logger.WithPrefix("store")}
}

// EnsureInitialized writes an empty list if the file does not exist.
func (s *FileStore) EnsureInitialized() error {
	_, err := os.Stat(s.Path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: stat %s: %w", task.ErrIO, s.Path, err)
	}
	s.logger.Debug("creating task file", "path", s.Path)
	return s.Save(task.List{})
}

// Load reads and decodes the task file.
func (s *FileStore) Load() (task.List, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", task.ErrIO, s.Path, err)
	}
	list, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}
	s.logger.Debug("loaded tasks", "path", s.Path, "count", len(list))
	return list, nil
}

// Save overwrites the task file with list.
func (s *FileStore) Save(list task.List) error {
	data, err := Encode(list)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.Path, data, 0644); err != nil {
		return fmt.Errorf("%w: write %s: %w", task.ErrIO, s.Path, err)
	}
	s.logger.Debug("saved tasks", "path", s.Path, "count", len(list))
	return nil
}
