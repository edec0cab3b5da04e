package store

import (
	"fmt"

	"github.com/nibzard/task-tracker/internal/task"
)

// MemoryStore holds the encoded document in memory. It goes through the
// same Encode and Decode path as FileStore.
type MemoryStore struct {
	data []byte

	// Loads and Saves count successful calls.
	Loads int
	Saves int

	// SaveErr, when set, is returned by Save instead of storing.
	SaveErr error
}

// NewMemoryStore returns a store seeded with list. A nil list leaves the
// store uninitialized.
func NewMemoryStore(list task.List) *MemoryStore {
	m := &MemoryStore{}
	if list != nil {
		m.data, _ = Encode(list)
	}
	return m
}

// NewMemoryStoreFromBytes returns a store holding a raw document.
func NewMemoryStoreFromBytes(data []byte) *MemoryStore {
	return &MemoryStore{data: data}
}

func (m *MemoryStore) EnsureInitialized() error {
	if m.data != nil {
		return nil
	}
	return m.Save(task.List{})
}

func (m *MemoryStore) Load() (task.List, error) {
	if m.data == nil {
		return nil, fmt.Errorf("%w: memory store not initialized", task.ErrIO)
	}
	list, err := Decode(m.data)
	if err != nil {
		return nil, err
	}
	m.Loads++
	return list, nil
}

func (m *MemoryStore) Save(list task.List) error {
	if m.SaveErr != nil {
		return fmt.Errorf("%w: %w", task.ErrIO, m.SaveErr)
	}
	data, err := Encode(list)
	if err != nil {
		return err
	}
	m.data = data
	m.Saves++
	return nil
}

// Bytes returns the current encoded document.
func (m *MemoryStore) Bytes() []byte {
	return m.data
}
