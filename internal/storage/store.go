package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// Storer is a read-only view of a set of template records.
type Storer[T ValidatingSpec] interface {
	Get(Identifier) T
	GetAll() map[Identifier]T
}

// FileStore loads every *.json asset below a directory at construction time.
// Templates are immutable after load.
type FileStore[T ValidatingSpec] struct {
	path    string
	records map[Identifier]T

	mu sync.RWMutex
}

func NewFileStore[T ValidatingSpec](path string) (*FileStore[T], error) {
	s := &FileStore[T]{
		path:    path,
		records: map[Identifier]T{},
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

// NewMemoryStore builds a store from records already in memory.
func NewMemoryStore[T ValidatingSpec](records map[Identifier]T) *FileStore[T] {
	s := &FileStore[T]{records: make(map[Identifier]T, len(records))}
	for id, r := range records {
		s.records[id] = r
	}
	return s
}

func (s *FileStore[T]) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return filepath.Walk(s.path, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		asset, err := loadAsset[T](path)
		if err != nil {
			return fmt.Errorf("loading %s: %w", filepath.Base(path), err)
		}
		if err := asset.Validate(); err != nil {
			return fmt.Errorf("validating %s: %w", filepath.Base(path), err)
		}
		if _, ok := s.records[asset.Id()]; ok {
			return fmt.Errorf("duplicate key detected: %s", asset.Id())
		}

		s.records[asset.Id()] = asset.Spec
		return nil
	})
}

func (s *FileStore[T]) Get(id Identifier) T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[id]
}

func (s *FileStore[T]) GetAll() map[Identifier]T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vals := make(map[Identifier]T, len(s.records))
	for id, v := range s.records {
		vals[id] = v
	}
	return vals
}

// Ids returns every key in sorted order.
func (s *FileStore[T]) Ids() []Identifier {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]Identifier, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func loadAsset[T ValidatingSpec](path string) (*Asset[T], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	asset := &Asset[T]{}
	if err := json.Unmarshal(data, asset); err != nil {
		return nil, fmt.Errorf("unmarshalling asset: %w", err)
	}
	return asset, nil
}
