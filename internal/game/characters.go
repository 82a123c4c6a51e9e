package game

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pixil98/tickmud/internal/storage"
)

// CharacterStore persists player characters in the characters bucket,
// keyed by lowercased name.
type CharacterStore struct {
	db *storage.BoltStore
}

func NewCharacterStore(db *storage.BoltStore) *CharacterStore {
	return &CharacterStore{db: db}
}

func characterKey(name string) string {
	return strings.ToLower(name)
}

// Create allocates a new persisted id and saves a fresh level 1 character.
func (s *CharacterStore) Create(name string, home Location) (*Character, error) {
	var existing json.RawMessage
	found, err := s.db.Get(storage.BucketCharacters, characterKey(name), &existing)
	if err != nil {
		return nil, err
	}
	if found {
		return nil, fmt.Errorf("creating %q: %w", name, ErrPlayerExists)
	}

	seq, err := s.db.NextSequence(storage.BucketCharacters)
	if err != nil {
		return nil, fmt.Errorf("allocating id for %q: %w", name, err)
	}
	if CharacterId(seq) >= MobileIdBase {
		return nil, fmt.Errorf("allocating id for %q: player ids exhausted", name)
	}

	c := NewPlayer(CharacterId(seq), name, home)
	if err := s.SaveCharacter(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads a character by name.
func (s *CharacterStore) Load(name string) (*Character, error) {
	c := &Character{}
	found, err := s.db.Get(storage.BucketCharacters, characterKey(name), c)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("loading %q: %w", name, ErrPlayerNotFound)
	}
	if c.Player == nil {
		c.Player = &PlayerData{}
	}
	return c, nil
}

// SaveCharacter satisfies CharacterSaver.
func (s *CharacterStore) SaveCharacter(c *Character) error {
	data, err := c.Snapshot()
	if err != nil {
		return fmt.Errorf("encoding %q: %w", c.Name, err)
	}
	return s.WriteSnapshot(c.Name, data)
}

// WriteSnapshot stores bytes produced by Character.Snapshot.
func (s *CharacterStore) WriteSnapshot(name string, data []byte) error {
	if err := s.db.PutRaw(storage.BucketCharacters, characterKey(name), data); err != nil {
		return fmt.Errorf("saving %q: %w", name, err)
	}
	return nil
}
