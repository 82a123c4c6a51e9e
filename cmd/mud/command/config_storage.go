package command

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/tickmud/internal/game"
	"github.com/pixil98/tickmud/internal/storage"
)

type StorageConfig struct {
	/* Templates */
	Areas   AssetConfig[*game.AreaTemplate]   `json:"areas"`
	Rooms   AssetConfig[*game.RoomTemplate]   `json:"rooms"`
	Mobiles AssetConfig[*game.MobileTemplate] `json:"mobiles"`
	Items   AssetConfig[*game.ItemTemplate]   `json:"items"`
	Races   AssetConfig[*game.Race]           `json:"races"`

	/* Runtime state */
	Database string `json:"database"`
}

func (c *StorageConfig) BuildDictionary() (*game.Dictionary, error) {
	areas, err := c.Areas.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating area store: %w", err)
	}
	rooms, err := c.Rooms.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating room store: %w", err)
	}
	mobiles, err := c.Mobiles.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating mobile store: %w", err)
	}
	items, err := c.Items.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating item store: %w", err)
	}
	races, err := c.Races.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating race store: %w", err)
	}

	dict := &game.Dictionary{
		Areas:   areas,
		Rooms:   rooms,
		Mobiles: mobiles,
		Items:   items,
		Races:   races,
	}

	if err := dict.Resolve(); err != nil {
		return nil, fmt.Errorf("resolving references: %w", err)
	}

	return dict, nil
}

func (c *StorageConfig) OpenDatabase() (*storage.BoltStore, error) {
	db, err := storage.OpenBolt(c.Database)
	if err != nil {
		return nil, fmt.Errorf("opening database %q: %w", c.Database, err)
	}
	return db, nil
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Areas.Validate("areas"))
	el.Add(c.Rooms.Validate("rooms"))
	el.Add(c.Mobiles.Validate("mobiles"))
	el.Add(c.Items.Validate("items"))
	el.Add(c.Races.Validate("races"))

	if c.Database == "" {
		el.Add(fmt.Errorf("database: path is required"))
	} else if _, err := os.Stat(filepath.Dir(c.Database)); err != nil {
		el.Add(fmt.Errorf("database: invalid directory for %q: %w", c.Database, err))
	}
	return el.Err()
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}
