package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/tickmud/internal/game"
	"github.com/pixil98/tickmud/internal/storage"
)

type WorldConfig struct {
	HomeArea string `json:"home_area"`
	HomeRoom string `json:"home_room"`
}

func (c *WorldConfig) validate() error {
	el := errors.NewErrorList()

	if c.HomeArea == "" {
		el.Add(fmt.Errorf("home_area is required"))
	}
	if c.HomeRoom == "" {
		el.Add(fmt.Errorf("home_room is required"))
	}

	return el.Err()
}

func (c *WorldConfig) home() game.Location {
	return game.Location{Area: storage.Identifier(c.HomeArea), Room: storage.Identifier(c.HomeRoom)}
}

// buildWorld instances every area and checks that the home room exists.
func (c *WorldConfig) buildWorld(dict *game.Dictionary) (*game.World, error) {
	w, err := game.NewWorld(dict)
	if err != nil {
		return nil, fmt.Errorf("creating world: %w", err)
	}
	if w.Room(c.home()) == nil {
		return nil, fmt.Errorf("home %s: %w", c.home(), game.ErrRoomNotFound)
	}
	return w, nil
}
