package game

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/tickmud/internal/storage"
)

// AreaTemplate represents a region in the game world that contains rooms.
type AreaTemplate struct {
	Name string `json:"name"`

	// Instanced areas are private copies; ambient weather is never shown in them.
	Instanced bool `json:"instanced,omitempty"`
}

// Validate satisfies storage.ValidatingSpec.
func (a *AreaTemplate) Validate() error {
	el := errors.NewErrorList()
	if a.Name == "" {
		el.Add(fmt.Errorf("area name is required"))
	}
	return el.Err()
}

// Area is the runtime instance of an area: an ordered list of rooms.
type Area struct {
	Id       storage.Identifier
	Template *AreaTemplate

	rooms []*Room
	index map[storage.Identifier]*Room
}

func NewArea(id storage.Identifier, tmpl *AreaTemplate) *Area {
	return &Area{
		Id:       id,
		Template: tmpl,
		index:    map[storage.Identifier]*Room{},
	}
}

// AddRoom appends a room to the area.
func (a *Area) AddRoom(r *Room) {
	a.rooms = append(a.rooms, r)
	a.index[r.Id] = r
}

// Rooms returns the area's rooms in load order.
func (a *Area) Rooms() []*Room {
	return a.rooms
}

func (a *Area) Room(id storage.Identifier) *Room {
	return a.index[id]
}

// IsOccupied returns true if any players are in any room of this area.
func (a *Area) IsOccupied() bool {
	for _, r := range a.rooms {
		if len(r.Players()) > 0 {
			return true
		}
	}
	return false
}
