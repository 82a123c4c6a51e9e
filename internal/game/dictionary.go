package game

import (
	"fmt"

	"github.com/pixil98/tickmud/internal/storage"
)

// Dictionary holds all game definition stores. It provides a single
// reference that can be passed to resolution methods so they all
// share the same signature. Templates are immutable once resolved.
type Dictionary struct {
	Areas   storage.Storer[*AreaTemplate]
	Rooms   storage.Storer[*RoomTemplate]
	Mobiles storage.Storer[*MobileTemplate]
	Items   storage.Storer[*ItemTemplate]
	Races   storage.Storer[*Race]
}

// Resolve resolves all foreign key references between templates.
// Characters are resolved at login time instead.
func (d *Dictionary) Resolve() error {
	for id, mob := range d.Mobiles.GetAll() {
		if err := mob.Resolve(d); err != nil {
			return fmt.Errorf("mobile %s: %w", id, err)
		}
	}

	for id, room := range d.Rooms.GetAll() {
		if err := room.Resolve(d); err != nil {
			return fmt.Errorf("room %s: %w", id, err)
		}
	}
	return nil
}

// ExpPenalty returns the experience penalty of the character's race, 0 for
// mobiles and unknown races.
func (d *Dictionary) ExpPenalty(c *Character) int {
	if c.Player == nil || c.Player.Race == "" || d.Races == nil {
		return 0
	}
	if r := d.Races.Get(c.Player.Race); r != nil {
		return r.ExpPenalty
	}
	return 0
}
