package game

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/tickmud/internal/display"
	"github.com/pixil98/tickmud/internal/storage"
)

// Terrain is the ground type of a room.
type Terrain string

const (
	TerrainInside   Terrain = "inside"
	TerrainCity     Terrain = "city"
	TerrainField    Terrain = "field"
	TerrainForest   Terrain = "forest"
	TerrainHills    Terrain = "hills"
	TerrainMountain Terrain = "mountain"
	TerrainWater    Terrain = "water"
	TerrainDesert   Terrain = "desert"
)

// Precipitation is the word used for falling weather over this terrain.
func (t Terrain) Precipitation() string {
	switch t {
	case TerrainMountain:
		return "snow"
	case TerrainDesert:
		return "sand"
	default:
		return "rain"
	}
}

// Door is the open/locked state of an exit.
type Door struct {
	Closed bool `json:"closed"`
	Locked bool `json:"locked"`
}

// Exit defines a destination for movement from a room.
type Exit struct {
	Area storage.Identifier `json:"area,omitempty"` // Optional; defaults to current area
	Room storage.Identifier `json:"room"`
	Door *Door              `json:"door,omitempty"`
}

// MobileReset is one mobile that belongs in a room, with the gear it spawns wearing.
type MobileReset struct {
	Mobile    storage.SmartIdentifier[*MobileTemplate] `json:"mobile"`
	Equipment []storage.SmartIdentifier[*ItemTemplate] `json:"equipment,omitempty"`
}

// Resets is the steady-state population of a room. List an id twice for two instances.
type Resets struct {
	Items   []storage.SmartIdentifier[*ItemTemplate] `json:"items,omitempty"`
	Mobiles []MobileReset                            `json:"mobiles,omitempty"`
}

// RoomTemplate represents a location within an area.
type RoomTemplate struct {
	Name        string                                 `json:"name"`
	Description string                                 `json:"description"`
	Area        storage.SmartIdentifier[*AreaTemplate] `json:"area"`
	Exits       map[string]Exit                        `json:"exits"` // direction -> destination
	Terrain     Terrain                                `json:"terrain,omitempty"`
	Flags       Flags                                  `json:"flags,omitempty"`
	Resets      Resets                                 `json:"resets,omitempty"`
}

// Validate satisfies storage.ValidatingSpec.
func (r *RoomTemplate) Validate() error {
	el := errors.NewErrorList()

	if r.Name == "" {
		el.Add(fmt.Errorf("room name is required"))
	}
	el.Add(r.Area.Validate())

	for dir, exit := range r.Exits {
		if exit.Room == "" {
			el.Add(fmt.Errorf("exit %s: room is required", dir))
		}
		if exit.Door != nil && exit.Door.Locked && !exit.Door.Closed {
			el.Add(fmt.Errorf("exit %s: a locked door must be closed", dir))
		}
	}
	for i, it := range r.Resets.Items {
		if err := it.Validate(); err != nil {
			el.Add(fmt.Errorf("item reset %d: %w", i, err))
		}
	}
	for i, m := range r.Resets.Mobiles {
		if err := m.Mobile.Validate(); err != nil {
			el.Add(fmt.Errorf("mobile reset %d: %w", i, err))
		}
	}

	return el.Err()
}

// Resolve resolves foreign keys from the dictionary.
func (r *RoomTemplate) Resolve(dict *Dictionary) error {
	el := errors.NewErrorList()
	el.Add(r.Area.Resolve(dict.Areas))
	for i := range r.Resets.Items {
		el.Add(r.Resets.Items[i].Resolve(dict.Items))
	}
	for i := range r.Resets.Mobiles {
		mr := &r.Resets.Mobiles[i]
		el.Add(mr.Mobile.Resolve(dict.Mobiles))
		for j := range mr.Equipment {
			el.Add(mr.Equipment[j].Resolve(dict.Items))
		}
	}
	return el.Err()
}

// Room is the runtime instance of a RoomTemplate. Its item and occupant
// lists are replaced rather than edited in place, so a slice handed out by
// Items or Occupants stays valid while the room changes.
type Room struct {
	Id       storage.Identifier
	Area     storage.Identifier
	Template *RoomTemplate

	// Exits are copied from the template so doors can be opened at runtime.
	Exits map[string]*Exit

	items     []*Item
	occupants []*Character
}

func NewRoom(id storage.Identifier, tmpl *RoomTemplate) *Room {
	r := &Room{
		Id:       id,
		Area:     tmpl.Area.Id(),
		Template: tmpl,
		Exits:    make(map[string]*Exit, len(tmpl.Exits)),
	}
	for dir, e := range tmpl.Exits {
		exit := e
		if exit.Area == "" {
			exit.Area = r.Area
		}
		if e.Door != nil {
			door := *e.Door
			exit.Door = &door
		}
		r.Exits[dir] = &exit
	}
	return r
}

func (r *Room) Location() Location {
	return Location{Area: r.Area, Room: r.Id}
}

func (r *Room) HasFlag(f Flag) bool {
	return r.Template.Flags.Has(f)
}

// ExitDirections returns the room's exit names in sorted order.
func (r *Room) ExitDirections() []string {
	dirs := make([]string, 0, len(r.Exits))
	for dir := range r.Exits {
		dirs = append(dirs, dir)
	}
	slices.Sort(dirs)
	return dirs
}

func (r *Room) Items() []*Item {
	return r.items
}

func (r *Room) AddItem(it *Item) {
	r.items = append(r.items[:len(r.items):len(r.items)], it)
}

// RemoveItem takes the item with instanceId off the floor.
func (r *Room) RemoveItem(instanceId string) *Item {
	var it *Item
	r.items, it = RemoveItem(r.items, instanceId)
	return it
}

// Occupants returns every character in the room.
func (r *Room) Occupants() []*Character {
	return r.occupants
}

// Mobiles returns the NPCs in the room.
func (r *Room) Mobiles() []*Character {
	return r.filter(func(c *Character) bool { return c.IsNPC() })
}

// Players returns the player characters in the room.
func (r *Room) Players() []*Character {
	return r.filter(func(c *Character) bool { return !c.IsNPC() })
}

func (r *Room) filter(keep func(*Character) bool) []*Character {
	var out []*Character
	for _, c := range r.occupants {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func (r *Room) addOccupant(c *Character) {
	r.occupants = append(r.occupants[:len(r.occupants):len(r.occupants)], c)
}

func (r *Room) removeOccupant(id CharacterId) bool {
	i := slices.IndexFunc(r.occupants, func(c *Character) bool { return c.Id == id })
	if i < 0 {
		return false
	}
	r.occupants = append(r.occupants[:i:i], r.occupants[i+1:]...)
	return true
}

// FindOccupant returns the first occupant matching name, skipping exclude.
func (r *Room) FindOccupant(name string, exclude CharacterId) *Character {
	for _, c := range r.occupants {
		if c.Id != exclude && c.MatchName(name) {
			return c
		}
	}
	return nil
}

// CountItems returns how many floor items were spawned from tmpl.
func (r *Room) CountItems(tmpl storage.Identifier) int {
	n := 0
	for _, it := range r.items {
		if it.TemplateId == tmpl {
			n++
		}
	}
	return n
}

// CountMobiles returns how many mobiles were spawned from tmpl.
func (r *Room) CountMobiles(tmpl storage.Identifier) int {
	n := 0
	for _, c := range r.occupants {
		if c.IsNPC() && c.Mobile.Template == tmpl {
			n++
		}
	}
	return n
}

// Describe renders the room the way viewer sees it on arrival.
func (r *Room) Describe(viewer CharacterId) string {
	var sb strings.Builder
	sb.WriteString(r.Template.Name)
	sb.WriteString("\n")
	if r.Template.Description != "" {
		sb.WriteString(display.Wrap(r.Template.Description))
		sb.WriteString("\n")
	}

	dirs := r.ExitDirections()
	if len(dirs) == 0 {
		sb.WriteString("[ Exits: none ]\n")
	} else {
		fmt.Fprintf(&sb, "[ Exits: %s ]\n", strings.Join(dirs, " "))
	}

	for _, it := range r.items {
		if it.LongDesc != "" {
			sb.WriteString(display.Capitalize(it.LongDesc))
		} else {
			fmt.Fprintf(&sb, "%s is here.", display.Capitalize(it.ShortDesc))
		}
		sb.WriteString("\n")
	}
	for _, c := range r.occupants {
		if c.Id == viewer {
			continue
		}
		if c.IsNPC() && c.LongDesc != "" {
			sb.WriteString(display.Capitalize(c.LongDesc))
		} else {
			fmt.Fprintf(&sb, "%s is here.", display.Capitalize(c.DisplayName()))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
