package game

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/pixil98/tickmud/internal/storage"
)

// World is the single source of truth for all mutable game state.
//
// One coarse lock guards everything reachable from it. Tick processing and
// command handlers take the lock with Do; every other method assumes the
// caller already holds it.
type World struct {
	mu sync.Mutex

	dict      *Dictionary
	areas     map[storage.Identifier]*Area
	areaOrder []storage.Identifier
	chars     map[CharacterId]*Character
	groups    map[string]*Group

	nextMobileId CharacterId

	// Time is the in-game calendar.
	Time Calendar
}

// NewWorld creates area and room instances for every template in dict.
// Rooms within an area are ordered by id so iteration is stable.
func NewWorld(dict *Dictionary) (*World, error) {
	w := &World{
		dict:         dict,
		areas:        map[storage.Identifier]*Area{},
		chars:        map[CharacterId]*Character{},
		groups:       map[string]*Group{},
		nextMobileId: MobileIdBase,
		Time:         NewCalendar(),
	}

	for id, tmpl := range dict.Areas.GetAll() {
		w.areas[id] = NewArea(id, tmpl)
		w.areaOrder = append(w.areaOrder, id)
	}
	slices.Sort(w.areaOrder)

	rooms := dict.Rooms.GetAll()
	roomIds := make([]storage.Identifier, 0, len(rooms))
	for id := range rooms {
		roomIds = append(roomIds, id)
	}
	slices.Sort(roomIds)

	for _, id := range roomIds {
		tmpl := rooms[id]
		area, ok := w.areas[tmpl.Area.Id()]
		if !ok {
			return nil, fmt.Errorf("room %q: area %q: %w", id, tmpl.Area.Id(), ErrRoomNotFound)
		}
		area.AddRoom(NewRoom(id, tmpl))
	}

	return w, nil
}

// Do runs fn while holding the world lock.
func (w *World) Do(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn()
}

func (w *World) Dictionary() *Dictionary {
	return w.dict
}

// Areas returns every area ordered by id.
func (w *World) Areas() []*Area {
	areas := make([]*Area, 0, len(w.areaOrder))
	for _, id := range w.areaOrder {
		areas = append(areas, w.areas[id])
	}
	return areas
}

func (w *World) Area(id storage.Identifier) *Area {
	return w.areas[id]
}

// Room resolves a location. Returns nil if it does not exist.
func (w *World) Room(loc Location) *Room {
	a := w.areas[loc.Area]
	if a == nil {
		return nil
	}
	return a.Room(loc.Room)
}

// Character returns the character with id, or nil.
func (w *World) Character(id CharacterId) *Character {
	return w.chars[id]
}

// Contains reports whether c is the live instance registered under its id.
func (w *World) Contains(c *Character) bool {
	return c != nil && w.chars[c.Id] == c
}

// FindCharacter resolves a name to a character, preferring players over mobiles.
func (w *World) FindCharacter(name string) *Character {
	for _, c := range w.Players() {
		if c.MatchName(name) {
			return c
		}
	}
	return w.FindMobile(name)
}

// FindMobile resolves a name to the lowest-id matching mobile.
func (w *World) FindMobile(name string) *Character {
	var found *Character
	for _, c := range w.chars {
		if c.IsNPC() && c.MatchName(name) && (found == nil || c.Id < found.Id) {
			found = c
		}
	}
	return found
}

// MobilesInRoom returns the NPCs at loc.
func (w *World) MobilesInRoom(loc Location) []*Character {
	if r := w.Room(loc); r != nil {
		return r.Mobiles()
	}
	return nil
}

// PlayersInRoom returns the players at loc.
func (w *World) PlayersInRoom(loc Location) []*Character {
	if r := w.Room(loc); r != nil {
		return r.Players()
	}
	return nil
}

// PlayersInArea returns the players anywhere in area.
func (w *World) PlayersInArea(area storage.Identifier) []*Character {
	var out []*Character
	for _, c := range w.Players() {
		if c.Location.Area == area {
			out = append(out, c)
		}
	}
	return out
}

// Players returns every player in the world ordered by id.
func (w *World) Players() []*Character {
	return w.collect(func(c *Character) bool { return !c.IsNPC() })
}

// Fighters returns every engaged character ordered by id.
func (w *World) Fighters() []*Character {
	return w.collect(func(c *Character) bool { return c.IsFighting() })
}

// Mobiles returns every mobile ordered by id.
func (w *World) Mobiles() []*Character {
	return w.collect(func(c *Character) bool { return c.IsNPC() })
}

func (w *World) collect(keep func(*Character) bool) []*Character {
	var out []*Character
	for _, c := range w.chars {
		if keep(c) {
			out = append(out, c)
		}
	}
	SortById(out)
	return out
}

// AddPlayer registers a player and places them in their saved room, or at
// home when that room no longer exists.
func (w *World) AddPlayer(c *Character) error {
	if c.IsNPC() {
		return fmt.Errorf("adding player %q: character is a mobile", c.Name)
	}
	if _, exists := w.chars[c.Id]; exists {
		return ErrPlayerExists
	}

	room := w.Room(c.Location)
	if room == nil {
		room = w.Room(c.Home)
	}
	if room == nil {
		return fmt.Errorf("placing player %q at %s: %w", c.Name, c.Home, ErrRoomNotFound)
	}

	c.Location = room.Location()
	c.Player.Connected = true
	w.chars[c.Id] = c
	room.addOccupant(c)
	return nil
}

// RemovePlayer takes a player out of the world. Any fight they were in ends.
func (w *World) RemovePlayer(id CharacterId) error {
	c, ok := w.chars[id]
	if !ok || c.IsNPC() {
		return ErrPlayerNotFound
	}
	w.StopFighting(c)
	c.Player.Connected = false
	w.RemoveCharacter(c)
	return nil
}

// NextMobileId allocates a runtime id for a new mobile.
func (w *World) NextMobileId() CharacterId {
	w.nextMobileId++
	return w.nextMobileId
}

// SpawnMobile builds an instance of the tmplId template. The mobile is not
// placed yet; call Place once it is equipped.
func (w *World) SpawnMobile(tmplId storage.Identifier) (*Character, error) {
	tmpl := w.dict.Mobiles.Get(tmplId)
	if tmpl == nil {
		return nil, fmt.Errorf("mobile %q: %w", tmplId, ErrTemplateNotFound)
	}
	return tmpl.Spawn(w.NextMobileId(), tmplId), nil
}

// SpawnItem builds an instance of the tmplId template.
func (w *World) SpawnItem(tmplId storage.Identifier) (*Item, error) {
	tmpl := w.dict.Items.Get(tmplId)
	if tmpl == nil {
		return nil, fmt.Errorf("item %q: %w", tmplId, ErrTemplateNotFound)
	}
	return tmpl.Spawn(tmplId), nil
}

// Place registers c and puts it in the room at loc.
func (w *World) Place(c *Character, loc Location) error {
	room := w.Room(loc)
	if room == nil {
		return fmt.Errorf("placing %q at %s: %w", c.DisplayName(), loc, ErrRoomNotFound)
	}
	w.chars[c.Id] = c
	c.Location = loc
	room.addOccupant(c)
	return nil
}

// Move relocates c to loc, keeping room membership consistent with Location.
func (w *World) Move(c *Character, loc Location) error {
	to := w.Room(loc)
	if to == nil {
		return fmt.Errorf("moving %q to %s: %w", c.DisplayName(), loc, ErrRoomNotFound)
	}
	if from := w.Room(c.Location); from != nil {
		from.removeOccupant(c.Id)
	}
	c.Location = loc
	to.addOccupant(c)
	if c.Player != nil {
		if c.Metrics.Explored == nil {
			c.Metrics.Explored = map[storage.Identifier]int{}
		}
		c.Metrics.Explored[loc.Area]++
	}
	return nil
}

// RemoveCharacter drops c from its room and from the registry.
func (w *World) RemoveCharacter(c *Character) {
	if r := w.Room(c.Location); r != nil {
		r.removeOccupant(c.Id)
	}
	if w.chars[c.Id] == c {
		delete(w.chars, c.Id)
	}
}

// Evict removes c from room's occupant list when room is not where c is
// recorded to be. A character that is not in its recorded room either is
// dropped from the world.
func (w *World) Evict(room *Room, c *Character) bool {
	if c.Location == room.Location() {
		return false
	}
	if !room.removeOccupant(c.Id) {
		return false
	}
	home := w.Room(c.Location)
	if home == nil || slices.IndexFunc(home.occupants, func(o *Character) bool { return o.Id == c.Id }) < 0 {
		if w.chars[c.Id] == c {
			delete(w.chars, c.Id)
		}
	}
	return true
}

// StartFighting engages a and b with each other.
func (w *World) StartFighting(a, b *Character) {
	a.Fighting = b.Id
	b.Fighting = a.Id
}

// StopFighting clears c's fight, and the opponent's when it points back at c.
func (w *World) StopFighting(c *Character) {
	if c.Fighting == 0 {
		return
	}
	if o := w.chars[c.Fighting]; o != nil && o.Fighting == c.Id {
		o.Fighting = 0
	}
	c.Fighting = 0
}

// Group is a runtime party of players led by Owner.
type Group struct {
	Id      string
	Owner   CharacterId
	Members []CharacterId
}

func (g *Group) HasMember(id CharacterId) bool {
	return slices.Contains(g.Members, id)
}

// CreateGroup starts a group with owner as leader and sole member.
func (w *World) CreateGroup(owner CharacterId) *Group {
	g := &Group{
		Id:      uuid.NewString(),
		Owner:   owner,
		Members: []CharacterId{owner},
	}
	w.groups[g.Id] = g
	return g
}

// Groups returns every group ordered by id.
func (w *World) Groups() []*Group {
	groups := make([]*Group, 0, len(w.groups))
	for _, g := range w.groups {
		groups = append(groups, g)
	}
	slices.SortFunc(groups, func(a, b *Group) int { return cmp.Compare(a.Id, b.Id) })
	return groups
}

// GroupOf returns the group id is a member of, or nil.
func (w *World) GroupOf(id CharacterId) *Group {
	for _, g := range w.Groups() {
		if g.HasMember(id) {
			return g
		}
	}
	return nil
}

func (w *World) RemoveGroup(id string) {
	delete(w.groups, id)
}

// Counts reports the number of players, mobiles and floor items in the world.
func (w *World) Counts() (players, mobiles, items int) {
	for _, c := range w.chars {
		if c.IsNPC() {
			mobiles++
		} else {
			players++
		}
	}
	for _, a := range w.areas {
		for _, r := range a.rooms {
			items += len(r.items)
		}
	}
	return players, mobiles, items
}
