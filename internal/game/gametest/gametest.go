// Package gametest provides fakes and builders shared by engine tests.
package gametest

import (
	"slices"
	"strings"
	"testing"

	"github.com/pixil98/tickmud/internal/game"
	"github.com/pixil98/tickmud/internal/storage"
)

// Message is one call recorded by Messenger.
type Message struct {
	Kind    string
	To      game.CharacterId
	Loc     game.Location
	Exclude []game.CharacterId
	Text    string
}

// Messenger records every delivery. Send reports NotConnected for ids in Offline.
type Messenger struct {
	Messages []Message
	Offline  map[game.CharacterId]bool
}

func (m *Messenger) Send(id game.CharacterId, text string) game.DeliveryResult {
	m.Messages = append(m.Messages, Message{Kind: "send", To: id, Text: text})
	if m.Offline[id] {
		return game.DeliveryNotConnected
	}
	return game.DeliveryOk
}

func (m *Messenger) SendToRoom(loc game.Location, exclude []game.CharacterId, text string) {
	m.Messages = append(m.Messages, Message{Kind: "room", Loc: loc, Exclude: slices.Clone(exclude), Text: text})
}

func (m *Messenger) SendToArea(loc game.Location, exclude game.CharacterId, text string) {
	m.Messages = append(m.Messages, Message{Kind: "area", Loc: loc, Exclude: []game.CharacterId{exclude}, Text: text})
}

func (m *Messenger) SendToAll(text string) {
	m.Messages = append(m.Messages, Message{Kind: "all", Text: text})
}

func (m *Messenger) PlaySound(id game.CharacterId, channel, sound string) {
	m.Messages = append(m.Messages, Message{Kind: "sound", To: id, Text: channel + ":" + sound})
}

// Sent returns the texts delivered to id with Send.
func (m *Messenger) Sent(id game.CharacterId) []string {
	var out []string
	for _, msg := range m.Messages {
		if msg.Kind == "send" && msg.To == id {
			out = append(out, msg.Text)
		}
	}
	return out
}

// Of returns the texts recorded for the given kind.
func (m *Messenger) Of(kind string) []string {
	var out []string
	for _, msg := range m.Messages {
		if msg.Kind == kind {
			out = append(out, msg.Text)
		}
	}
	return out
}

// Contains reports whether any recorded text contains substr.
func (m *Messenger) Contains(substr string) bool {
	for _, msg := range m.Messages {
		if strings.Contains(msg.Text, substr) {
			return true
		}
	}
	return false
}

// Count returns how many recorded texts contain substr.
func (m *Messenger) Count(substr string) int {
	n := 0
	for _, msg := range m.Messages {
		if strings.Contains(msg.Text, substr) {
			n++
		}
	}
	return n
}

func (m *Messenger) Reset() {
	m.Messages = nil
}

// Saver records SaveCharacter calls and returns Err.
type Saver struct {
	Saved []game.CharacterId
	Err   error
}

func (s *Saver) SaveCharacter(c *game.Character) error {
	s.Saved = append(s.Saved, c.Id)
	return s.Err
}

// Builder assembles a resolved Dictionary and World from in-memory templates.
type Builder struct {
	areas   map[storage.Identifier]*game.AreaTemplate
	rooms   map[storage.Identifier]*game.RoomTemplate
	mobiles map[storage.Identifier]*game.MobileTemplate
	items   map[storage.Identifier]*game.ItemTemplate
	races   map[storage.Identifier]*game.Race
}

func NewBuilder() *Builder {
	return &Builder{
		areas:   map[storage.Identifier]*game.AreaTemplate{},
		rooms:   map[storage.Identifier]*game.RoomTemplate{},
		mobiles: map[storage.Identifier]*game.MobileTemplate{},
		items:   map[storage.Identifier]*game.ItemTemplate{},
		races:   map[storage.Identifier]*game.Race{},
	}
}

func (b *Builder) Area(id storage.Identifier, tmpl *game.AreaTemplate) *Builder {
	b.areas[id] = tmpl
	return b
}

// Room adds a room to area. Exits may be nil.
func (b *Builder) Room(id, area storage.Identifier, tmpl *game.RoomTemplate) *Builder {
	if tmpl.Name == "" {
		tmpl.Name = string(id)
	}
	tmpl.Area = storage.NewSmartIdentifier[*game.AreaTemplate](area)
	if _, ok := b.areas[area]; !ok {
		b.areas[area] = &game.AreaTemplate{Name: string(area)}
	}
	b.rooms[id] = tmpl
	return b
}

func (b *Builder) Mobile(id storage.Identifier, tmpl *game.MobileTemplate) *Builder {
	b.mobiles[id] = tmpl
	return b
}

func (b *Builder) Item(id storage.Identifier, tmpl *game.ItemTemplate) *Builder {
	b.items[id] = tmpl
	return b
}

func (b *Builder) Race(id storage.Identifier, r *game.Race) *Builder {
	b.races[id] = r
	return b
}

// Dictionary resolves the templates added so far.
func (b *Builder) Dictionary(t *testing.T) *game.Dictionary {
	t.Helper()
	dict := &game.Dictionary{
		Areas:   storage.NewMemoryStore(b.areas),
		Rooms:   storage.NewMemoryStore(b.rooms),
		Mobiles: storage.NewMemoryStore(b.mobiles),
		Items:   storage.NewMemoryStore(b.items),
		Races:   storage.NewMemoryStore(b.races),
	}
	if err := dict.Resolve(); err != nil {
		t.Fatalf("resolving dictionary: %v", err)
	}
	return dict
}

// Build resolves the templates and creates a World.
func (b *Builder) Build(t *testing.T) *game.World {
	t.Helper()
	w, err := game.NewWorld(b.Dictionary(t))
	if err != nil {
		t.Fatalf("creating world: %v", err)
	}
	return w
}

// ItemReset is a reset entry for tmpl.
func ItemReset(tmpl storage.Identifier) storage.SmartIdentifier[*game.ItemTemplate] {
	return storage.NewSmartIdentifier[*game.ItemTemplate](tmpl)
}

// MobileReset is a reset entry for tmpl wearing equipment.
func MobileReset(tmpl storage.Identifier, equipment ...storage.Identifier) game.MobileReset {
	mr := game.MobileReset{Mobile: storage.NewSmartIdentifier[*game.MobileTemplate](tmpl)}
	for _, e := range equipment {
		mr.Equipment = append(mr.Equipment, ItemReset(e))
	}
	return mr
}

// AddPlayer creates a level 1 player at loc and adds them to w.
func AddPlayer(t *testing.T, w *game.World, id game.CharacterId, name string, loc game.Location) *game.Character {
	t.Helper()
	c := game.NewPlayer(id, name, loc)
	if err := w.AddPlayer(c); err != nil {
		t.Fatalf("adding player %s: %v", name, err)
	}
	return c
}

// AddMobile spawns tmpl at loc.
func AddMobile(t *testing.T, w *game.World, tmpl storage.Identifier, loc game.Location) *game.Character {
	t.Helper()
	c, err := w.SpawnMobile(tmpl)
	if err != nil {
		t.Fatalf("spawning %s: %v", tmpl, err)
	}
	if err := w.Place(c, loc); err != nil {
		t.Fatalf("placing %s: %v", tmpl, err)
	}
	return c
}

// Weapon returns an item template for a weapon of the given damage type.
func Weapon(name string, dt game.DamageType) *game.ItemTemplate {
	return &game.ItemTemplate{
		Aliases:    []string{name},
		ShortDesc:  "a " + name,
		TypeStr:    "weapon",
		Wear:       []game.WearSlot{game.WearWield},
		DamageType: dt,
	}
}

// Armor returns an item template for armor worn on slot.
func Armor(name string, slot game.WearSlot, resist game.Resistances, durability int) *game.ItemTemplate {
	return &game.ItemTemplate{
		Aliases:    []string{name},
		ShortDesc:  "a " + name,
		TypeStr:    "armor",
		Wear:       []game.WearSlot{slot},
		Resist:     resist,
		Durability: durability,
	}
}

// ItemRef is a template reference to an item.
type ItemRef = storage.SmartIdentifier[*game.ItemTemplate]
