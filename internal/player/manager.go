// Package player moves persisted characters in and out of the running world
// and handles the party verbs that go with them.
package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"unicode"

	"github.com/pixil98/tickmud/internal/game"
)

const MaxNameLength = 16

var ErrInvalidName = errors.New("invalid character name")

// Store loads and saves player characters. game.CharacterStore satisfies it.
type Store interface {
	Load(name string) (*game.Character, error)
	Create(name string, home game.Location) (*game.Character, error)
	SaveCharacter(c *game.Character) error
}

// Performer runs the commands the manager does not handle itself.
type Performer interface {
	Perform(ctx context.Context, actor *game.Character, input string) error
}

type Manager struct {
	world  *game.World
	store  Store
	msg    game.Messenger
	combat Performer
	home   game.Location
}

func NewManager(w *game.World, store Store, msg game.Messenger, combat Performer, home game.Location) *Manager {
	return &Manager{
		world:  w,
		store:  store,
		msg:    msg,
		combat: combat,
		home:   home,
	}
}

// Join loads name, creating it at home on first login, and places the
// character in the world. It takes the world lock itself.
func (m *Manager) Join(ctx context.Context, name string) (*game.Character, error) {
	name = strings.TrimSpace(name)
	if !validName(name) {
		return nil, fmt.Errorf("joining %q: %w", name, ErrInvalidName)
	}

	var online bool
	m.world.Do(func() {
		c := m.world.FindCharacter(name)
		online = c != nil && !c.IsNPC()
	})
	if online {
		return nil, fmt.Errorf("joining %q: %w", name, game.ErrPlayerExists)
	}

	c, err := m.store.Load(name)
	if errors.Is(err, game.ErrPlayerNotFound) {
		c, err = m.store.Create(name, m.home)
		if err == nil {
			slog.InfoContext(ctx, "created character", "character", c.Name, "id", c.Id)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("joining %q: %w", name, err)
	}

	c.Health.Clamp()
	c.Mana.Clamp()
	c.Movement.Clamp()

	m.world.Do(func() {
		if err = m.world.AddPlayer(c); err != nil {
			return
		}
		m.msg.SendToRoom(c.Location, []game.CharacterId{c.Id}, fmt.Sprintf("%s has entered the game.", c.Name))
		if r := m.world.Room(c.Location); r != nil {
			m.msg.Send(c.Id, r.Describe(c.Id))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("joining %q: %w", name, err)
	}

	slog.InfoContext(ctx, "player joined", "character", c.Name, "id", c.Id, "room", c.Location)
	return c, nil
}

// Leave takes the player out of the world and saves them.
func (m *Manager) Leave(ctx context.Context, id game.CharacterId) error {
	var c *game.Character
	var err error
	m.world.Do(func() { c, err = m.leave(id) })
	if err != nil {
		return err
	}

	// c is out of the world, so nothing else touches it now.
	if err := m.store.SaveCharacter(c); err != nil {
		return fmt.Errorf("saving %q on leave: %w", c.Name, err)
	}
	slog.InfoContext(ctx, "player left", "character", c.Name, "id", c.Id)
	return nil
}

func (m *Manager) leave(id game.CharacterId) (*game.Character, error) {
	c := m.world.Character(id)
	if c == nil || c.IsNPC() {
		return nil, fmt.Errorf("leaving %d: %w", id, game.ErrPlayerNotFound)
	}

	m.ungroup(c)
	loc := c.Location
	if err := m.world.RemovePlayer(id); err != nil {
		return nil, err
	}
	m.msg.SendToRoom(loc, nil, fmt.Sprintf("%s has left the game.", c.Name))
	return c, nil
}

func validName(name string) bool {
	if name == "" || len(name) > MaxNameLength {
		return false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// Perform handles quit and the group verbs and hands everything else to
// combat. The world lock must be held.
//
//	group <leader>
//	ungroup
//	quit
func (m *Manager) Perform(ctx context.Context, actor *game.Character, input string) error {
	verb, args, _ := strings.Cut(strings.TrimSpace(input), " ")
	args = strings.TrimSpace(args)

	switch strings.ToLower(verb) {
	case "group":
		m.msg.Send(actor.Id, m.group(actor, args))
	case "ungroup":
		if !m.ungroup(actor) {
			m.msg.Send(actor.Id, "You aren't in a group.")
		}
	case "quit":
		if actor.IsFighting() {
			m.msg.Send(actor.Id, "No way! You're fighting!")
			return nil
		}
		m.msg.Send(actor.Id, "Goodbye, friend.")
		c, err := m.leave(actor.Id)
		if err != nil {
			return err
		}
		if err := m.store.SaveCharacter(c); err != nil {
			return fmt.Errorf("saving %q on quit: %w", c.Name, err)
		}
	default:
		return m.combat.Perform(ctx, actor, input)
	}
	return nil
}

// group adds actor to the group led by the named player in the same room,
// starting one if the leader has none. It returns the reply for actor.
func (m *Manager) group(actor *game.Character, name string) string {
	if name == "" {
		return "Group with whom?"
	}
	leader := m.world.FindCharacter(name)
	if leader == nil || leader.IsNPC() || leader.Location != actor.Location {
		return "They aren't here."
	}
	if leader == actor {
		return "You can't group with yourself."
	}
	if m.world.GroupOf(actor.Id) != nil {
		return "You are already in a group."
	}

	g := m.world.GroupOf(leader.Id)
	if g == nil {
		g = m.world.CreateGroup(leader.Id)
	} else if g.Owner != leader.Id {
		return "They aren't leading a group."
	}
	g.Members = append(slices.Clone(g.Members), actor.Id)

	m.msg.Send(leader.Id, fmt.Sprintf("%s joins your group.", actor.Name))
	return fmt.Sprintf("You join %s's group.", leader.Name)
}

// ungroup removes c from its group. A leader leaving disbands the group.
func (m *Manager) ungroup(c *game.Character) bool {
	g := m.world.GroupOf(c.Id)
	if g == nil {
		return false
	}

	if g.Owner == c.Id {
		m.world.RemoveGroup(g.Id)
		for _, id := range g.Members {
			m.msg.Send(id, "The group disbands.")
		}
		return true
	}

	g.Members = slices.DeleteFunc(slices.Clone(g.Members), func(id game.CharacterId) bool { return id == c.Id })
	m.msg.Send(c.Id, "You leave the group.")
	m.msg.Send(g.Owner, fmt.Sprintf("%s leaves your group.", c.Name))
	return true
}
