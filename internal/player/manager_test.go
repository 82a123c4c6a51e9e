package player

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
	"github.com/pixil98/tickmud/internal/game"
	"github.com/pixil98/tickmud/internal/game/gametest"
)

var (
	temple = game.Location{Area: "midgaard", Room: "temple"}
	square = game.Location{Area: "midgaard", Room: "square"}
)

// memoryStore keeps characters by lowercased name.
type memoryStore struct {
	chars   map[string]*game.Character
	next    game.CharacterId
	saved   []string
	saveErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{chars: map[string]*game.Character{}, next: 1}
}

func (s *memoryStore) Load(name string) (*game.Character, error) {
	c, ok := s.chars[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("loading %q: %w", name, game.ErrPlayerNotFound)
	}
	return c, nil
}

func (s *memoryStore) Create(name string, home game.Location) (*game.Character, error) {
	c := game.NewPlayer(s.next, name, home)
	s.next++
	s.chars[strings.ToLower(name)] = c
	return c, nil
}

func (s *memoryStore) SaveCharacter(c *game.Character) error {
	s.saved = append(s.saved, c.Name)
	return s.saveErr
}

type fakePerformer struct {
	inputs []string
}

func (f *fakePerformer) Perform(_ context.Context, _ *game.Character, input string) error {
	f.inputs = append(f.inputs, input)
	return nil
}

func newManager(t *testing.T) (*Manager, *game.World, *memoryStore, *gametest.Messenger, *fakePerformer) {
	t.Helper()
	w := gametest.NewBuilder().
		Mobile("cleric", &game.MobileTemplate{Aliases: []string{"cleric"}, ShortDesc: "a cleric", Level: 3, Health: 10}).
		Room("temple", "midgaard", &game.RoomTemplate{Terrain: game.TerrainInside}).
		Room("square", "midgaard", &game.RoomTemplate{Terrain: game.TerrainCity}).
		Build(t)
	store := newMemoryStore()
	msg := &gametest.Messenger{}
	perf := &fakePerformer{}
	return NewManager(w, store, msg, perf, temple), w, store, msg, perf
}

func TestManager_Join(t *testing.T) {
	tests := map[string]struct {
		name     string
		saved    *game.Character
		online   bool
		expRoom  game.Location
		expError string
	}{
		"new character": {
			name:    "Alice",
			expRoom: temple,
		},
		"saved character": {
			name:    "bob",
			saved:   &game.Character{Id: 7, Name: "Bob", Location: square, Home: temple, Health: game.Vital{Max: 20, Current: 45}, Player: &game.PlayerData{}},
			expRoom: square,
		},
		"saved room gone": {
			name:    "Bob",
			saved:   &game.Character{Id: 7, Name: "Bob", Location: game.Location{Area: "midgaard", Room: "ruins"}, Home: temple, Player: &game.PlayerData{}},
			expRoom: temple,
		},
		"already online": {
			name:     "Alice",
			online:   true,
			expError: "already exists",
		},
		"blank name": {
			name:     "  ",
			expError: "invalid character name",
		},
		"name with digits": {
			name:     "r2d2",
			expError: "invalid character name",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m, w, store, msg, _ := newManager(t)
			if tt.saved != nil {
				store.chars[strings.ToLower(tt.saved.Name)] = tt.saved
			}
			if tt.online {
				gametest.AddPlayer(t, w, 9, "Alice", temple)
			}

			c, err := m.Join(context.Background(), tt.name)
			if tt.expError != "" {
				testutil.AssertErrorContains(t, err, tt.expError)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			testutil.AssertEqual(t, "room", c.Location, tt.expRoom)
			testutil.AssertEqual(t, "connected", c.Player.Connected, true)
			testutil.AssertEqual(t, "in world", w.Character(c.Id) == c, true)
			testutil.AssertEqual(t, "health within max", c.Health.Current <= c.Health.Max, true)
			testutil.AssertEqual(t, "arrival announced", msg.Contains(c.Name+" has entered the game."), true)
			testutil.AssertEqual(t, "room described", len(msg.Sent(c.Id)), 1)
		})
	}
}

func TestManager_Leave(t *testing.T) {
	tests := map[string]struct {
		id       game.CharacterId
		saveErr  error
		expSaved int
		expError string
	}{
		"online player": {
			id:       1,
			expSaved: 1,
		},
		"unknown player": {
			id:       42,
			expError: "player not found",
		},
		"save fails": {
			id:       1,
			saveErr:  errors.New("disk full"),
			expSaved: 1,
			expError: "disk full",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m, w, store, msg, _ := newManager(t)
			store.saveErr = tt.saveErr
			alice := gametest.AddPlayer(t, w, 1, "Alice", temple)
			cleric := gametest.AddMobile(t, w, "cleric", temple)
			w.StartFighting(alice, cleric)

			err := m.Leave(context.Background(), tt.id)
			testutil.AssertEqual(t, "saved", len(store.saved), tt.expSaved)
			if tt.expError != "" {
				testutil.AssertErrorContains(t, err, tt.expError)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			testutil.AssertEqual(t, "removed", w.Character(1) == nil, true)
			testutil.AssertEqual(t, "connected", alice.Player.Connected, false)
			testutil.AssertEqual(t, "fight over", cleric.IsFighting(), false)
			testutil.AssertEqual(t, "departure announced", msg.Contains("Alice has left the game."), true)
		})
	}
}

func TestManager_JoinThenLeave(t *testing.T) {
	m, w, store, _, _ := newManager(t)
	ctx := context.Background()

	c, err := m.Join(ctx, "Alice")
	if err != nil {
		t.Fatalf("joining: %v", err)
	}
	if err := m.Leave(ctx, c.Id); err != nil {
		t.Fatalf("leaving: %v", err)
	}

	again, err := m.Join(ctx, "alice")
	if err != nil {
		t.Fatalf("rejoining: %v", err)
	}
	testutil.AssertEqual(t, "same character", again.Id, c.Id)
	testutil.AssertEqual(t, "one player", len(w.Players()), 1)
	testutil.AssertEqual(t, "saved once", len(store.saved), 1)
}

func TestManager_Perform(t *testing.T) {
	tests := map[string]struct {
		setup      func(t *testing.T, w *game.World, alice, bob *game.Character)
		input      string
		expReply   string
		expMembers int
		expGroups  int
		expCombat  int
		expOnline  bool
	}{
		"group starts a group": {
			input:      "group bob",
			expReply:   "You join Bob's group.",
			expMembers: 2,
			expGroups:  1,
			expOnline:  true,
		},
		"group joins existing": {
			setup: func(t *testing.T, w *game.World, _, bob *game.Character) {
				w.CreateGroup(bob.Id)
			},
			input:      "group Bob",
			expReply:   "You join Bob's group.",
			expMembers: 2,
			expGroups:  1,
			expOnline:  true,
		},
		"group with nobody": {
			input:     "group",
			expReply:  "Group with whom?",
			expOnline: true,
		},
		"group with mobile": {
			input:     "group cleric",
			expReply:  "They aren't here.",
			expOnline: true,
		},
		"group with self": {
			input:     "group alice",
			expReply:  "You can't group with yourself.",
			expOnline: true,
		},
		"group follower": {
			setup: func(t *testing.T, w *game.World, _, bob *game.Character) {
				carol := gametest.AddPlayer(t, w, 3, "Carol", temple)
				g := w.CreateGroup(carol.Id)
				g.Members = append(g.Members, bob.Id)
			},
			input:      "group bob",
			expReply:   "They aren't leading a group.",
			expMembers: 2,
			expGroups:  1,
			expOnline:  true,
		},
		"group while grouped": {
			setup: func(t *testing.T, w *game.World, alice, _ *game.Character) {
				w.CreateGroup(alice.Id)
			},
			input:      "group bob",
			expReply:   "You are already in a group.",
			expMembers: 1,
			expGroups:  1,
			expOnline:  true,
		},
		"ungroup member": {
			setup: func(t *testing.T, w *game.World, alice, bob *game.Character) {
				g := w.CreateGroup(bob.Id)
				g.Members = append(g.Members, alice.Id)
			},
			input:      "ungroup",
			expReply:   "You leave the group.",
			expMembers: 1,
			expGroups:  1,
			expOnline:  true,
		},
		"ungroup leader disbands": {
			setup: func(t *testing.T, w *game.World, alice, bob *game.Character) {
				g := w.CreateGroup(alice.Id)
				g.Members = append(g.Members, bob.Id)
			},
			input:     "ungroup",
			expReply:  "The group disbands.",
			expOnline: true,
		},
		"ungroup alone": {
			input:     "ungroup",
			expReply:  "You aren't in a group.",
			expOnline: true,
		},
		"quit": {
			input:    "quit",
			expReply: "Goodbye, friend.",
		},
		"quit while fighting": {
			setup: func(t *testing.T, w *game.World, alice, _ *game.Character) {
				w.StartFighting(alice, w.FindMobile("cleric"))
			},
			input:     "quit",
			expReply:  "No way! You're fighting!",
			expOnline: true,
		},
		"combat verb": {
			input:     "kill cleric",
			expCombat: 1,
			expOnline: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m, w, store, msg, perf := newManager(t)
			alice := gametest.AddPlayer(t, w, 1, "Alice", temple)
			bob := gametest.AddPlayer(t, w, 2, "Bob", temple)
			gametest.AddMobile(t, w, "cleric", temple)
			if tt.setup != nil {
				tt.setup(t, w, alice, bob)
			}

			var err error
			w.Do(func() { err = m.Perform(context.Background(), alice, tt.input) })
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.expReply != "" {
				testutil.AssertEqual(t, "reply", msg.Contains(tt.expReply), true)
			}
			testutil.AssertEqual(t, "groups", len(w.Groups()), tt.expGroups)
			if g := w.GroupOf(bob.Id); g != nil {
				testutil.AssertEqual(t, "members", len(g.Members), tt.expMembers)
			}
			testutil.AssertEqual(t, "combat calls", len(perf.inputs), tt.expCombat)
			testutil.AssertEqual(t, "online", w.Character(alice.Id) != nil, tt.expOnline)
			if !tt.expOnline {
				testutil.AssertEqual(t, "saved", len(store.saved), 1)
			}
		})
	}
}
