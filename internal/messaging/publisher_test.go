package messaging

import (
	"errors"
	"testing"

	"github.com/pixil98/tickmud/internal/game"
	"github.com/pixil98/tickmud/internal/game/gametest"
	"github.com/pixil98/go-testutil"
)

var (
	hall   = game.Location{Area: "town", Room: "hall"}
	street = game.Location{Area: "town", Room: "street"}
	dock   = game.Location{Area: "harbor", Room: "dock"}
)

type published struct {
	subject string
	data    string
}

type fakeBus struct {
	sent []published
	fail bool
}

func (b *fakeBus) Publish(subject string, data []byte) error {
	if b.fail {
		return errors.New("bus down")
	}
	b.sent = append(b.sent, published{subject: subject, data: string(data)})
	return nil
}

func (b *fakeBus) subjects() []string {
	var out []string
	for _, p := range b.sent {
		out = append(out, p.subject)
	}
	return out
}

func newWorld(t *testing.T) *game.World {
	t.Helper()
	w := gametest.NewBuilder().
		Mobile("gull", &game.MobileTemplate{Aliases: []string{"gull"}, ShortDesc: "a gull", Level: 1, Health: 3}).
		Room("hall", "town", &game.RoomTemplate{Terrain: game.TerrainInside}).
		Room("street", "town", &game.RoomTemplate{Terrain: game.TerrainCity}).
		Room("dock", "harbor", &game.RoomTemplate{Terrain: game.TerrainCity}).
		Build(t)
	gametest.AddPlayer(t, w, 1, "Alice", hall)
	gametest.AddPlayer(t, w, 2, "Bob", hall)
	gametest.AddPlayer(t, w, 3, "Carol", street)
	gametest.AddPlayer(t, w, 4, "Dave", dock)
	return w
}

func TestPublisher_Send(t *testing.T) {
	tests := map[string]struct {
		target     func(t *testing.T, w *game.World) game.CharacterId
		disconnect bool
		fail       bool
		exp        game.DeliveryResult
		expSent    int
	}{
		"connected":    {target: func(*testing.T, *game.World) game.CharacterId { return 1 }, exp: game.DeliveryOk, expSent: 1},
		"disconnected": {target: func(*testing.T, *game.World) game.CharacterId { return 1 }, disconnect: true, exp: game.DeliveryNotConnected},
		"unknown":      {target: func(*testing.T, *game.World) game.CharacterId { return 99 }, exp: game.DeliveryNotAvailable},
		"bus down":     {target: func(*testing.T, *game.World) game.CharacterId { return 1 }, fail: true, exp: game.DeliveryNotAvailable},
		"mobile": {
			target: func(t *testing.T, w *game.World) game.CharacterId { return gametest.AddMobile(t, w, "gull", dock).Id },
			exp:    game.DeliveryIgnored,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := newWorld(t)
			bus := &fakeBus{fail: tt.fail}
			p := NewPublisher(bus, w)
			id := tt.target(t, w)
			if tt.disconnect {
				w.Character(id).Player.Connected = false
			}

			res := p.Send(id, "hello")

			testutil.AssertEqual(t, "result", res, tt.exp)
			testutil.AssertEqual(t, "sent", len(bus.sent), tt.expSent)
			if tt.expSent > 0 {
				testutil.AssertEqual(t, "subject", bus.sent[0].subject, "player-1")
				testutil.AssertEqual(t, "data", bus.sent[0].data, "hello")
			}
		})
	}
}

func TestPublisher_Broadcast(t *testing.T) {
	tests := map[string]struct {
		send func(p *Publisher)
		exp  []string
	}{
		"room": {
			send: func(p *Publisher) { p.SendToRoom(hall, []game.CharacterId{2}, "hi") },
			exp:  []string{"player-1"},
		},
		"room nobody excluded": {
			send: func(p *Publisher) { p.SendToRoom(hall, nil, "hi") },
			exp:  []string{"player-1", "player-2"},
		},
		"area": {
			send: func(p *Publisher) { p.SendToArea(street, 3, "thunder") },
			exp:  []string{"player-1", "player-2"},
		},
		"all": {
			send: func(p *Publisher) { p.SendToAll("reboot") },
			exp:  []string{"player-1", "player-2", "player-3", "player-4"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := newWorld(t)
			bus := &fakeBus{}

			tt.send(NewPublisher(bus, w))

			testutil.AssertEqual(t, "subjects", len(bus.subjects()), len(tt.exp))
			for i, s := range bus.subjects() {
				testutil.AssertEqual(t, "subject", s, tt.exp[i])
			}
		})
	}
}

func TestPublisher_PlaySound(t *testing.T) {
	w := newWorld(t)
	bus := &fakeBus{}

	NewPublisher(bus, w).PlaySound(4, "combat", "hit.wav")

	testutil.AssertEqual(t, "sent", len(bus.sent), 1)
	testutil.AssertEqual(t, "subject", bus.sent[0].subject, "sound-4")
	testutil.AssertEqual(t, "data", bus.sent[0].data, `{"channel":"combat","sound":"hit.wav"}`)
}
