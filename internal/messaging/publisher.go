// Package messaging delivers engine output to connected players over an
// embedded NATS bus. Each player has a text subject and a sound subject.
package messaging

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"github.com/pixil98/tickmud/internal/game"
)

// Bus publishes raw payloads. NatsServer satisfies it.
type Bus interface {
	Publish(subject string, data []byte) error
}

// PlayerSubject is where text for a player is published.
func PlayerSubject(id game.CharacterId) string {
	return fmt.Sprintf("player-%d", id)
}

// SoundSubject is where sound cues for a player are published.
func SoundSubject(id game.CharacterId) string {
	return fmt.Sprintf("sound-%d", id)
}

// Sound is the payload published on a SoundSubject.
type Sound struct {
	Channel string `json:"channel"`
	Sound   string `json:"sound"`
}

// Publisher implements game.Messenger. Recipients are resolved from the
// world, so callers must hold the world lock.
type Publisher struct {
	bus   Bus
	world *game.World
}

func NewPublisher(bus Bus, w *game.World) *Publisher {
	return &Publisher{bus: bus, world: w}
}

func (p *Publisher) Send(id game.CharacterId, text string) game.DeliveryResult {
	c := p.world.Character(id)
	switch {
	case c == nil:
		return game.DeliveryNotAvailable
	case c.IsNPC():
		return game.DeliveryIgnored
	case c.Player == nil || !c.Player.Connected:
		return game.DeliveryNotConnected
	}
	if err := p.bus.Publish(PlayerSubject(id), []byte(text)); err != nil {
		slog.Warn("publishing to player", "character", c.Name, "error", err)
		return game.DeliveryNotAvailable
	}
	return game.DeliveryOk
}

func (p *Publisher) SendToRoom(loc game.Location, exclude []game.CharacterId, text string) {
	p.broadcast(p.world.PlayersInRoom(loc), exclude, text)
}

func (p *Publisher) SendToArea(loc game.Location, exclude game.CharacterId, text string) {
	p.broadcast(p.world.PlayersInArea(loc.Area), []game.CharacterId{exclude}, text)
}

func (p *Publisher) SendToAll(text string) {
	p.broadcast(p.world.Players(), nil, text)
}

func (p *Publisher) PlaySound(id game.CharacterId, channel, sound string) {
	c := p.world.Character(id)
	if c == nil || c.Player == nil || !c.Player.Connected {
		return
	}
	data, err := json.Marshal(Sound{Channel: channel, Sound: sound})
	if err != nil {
		return
	}
	if err := p.bus.Publish(SoundSubject(id), data); err != nil {
		slog.Warn("publishing sound", "character", c.Name, "error", err)
	}
}

func (p *Publisher) broadcast(targets []*game.Character, exclude []game.CharacterId, text string) {
	for _, c := range targets {
		if slices.Contains(exclude, c.Id) || !c.Player.Connected {
			continue
		}
		if err := p.bus.Publish(PlayerSubject(c.Id), []byte(text)); err != nil {
			slog.Warn("publishing to player", "character", c.Name, "error", err)
		}
	}
}
