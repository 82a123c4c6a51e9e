package repop

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pixil98/tickmud/internal/display"
	"github.com/pixil98/tickmud/internal/game"
)

// Chatter produces something for a mobile to say to the players around it.
type Chatter interface {
	Chat(ctx context.Context, speaker string, listeners []string) (string, error)
}

// Submitter runs a named job in the background.
type Submitter interface {
	Submit(name string, job func(ctx context.Context) error) error
}

// Greeting is a Chatter that welcomes listeners by name.
type Greeting struct{}

func (Greeting) Chat(_ context.Context, _ string, listeners []string) (string, error) {
	return fmt.Sprintf("Well met, %s!", strings.Join(listeners, " and ")), nil
}

// greet queues a line from a chatty mob to the players in room. The line is
// only delivered if mob is still standing there when it is ready.
func (e *Engine) greet(ctx context.Context, mob *game.Character, room *game.Room) {
	if e.chatter == nil || e.queue == nil || !mob.Flags.Has(game.FlagChatty) {
		return
	}
	players := room.Players()
	if len(players) == 0 {
		return
	}

	speaker := mob.DisplayName()
	listeners := make([]string, 0, len(players))
	for _, p := range players {
		listeners = append(listeners, p.Name)
	}
	loc := room.Location()

	err := e.queue.Submit("mobile chatter", func(ctx context.Context) error {
		line, err := e.chatter.Chat(ctx, speaker, listeners)
		if err != nil {
			return fmt.Errorf("chatter for %s: %w", speaker, err)
		}
		if line == "" {
			return nil
		}
		e.world.Do(func() {
			if !e.world.Contains(mob) || mob.Location != loc {
				return
			}
			e.msg.SendToRoom(loc, []game.CharacterId{mob.Id}, fmt.Sprintf("%s says, '%s'", display.Capitalize(speaker), line))
		})
		return nil
	})
	if err != nil {
		slog.WarnContext(ctx, "dropping mobile chatter", "mobile", speaker, "error", err)
	}
}
