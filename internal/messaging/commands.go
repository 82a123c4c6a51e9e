package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pixil98/tickmud/internal/game"
)

// CommandSubject carries player input from the session layer.
const CommandSubject = "commands"

// Command is one line of input typed by a player.
type Command struct {
	Character game.CharacterId `json:"character"`
	Line      string           `json:"line"`
}

// Performer runs a command line for actor. The world lock is held.
type Performer interface {
	Perform(ctx context.Context, actor *game.Character, input string) error
}

// Subscriber is the part of NatsServer the listener needs.
type Subscriber interface {
	Ready() <-chan struct{}
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

// CommandListener feeds commands published on CommandSubject into a
// Performer.
type CommandListener struct {
	bus   Subscriber
	world *game.World
	exec  Performer
}

func NewCommandListener(bus Subscriber, w *game.World, exec Performer) *CommandListener {
	return &CommandListener{bus: bus, world: w, exec: exec}
}

// Start subscribes once the bus is ready and runs until ctx is cancelled.
func (l *CommandListener) Start(ctx context.Context) error {
	select {
	case <-l.bus.Ready():
	case <-ctx.Done():
		return nil
	}

	unsub, err := l.bus.Subscribe(CommandSubject, func(data []byte) {
		if err := l.Handle(ctx, data); err != nil {
			slog.WarnContext(ctx, "handling command", "error", err)
		}
	})
	if err != nil {
		return err
	}
	defer unsub()

	slog.InfoContext(ctx, "listening for commands", "subject", CommandSubject)
	<-ctx.Done()
	return nil
}

// Handle decodes one command and performs it under the world lock.
func (l *CommandListener) Handle(ctx context.Context, data []byte) error {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return fmt.Errorf("decoding command: %w", err)
	}

	var err error
	l.world.Do(func() {
		actor := l.world.Character(cmd.Character)
		if actor == nil || actor.IsNPC() {
			err = fmt.Errorf("command from %d: %w", cmd.Character, game.ErrPlayerNotFound)
			return
		}
		err = l.exec.Perform(ctx, actor, cmd.Line)
	})
	return err
}
