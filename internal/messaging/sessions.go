package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pixil98/tickmud/internal/game"
)

// Session layer requests. Both expect a reply.
const (
	ConnectSubject    = "connect"
	DisconnectSubject = "disconnect"
)

// Session is both the request and the reply on the session subjects. A
// connect names the character and a disconnect carries its id. The reply
// carries the id on success and Error otherwise.
type Session struct {
	Name      string           `json:"name,omitempty"`
	Character game.CharacterId `json:"character,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// Sessions brings players in and out of the world. player.Manager satisfies it.
type Sessions interface {
	Join(ctx context.Context, name string) (*game.Character, error)
	Leave(ctx context.Context, id game.CharacterId) error
}

// Server is the part of NatsServer the session listener needs.
type Server interface {
	Ready() <-chan struct{}
	Serve(subject string, handler func(data []byte) []byte) (func(), error)
}

// SessionListener answers connect and disconnect requests.
type SessionListener struct {
	bus      Server
	sessions Sessions
}

func NewSessionListener(bus Server, sessions Sessions) *SessionListener {
	return &SessionListener{bus: bus, sessions: sessions}
}

// Start serves both subjects once the bus is ready and runs until ctx is
// cancelled.
func (l *SessionListener) Start(ctx context.Context) error {
	select {
	case <-l.bus.Ready():
	case <-ctx.Done():
		return nil
	}

	handlers := map[string]func(context.Context, []byte) Session{
		ConnectSubject:    l.Connect,
		DisconnectSubject: l.Disconnect,
	}
	for subject, handle := range handlers {
		unsub, err := l.bus.Serve(subject, func(data []byte) []byte {
			return encodeSession(ctx, handle(ctx, data))
		})
		if err != nil {
			return err
		}
		defer unsub()
	}

	slog.InfoContext(ctx, "listening for sessions", "connect", ConnectSubject, "disconnect", DisconnectSubject)
	<-ctx.Done()
	return nil
}

// Connect joins the named character.
func (l *SessionListener) Connect(ctx context.Context, data []byte) Session {
	var req Session
	if err := json.Unmarshal(data, &req); err != nil {
		return failed(ctx, fmt.Errorf("decoding connect: %w", err))
	}
	c, err := l.sessions.Join(ctx, req.Name)
	if err != nil {
		return failed(ctx, err)
	}
	return Session{Name: c.Name, Character: c.Id}
}

// Disconnect takes the character out of the world and saves it.
func (l *SessionListener) Disconnect(ctx context.Context, data []byte) Session {
	var req Session
	if err := json.Unmarshal(data, &req); err != nil {
		return failed(ctx, fmt.Errorf("decoding disconnect: %w", err))
	}
	if err := l.sessions.Leave(ctx, req.Character); err != nil {
		return failed(ctx, err)
	}
	return Session{Character: req.Character}
}

func failed(ctx context.Context, err error) Session {
	slog.WarnContext(ctx, "session request failed", "error", err)
	return Session{Error: err.Error()}
}

func encodeSession(ctx context.Context, s Session) []byte {
	data, err := json.Marshal(s)
	if err != nil {
		slog.ErrorContext(ctx, "encoding session reply", "error", err)
	}
	return data
}
