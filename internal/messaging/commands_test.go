package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/pixil98/tickmud/internal/game"
	"github.com/pixil98/go-testutil"
)

type performed struct {
	actor string
	line  string
}

type fakePerformer struct {
	calls []performed
}

func (p *fakePerformer) Perform(_ context.Context, actor *game.Character, input string) error {
	p.calls = append(p.calls, performed{actor: actor.Name, line: input})
	return nil
}

func TestCommandListener_Handle(t *testing.T) {
	tests := map[string]struct {
		data     string
		expErr   string
		expCalls []performed
	}{
		"player command": {
			data:     `{"character":1,"line":"kill gull"}`,
			expCalls: []performed{{actor: "Alice", line: "kill gull"}},
		},
		"unknown player": {
			data:   `{"character":42,"line":"kill gull"}`,
			expErr: "player not found",
		},
		"garbage": {
			data:   `kill gull`,
			expErr: "decoding command",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			exec := &fakePerformer{}
			l := NewCommandListener(nil, newWorld(t), exec)

			err := l.Handle(context.Background(), []byte(tt.data))

			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
			} else if err != nil {
				t.Fatalf("error: %v", err)
			}
			testutil.AssertEqual(t, "calls", len(exec.calls), len(tt.expCalls))
			for i, c := range exec.calls {
				testutil.AssertEqual(t, "call", c, tt.expCalls[i])
			}
		})
	}
}

func TestCommandListener_Start(t *testing.T) {
	s, err := NewNatsServer(WithPort(-1))
	if err != nil {
		t.Fatalf("creating server: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Start(ctx) }()

	got := make(chan performed, 1)
	l := NewCommandListener(s, newWorld(t), performFunc(func(actor *game.Character, line string) {
		select {
		case got <- performed{actor: actor.Name, line: line}:
		default:
		}
	}))
	go func() { _ = l.Start(ctx) }()

	<-s.Ready()
	deadline := time.After(5 * time.Second)
	for {
		if err := s.Publish(CommandSubject, []byte(`{"character":2,"line":"cast missile"}`)); err != nil {
			t.Fatalf("publishing: %v", err)
		}
		select {
		case p := <-got:
			testutil.AssertEqual(t, "performed", p, performed{actor: "Bob", line: "cast missile"})
			return
		case <-time.After(50 * time.Millisecond):
			// The listener may not have subscribed yet.
		case <-deadline:
			t.Fatal("command never arrived")
		}
	}
}

type performFunc func(actor *game.Character, line string)

func (f performFunc) Perform(_ context.Context, actor *game.Character, input string) error {
	f(actor, input)
	return nil
}
