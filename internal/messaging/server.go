package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

const (
	DefaultStartTimeout = 10 * time.Second
	DefaultHost         = "127.0.0.1"
)

// NatsServer runs an embedded NATS server and holds the engine's own client
// connection to it.
type NatsServer struct {
	ns *server.Server

	mu    sync.RWMutex
	conn  *nats.Conn
	ready chan struct{}

	startupTimeout time.Duration
	host           string
	port           int
	name           string
	maxPayload     int32
}

func NewNatsServer(opts ...NatsServerOpt) (*NatsServer, error) {
	s := &NatsServer{
		startupTimeout: DefaultStartTimeout,
		host:           DefaultHost,
		ready:          make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	ns, err := server.NewServer(&server.Options{
		ServerName: s.name,
		Host:       s.host,
		Port:       s.port,
		MaxPayload: s.maxPayload,
		NoSigs:     true, // Let the application handle signals
		NoLog:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}
	s.ns = ns

	return s, nil
}

// Start serves until ctx is cancelled.
func (n *NatsServer) Start(ctx context.Context) error {
	n.ns.Start()

	if !n.ns.ReadyForConnections(n.startupTimeout) {
		n.ns.Shutdown()
		return fmt.Errorf("nats server not ready for connections after %s", n.startupTimeout)
	}

	conn, err := nats.Connect(n.ns.ClientURL())
	if err != nil {
		n.ns.Shutdown()
		return fmt.Errorf("creating nats client connection: %w", err)
	}
	n.mu.Lock()
	n.conn = conn
	n.mu.Unlock()
	close(n.ready)

	slog.InfoContext(ctx, "nats server listening", "addr", n.ns.Addr())

	<-ctx.Done()

	n.mu.Lock()
	n.conn = nil
	n.mu.Unlock()
	if err := conn.Drain(); err != nil {
		slog.WarnContext(ctx, "draining nats connection", "error", err)
	}
	n.ns.Shutdown()
	n.ns.WaitForShutdown()

	return nil
}

// Ready is closed once Start has connected its client.
func (n *NatsServer) Ready() <-chan struct{} {
	return n.ready
}

// Subscribe creates a subscription on the given subject.
// Returns an unsubscribe function to remove the subscription.
func (n *NatsServer) Subscribe(subject string, handler func(data []byte)) (func(), error) {
	conn, err := n.client()
	if err != nil {
		return nil, err
	}
	sub, err := conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribing to %s: %w", subject, err)
	}
	return func() { _ = sub.Unsubscribe() }, nil
}

// Serve answers requests on subject with whatever handler returns.
// Messages published without a reply subject are handled and dropped.
func (n *NatsServer) Serve(subject string, handler func(data []byte) []byte) (func(), error) {
	conn, err := n.client()
	if err != nil {
		return nil, err
	}
	sub, err := conn.Subscribe(subject, func(msg *nats.Msg) {
		reply := handler(msg.Data)
		if msg.Reply == "" {
			return
		}
		if err := msg.Respond(reply); err != nil {
			slog.Warn("responding to request", "subject", subject, "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("serving %s: %w", subject, err)
	}
	return func() { _ = sub.Unsubscribe() }, nil
}

// Publish sends a message to the given subject
func (n *NatsServer) Publish(subject string, data []byte) error {
	conn, err := n.client()
	if err != nil {
		return err
	}
	return conn.Publish(subject, data)
}

func (n *NatsServer) client() (*nats.Conn, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.conn == nil {
		return nil, fmt.Errorf("nats server not started")
	}
	return n.conn, nil
}
