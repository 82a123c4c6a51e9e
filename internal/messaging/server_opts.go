package messaging

import "time"

type NatsServerOpt func(*NatsServer)

// WithStartTimeout bounds how long Start waits for the server to accept
// connections.
func WithStartTimeout(d time.Duration) NatsServerOpt {
	return func(n *NatsServer) {
		n.startupTimeout = d
	}
}

func WithHost(host string) NatsServerOpt {
	return func(n *NatsServer) {
		n.host = host
	}
}

// WithPort sets the listen port. -1 picks a random free port.
func WithPort(port int) NatsServerOpt {
	return func(n *NatsServer) {
		n.port = port
	}
}

// WithServerName names the server in client INFO and monitoring output.
func WithServerName(name string) NatsServerOpt {
	return func(n *NatsServer) {
		n.name = name
	}
}

// WithMaxPayload caps the size of a single message, in bytes. Room
// descriptions are the largest thing the engine sends. Zero keeps the
// server's default of 1MB.
func WithMaxPayload(bytes int32) NatsServerOpt {
	return func(n *NatsServer) {
		n.maxPayload = bytes
	}
}
