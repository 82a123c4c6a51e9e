package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/tickmud/internal/messaging"
)

// maxNatsPayload is the largest max_payload nats-server accepts.
const maxNatsPayload = 64 * 1024 * 1024

// NatsConfig configures the embedded bus. A port of -1 picks a free port and
// 0 uses the nats default.
type NatsConfig struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	StartTimeout string `json:"start_timeout"`
	ServerName   string `json:"server_name"`
	MaxPayload   int32  `json:"max_payload"`
}

func (n *NatsConfig) validate() error {
	el := errors.NewErrorList()

	if _, err := parseDuration("start_timeout", n.StartTimeout); err != nil {
		el.Add(err)
	}
	if n.Port < -1 || n.Port > 65535 {
		el.Add(fmt.Errorf("nats port %d out of range", n.Port))
	}
	if n.MaxPayload < 0 || n.MaxPayload > maxNatsPayload {
		el.Add(fmt.Errorf("nats max_payload %d out of range", n.MaxPayload))
	}

	return el.Err()
}

func (n *NatsConfig) buildNatsServer() (*messaging.NatsServer, error) {
	var opts []messaging.NatsServerOpt

	d, err := parseDuration("start_timeout", n.StartTimeout)
	if err != nil {
		return nil, err
	}
	if d > 0 {
		opts = append(opts, messaging.WithStartTimeout(d))
	}
	if n.Host != "" {
		opts = append(opts, messaging.WithHost(n.Host))
	}
	if n.Port != 0 {
		opts = append(opts, messaging.WithPort(n.Port))
	}
	if n.ServerName != "" {
		opts = append(opts, messaging.WithServerName(n.ServerName))
	}
	if n.MaxPayload > 0 {
		opts = append(opts, messaging.WithMaxPayload(n.MaxPayload))
	}

	return messaging.NewNatsServer(opts...)
}
