package command

import (
	"fmt"
	"net"

	"github.com/pixil98/tickmud/internal/metrics"
)

// MetricsConfig controls the prometheus endpoint. An empty listen address
// disables it.
type MetricsConfig struct {
	Listen string `json:"listen"`
}

func (c *MetricsConfig) validate() error {
	if c.Listen == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.Listen); err != nil {
		return fmt.Errorf("parsing metrics listen address: %w", err)
	}
	return nil
}

func (c *MetricsConfig) buildServer(rec *metrics.Recorder) (*metrics.Server, error) {
	if c.Listen == "" {
		return nil, nil
	}
	return metrics.NewServer(c.Listen, metrics.NewCollector(rec))
}
