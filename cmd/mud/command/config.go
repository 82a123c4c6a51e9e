package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

type Config struct {
	Scheduler   SchedulerConfig   `json:"scheduler"`
	Storage     StorageConfig     `json:"storage"`
	Nats        NatsConfig        `json:"nats"`
	Environment EnvironmentConfig `json:"environment"`
	Queue       QueueConfig       `json:"queue"`
	Metrics     MetricsConfig     `json:"metrics"`
	World       WorldConfig       `json:"world"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	el.Add(c.Scheduler.validate())
	el.Add(c.Storage.validate())
	el.Add(c.Nats.validate())
	el.Add(c.Environment.validate())
	el.Add(c.Queue.validate())
	el.Add(c.Metrics.validate())
	el.Add(c.World.validate())

	return el.Err()
}

// parseDuration parses an optional duration setting. Empty is zero.
func parseDuration(name, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", name, err)
	}
	return d, nil
}
