package command

import (
	"fmt"

	"github.com/pixil98/tickmud/internal/workqueue"
)

type QueueConfig struct {
	Size int `json:"size"`
}

func (c *QueueConfig) validate() error {
	if c.Size < 0 {
		return fmt.Errorf("queue size must not be negative")
	}
	return nil
}

func (c *QueueConfig) buildQueue() *workqueue.Queue {
	return workqueue.NewQueue(c.Size)
}
