package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/tickmud/internal/driver"
)

const minViolenceInterval = 100 * time.Millisecond

// SchedulerConfig tunes the two clocks. Zero values keep the driver defaults.
type SchedulerConfig struct {
	ViolenceInterval string `json:"violence_interval"`
	GameTickEvery    int    `json:"game_tick_every"`
	RepopEveryHours  int    `json:"repop_every_hours"`
	RestartDelay     string `json:"restart_delay"`
}

func (c *SchedulerConfig) validate() error {
	el := errors.NewErrorList()

	d, err := parseDuration("violence_interval", c.ViolenceInterval)
	if err != nil {
		el.Add(err)
	} else if d != 0 && d < minViolenceInterval {
		el.Add(fmt.Errorf("violence_interval must be at least %s", minViolenceInterval))
	}
	if c.GameTickEvery < 0 {
		el.Add(fmt.Errorf("game_tick_every must not be negative"))
	}
	if c.RepopEveryHours < 0 || c.RepopEveryHours > 24 {
		el.Add(fmt.Errorf("repop_every_hours must be between 1 and 24"))
	}
	if _, err := parseDuration("restart_delay", c.RestartDelay); err != nil {
		el.Add(err)
	}

	return el.Err()
}

func (c *SchedulerConfig) schedulerOpts() ([]driver.SchedulerOpt, error) {
	var opts []driver.SchedulerOpt

	violence, err := parseDuration("violence_interval", c.ViolenceInterval)
	if err != nil {
		return nil, err
	}
	if violence > 0 {
		opts = append(opts, driver.WithViolenceInterval(violence))
	}
	if c.GameTickEvery > 0 {
		opts = append(opts, driver.WithGameTickEvery(c.GameTickEvery))
	}
	if c.RepopEveryHours > 0 {
		opts = append(opts, driver.WithRepopEveryHours(c.RepopEveryHours))
	}

	restart, err := parseDuration("restart_delay", c.RestartDelay)
	if err != nil {
		return nil, err
	}
	if restart > 0 {
		opts = append(opts, driver.WithRestartDelay(restart))
	}
	return opts, nil
}
