package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/tickmud/internal/environment"
)

type EnvironmentConfig struct {
	StandardRate   int  `json:"standard_rate"`
	RestingFactor  int  `json:"resting_factor"`
	SleepingFactor int  `json:"sleeping_factor"`
	WeatherChance  *int `json:"weather_chance,omitempty"`
	ImmortalLevel  int  `json:"immortal_level"`
}

func (c *EnvironmentConfig) validate() error {
	el := errors.NewErrorList()

	if c.StandardRate < 0 || c.RestingFactor < 0 || c.SleepingFactor < 0 {
		el.Add(fmt.Errorf("recovery rates must not be negative"))
	}
	if c.WeatherChance != nil && (*c.WeatherChance < 0 || *c.WeatherChance > 100) {
		el.Add(fmt.Errorf("weather_chance must be a percentage"))
	}
	if c.ImmortalLevel < 0 || c.ImmortalLevel > 90 {
		el.Add(fmt.Errorf("immortal_level must be between 1 and 90"))
	}

	return el.Err()
}

func (c *EnvironmentConfig) processorOpts() []environment.ProcessorOpt {
	var opts []environment.ProcessorOpt
	if c.StandardRate > 0 || c.RestingFactor > 0 || c.SleepingFactor > 0 {
		opts = append(opts, environment.WithRecovery(
			orDefault(c.StandardRate, environment.DefaultStandardRate),
			orDefault(c.RestingFactor, environment.DefaultRestingFactor),
			orDefault(c.SleepingFactor, environment.DefaultSleepingFactor),
		))
	}
	if c.WeatherChance != nil {
		opts = append(opts, environment.WithWeatherChance(*c.WeatherChance))
	}
	if c.ImmortalLevel > 0 {
		opts = append(opts, environment.WithImmortalLevel(c.ImmortalLevel))
	}
	return opts
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
