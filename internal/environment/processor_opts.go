package environment

const (
	DefaultStandardRate   = 5
	DefaultRestingFactor  = 2
	DefaultSleepingFactor = 3
	DefaultWeatherChance  = 30
	DefaultImmortalLevel  = 80
)

type ProcessorOpt func(*Processor)

// WithRecovery sets the base recovery per tick and the resting and sleeping multipliers.
func WithRecovery(standardRate, restingFactor, sleepingFactor int) ProcessorOpt {
	return func(p *Processor) {
		p.standardRate = standardRate
		p.restingFactor = restingFactor
		p.sleepingFactor = sleepingFactor
	}
}

// WithWeatherChance sets the percent chance per tick of a weather message.
func WithWeatherChance(percent int) ProcessorOpt {
	return func(p *Processor) {
		p.weatherChance = percent
	}
}

// WithImmortalLevel sets the level at which players stop getting hungry and thirsty.
func WithImmortalLevel(level int) ProcessorOpt {
	return func(p *Processor) {
		p.immortalLevel = level
	}
}
