package repop

const (
	// DefaultWanderChance is the percent chance per tick that a wandering mobile tries to move.
	DefaultWanderChance = 50
)

type EngineOpt func(*Engine)

// WithChatter enables greetings from chatty mobiles. Lines are produced on q
// so a slow chatter never holds the world lock.
func WithChatter(c Chatter, q Submitter) EngineOpt {
	return func(e *Engine) {
		e.chatter = c
		e.queue = q
	}
}

func WithWanderChance(pct int) EngineOpt {
	return func(e *Engine) {
		e.wanderChance = pct
	}
}
