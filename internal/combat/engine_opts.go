package combat

type EngineOpt func(*Engine)

// WithLeveler checks killers for a level advance after each experience award.
func WithLeveler(l Leveler) EngineOpt {
	return func(e *Engine) {
		e.leveler = l
	}
}

// WithGhostDuration sets how many game ticks a dead player remains a ghost.
func WithGhostDuration(ticks int) EngineOpt {
	return func(e *Engine) {
		e.ghostDuration = ticks
	}
}

// WithCorpseRot sets the rot timers of mobile and player corpses.
func WithCorpseRot(mob, player int) EngineOpt {
	return func(e *Engine) {
		e.mobCorpseRot = mob
		e.playerCorpseRot = player
	}
}
