package driver

import "time"

type SchedulerOpt func(*Scheduler)

func WithViolenceInterval(d time.Duration) SchedulerOpt {
	return func(s *Scheduler) {
		s.violenceInterval = d
	}
}

// WithGameTickEvery sets how many violence intervals make one game hour.
func WithGameTickEvery(n int) SchedulerOpt {
	return func(s *Scheduler) {
		s.gameTickEvery = n
	}
}

func WithRepopEveryHours(n int) SchedulerOpt {
	return func(s *Scheduler) {
		s.repopEveryHours = n
	}
}

func WithRestartDelay(d time.Duration) SchedulerOpt {
	return func(s *Scheduler) {
		s.restartDelay = d
	}
}

// WithAutosave writes connected players through w on q every game tick.
func WithAutosave(q Submitter, w SnapshotWriter) SchedulerOpt {
	return func(s *Scheduler) {
		s.queue = q
		s.writer = w
	}
}
