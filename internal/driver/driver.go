// Package driver owns the two game clocks and restarts them when a tick fails.
package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pixil98/tickmud/internal/game"
	"github.com/pixil98/tickmud/internal/metrics"
	"github.com/pixil98/tickmud/internal/repop"
)

const (
	DefaultViolenceInterval = time.Second * 2
	DefaultGameTickEvery    = 30
	DefaultRepopEveryHours  = 6
	DefaultRestartDelay     = time.Second * 5
)

var ErrTickPanic = errors.New("tick panicked")

// ViolenceRunner resolves one round of every fight.
type ViolenceRunner interface {
	ViolencePass(ctx context.Context) int
}

// EnvironmentTicker applies per game tick upkeep. It runs under the world lock.
type EnvironmentTicker interface {
	Tick(ctx context.Context)
}

// Repopulator converges areas and moves idle mobiles.
type Repopulator interface {
	Populate(ctx context.Context) error
	WanderPass(ctx context.Context) int
	Cleanup(ctx context.Context) repop.CleanupResult
}

// Submitter queues background work.
type Submitter interface {
	Submit(name string, job func(ctx context.Context) error) error
}

// SnapshotWriter persists an encoded character.
type SnapshotWriter interface {
	WriteSnapshot(name string, data []byte) error
}

// Scheduler fires the violence clock every violenceInterval and the game
// clock after every gameTickEvery violence ticks. Both run on one goroutine,
// so neither callback ever overlaps itself or the other.
type Scheduler struct {
	world    *game.World
	combat   ViolenceRunner
	env      EnvironmentTicker
	repop    Repopulator
	recorder *metrics.Recorder

	queue  Submitter
	writer SnapshotWriter

	violenceInterval time.Duration
	gameTickEvery    int
	repopEveryHours  int
	restartDelay     time.Duration

	violenceTicks int64
}

func NewScheduler(w *game.World, combat ViolenceRunner, env EnvironmentTicker, rp Repopulator, rec *metrics.Recorder, opts ...SchedulerOpt) *Scheduler {
	s := &Scheduler{
		world:            w,
		combat:           combat,
		env:              env,
		repop:            rp,
		recorder:         rec,
		violenceInterval: DefaultViolenceInterval,
		gameTickEvery:    DefaultGameTickEvery,
		repopEveryHours:  DefaultRepopEveryHours,
		restartDelay:     DefaultRestartDelay,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start runs the clocks until ctx is cancelled. A failed or panicking tick
// stops both clocks; they are started fresh after restartDelay.
func (s *Scheduler) Start(ctx context.Context) error {
	for {
		err := s.run(ctx)
		if ctx.Err() != nil {
			return nil
		}

		slog.ErrorContext(ctx, "scheduler failed, restarting", "error", err, "delay", s.restartDelay)
		s.recorder.RecordFailure(err)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.restartDelay):
		}
	}
}

func (s *Scheduler) run(ctx context.Context) error {
	violence := time.NewTicker(s.violenceInterval)
	defer violence.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-violence.C:
			if err := guard(ctx, func() error { return s.ViolenceTick(ctx) }); err != nil {
				return fmt.Errorf("clock violence, tick %d: %w", s.violenceTicks, err)
			}
			if !s.gameTickDue() {
				continue
			}
			if err := guard(ctx, func() error { return s.GameTick(ctx) }); err != nil {
				return fmt.Errorf("clock game, hour %d: %w", s.world.Time.Hour, err)
			}
		}
	}
}

// gameTickDue reports whether the violence tick just counted completes a
// game hour. Hours are counted in violence ticks, so a slow pass delays
// both clocks alike.
func (s *Scheduler) gameTickDue() bool {
	return s.gameTickEvery > 0 && s.violenceTicks%int64(s.gameTickEvery) == 0
}

// guard turns a panic in fn into an error.
func guard(ctx context.Context, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "tick panicked", "panic", r)
			err = fmt.Errorf("%w: %v", ErrTickPanic, r)
		}
	}()
	return fn()
}

// ViolenceTick counts the tick and resolves a round of every fight.
func (s *Scheduler) ViolenceTick(ctx context.Context) error {
	s.violenceTicks++
	s.recorder.ViolenceTick()
	s.combat.ViolencePass(ctx)
	return nil
}

// GameTick advances the calendar one hour and runs, in order: environment
// upkeep, wandering, repopulation on every repopEveryHours hour, cleanup,
// metrics persistence and player autosave.
func (s *Scheduler) GameTick(ctx context.Context) error {
	var cal game.Calendar
	s.world.Do(func() {
		if s.world.Time.Advance() {
			slog.DebugContext(ctx, "a new day dawns", "day", s.world.Time.Day, "month", s.world.Time.Month, "year", s.world.Time.Year)
		}
		cal = s.world.Time
		s.env.Tick(ctx)
		s.repop.WanderPass(ctx)
	})
	s.recorder.GameTick(cal)

	if s.repopEveryHours > 0 && cal.Hour%s.repopEveryHours == 0 {
		if err := s.repop.Populate(ctx); err != nil {
			slog.ErrorContext(ctx, "repopulating world", "hour", cal.Hour, "error", err)
		}
		s.recorder.Repopulated()
	}

	s.world.Do(func() {
		s.repop.Cleanup(ctx)
		s.recorder.Derive(s.world)
	})

	if err := s.recorder.Persist(); err != nil {
		return fmt.Errorf("persisting world metrics: %w", err)
	}

	s.autosave(ctx)
	return nil
}

// autosave snapshots connected players under the world lock and writes
// them on the work queue.
func (s *Scheduler) autosave(ctx context.Context) {
	if s.queue == nil || s.writer == nil {
		return
	}

	type snapshot struct {
		name string
		data []byte
	}
	var snaps []snapshot
	s.world.Do(func() {
		for _, c := range s.world.Players() {
			if c.Player == nil || !c.Player.Connected {
				continue
			}
			data, err := c.Snapshot()
			if err != nil {
				slog.ErrorContext(ctx, "encoding character for autosave", "character", c.Name, "error", err)
				continue
			}
			snaps = append(snaps, snapshot{name: c.Name, data: data})
		}
	})
	if len(snaps) == 0 {
		return
	}

	err := s.queue.Submit("autosave", func(ctx context.Context) error {
		var errs []error
		for _, snap := range snaps {
			if err := s.writer.WriteSnapshot(snap.name, snap.data); err != nil {
				errs = append(errs, fmt.Errorf("saving %s: %w", snap.name, err))
			}
		}
		return errors.Join(errs...)
	})
	if err != nil {
		slog.WarnContext(ctx, "skipping autosave", "players", len(snaps), "error", err)
	}
}
