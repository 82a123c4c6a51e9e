// Package workqueue runs background jobs on a single bounded worker so slow
// work never holds the world lock.
package workqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
)

const (
	DefaultSize = 256
)

var ErrFull = errors.New("work queue full")

type job struct {
	name string
	run  func(ctx context.Context) error
}

// Queue is a bounded FIFO of jobs. Submit never blocks.
type Queue struct {
	jobs chan job

	processed atomic.Int64
	failed    atomic.Int64
}

func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultSize
	}
	return &Queue{jobs: make(chan job, size)}
}

// Submit enqueues fn. It returns ErrFull instead of waiting for room.
func (q *Queue) Submit(name string, fn func(ctx context.Context) error) error {
	select {
	case q.jobs <- job{name: name, run: fn}:
		return nil
	default:
		return fmt.Errorf("queuing %s: %w", name, ErrFull)
	}
}

// Start runs jobs until ctx is cancelled. Jobs still queued at shutdown are
// run before returning so pending saves are not lost.
func (q *Queue) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			n := q.RunPending(context.WithoutCancel(ctx))
			slog.InfoContext(ctx, "work queue stopped", "drained", n)
			return nil
		case j := <-q.jobs:
			q.execute(ctx, j)
		}
	}
}

// RunPending runs every job queued right now and returns how many ran.
func (q *Queue) RunPending(ctx context.Context) int {
	n := 0
	for {
		select {
		case j := <-q.jobs:
			q.execute(ctx, j)
			n++
		default:
			return n
		}
	}
}

// Len is the number of jobs waiting.
func (q *Queue) Len() int {
	return len(q.jobs)
}

// Stats reports how many jobs have run and how many of those failed.
func (q *Queue) Stats() (processed, failed int64) {
	return q.processed.Load(), q.failed.Load()
}

func (q *Queue) execute(ctx context.Context, j job) {
	defer q.processed.Add(1)
	defer func() {
		if r := recover(); r != nil {
			q.failed.Add(1)
			slog.ErrorContext(ctx, "background job panicked", "job", j.name, "panic", r)
		}
	}()

	if err := j.run(ctx); err != nil {
		q.failed.Add(1)
		slog.ErrorContext(ctx, "background job failed", "job", j.name, "error", err)
	}
}
