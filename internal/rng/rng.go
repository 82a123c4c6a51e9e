package rng

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

// Provider is the source of every randomized decision in the engine.
type Provider interface {
	// Inclusive returns a uniform integer in [lo, hi].
	Inclusive(lo, hi int) int
	// Exclusive returns a uniform integer in [lo, hi).
	Exclusive(lo, hi int) int
}

// Random is a Provider backed by a ChaCha8 generator seeded from crypto/rand.
// It is safe for concurrent use.
type Random struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New returns a cryptographically seeded Random.
func New() *Random {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		// crypto/rand only fails on a broken platform; fall back to the runtime source.
		binary.LittleEndian.PutUint64(seed[:8], rand.Uint64())
		binary.LittleEndian.PutUint64(seed[8:16], rand.Uint64())
	}
	return &Random{r: rand.New(rand.NewChaCha8(seed))}
}

// NewSeeded returns a Random with a fixed seed, for reproducible simulations.
func NewSeeded(seed [32]byte) *Random {
	return &Random{r: rand.New(rand.NewChaCha8(seed))}
}

func (g *Random) Inclusive(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return lo + g.r.IntN(hi-lo+1)
}

func (g *Random) Exclusive(lo, hi int) int {
	if hi-1 <= lo {
		return lo
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return lo + g.r.IntN(hi-lo)
}

// Sequence is a scripted Provider. Each call returns the next queued value,
// or lo once the queue is exhausted. Calls are recorded for assertions.
type Sequence struct {
	mu     sync.Mutex
	values []int
	Calls  []Call
}

// Call records one request made against a Sequence.
type Call struct {
	Lo, Hi    int
	Inclusive bool
}

// NewSequence queues the given values.
func NewSequence(values ...int) *Sequence {
	return &Sequence{values: values}
}

// Push appends more values to the queue.
func (s *Sequence) Push(values ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = append(s.values, values...)
}

// Remaining reports how many queued values have not been consumed.
func (s *Sequence) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}

func (s *Sequence) Inclusive(lo, hi int) int {
	return s.next(lo, hi, true)
}

func (s *Sequence) Exclusive(lo, hi int) int {
	return s.next(lo, hi, false)
}

func (s *Sequence) next(lo, hi int, inclusive bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, Call{Lo: lo, Hi: hi, Inclusive: inclusive})
	if len(s.values) == 0 {
		return lo
	}
	v := s.values[0]
	s.values = s.values[1:]
	return v
}
