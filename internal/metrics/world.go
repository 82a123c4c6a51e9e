// Package metrics keeps the world's running counters, persists them between
// restarts and exports them to Prometheus.
package metrics

import (
	"sync"
	"time"

	"github.com/pixil98/tickmud/internal/game"
	"github.com/pixil98/tickmud/internal/storage"
)

const worldKey = "metrics"

// World is the persisted metrics record for the whole world.
type World struct {
	Time          game.Calendar `json:"time"`
	ViolenceTicks int64         `json:"violence_ticks"`
	GameTicks     int64         `json:"game_ticks"`
	Repopulations int64         `json:"repopulations"`
	Restarts      int64         `json:"restarts"`
	LastError     string        `json:"last_error,omitempty"`
	LastErrorAt   time.Time     `json:"last_error_at,omitzero"`

	Players int `json:"players"`
	Mobiles int `json:"mobiles"`
	Items   int `json:"items"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Store reads and writes the World record.
type Store interface {
	LoadWorld() (World, bool, error)
	SaveWorld(World) error
}

// BoltStore keeps the record in the world bucket.
type BoltStore struct {
	db *storage.BoltStore
}

func NewBoltStore(db *storage.BoltStore) *BoltStore {
	return &BoltStore{db: db}
}

func (s *BoltStore) LoadWorld() (World, bool, error) {
	var w World
	found, err := s.db.Get(storage.BucketWorld, worldKey, &w)
	return w, found, err
}

func (s *BoltStore) SaveWorld(w World) error {
	return s.db.Put(storage.BucketWorld, worldKey, w)
}

// Recorder is the live, concurrency-safe copy of the World record.
type Recorder struct {
	mu    sync.Mutex
	world World
	store Store
	now   func() time.Time
}

// NewRecorder loads the last persisted record from store, if any. A nil
// store keeps metrics in memory only.
func NewRecorder(store Store) (*Recorder, error) {
	r := &Recorder{store: store, now: time.Now}
	if store == nil {
		return r, nil
	}
	w, found, err := store.LoadWorld()
	if err != nil {
		return nil, err
	}
	if found {
		r.world = w
	}
	return r, nil
}

// Snapshot returns a copy of the current record.
func (r *Recorder) Snapshot() World {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.world
}

func (r *Recorder) ViolenceTick() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.world.ViolenceTicks++
}

func (r *Recorder) GameTick(cal game.Calendar) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.world.GameTicks++
	r.world.Time = cal
}

func (r *Recorder) Repopulated() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.world.Repopulations++
}

// RecordFailure stores err as the last error and counts a scheduler restart.
func (r *Recorder) RecordFailure(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.world.Restarts++
	r.world.LastError = err.Error()
	r.world.LastErrorAt = r.now()
}

// Restore carries the persisted calendar into w so game time survives a
// restart. It reports whether there was anything to restore.
func (r *Recorder) Restore(w *game.World) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.world.UpdatedAt.IsZero() {
		return false
	}
	w.Time = r.world.Time
	return true
}

// Derive recounts the population of w. The world lock must be held.
func (r *Recorder) Derive(w *game.World) {
	players, mobiles, items := w.Counts()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.world.Time = w.Time
	r.world.Players = players
	r.world.Mobiles = mobiles
	r.world.Items = items
}

// Persist writes the current record to the store.
func (r *Recorder) Persist() error {
	if r.store == nil {
		return nil
	}
	r.mu.Lock()
	r.world.UpdatedAt = r.now()
	w := r.world
	r.mu.Unlock()
	return r.store.SaveWorld(w)
}
