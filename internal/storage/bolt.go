package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	bbolt "go.etcd.io/bbolt"
)

// Buckets used by the engine's runtime state.
const (
	BucketCharacters = "characters"
	BucketWorld      = "world"
)

// BoltStore persists runtime documents (characters, world metrics) as JSON
// values in a bbolt file.
type BoltStore struct {
	db *bbolt.DB
}

// OpenBolt opens or creates the database at path and ensures the buckets exist.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{BucketCharacters, BucketWorld} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Put marshals v and writes it under key.
func (s *BoltStore) Put(bucket, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshalling %s/%s: %w", bucket, key, err)
	}
	return s.PutRaw(bucket, key, data)
}

// PutRaw writes pre-encoded data under key.
func (s *BoltStore) PutRaw(bucket, key string, data []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return fmt.Errorf("bucket %q does not exist", bucket)
		}
		return b.Put([]byte(key), data)
	})
}

// Get unmarshals the value at key into out. found is false when the key is absent.
func (s *BoltStore) Get(bucket, key string, out any) (found bool, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return fmt.Errorf("bucket %q does not exist", bucket)
		}
		data := b.Get([]byte(key))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, out)
	})
	if err != nil {
		return found, fmt.Errorf("reading %s/%s: %w", bucket, key, err)
	}
	return found, nil
}

// Delete removes key from bucket.
func (s *BoltStore) Delete(bucket, key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return fmt.Errorf("bucket %q does not exist", bucket)
		}
		return b.Delete([]byte(key))
	})
}

// ForEach calls fn with every raw value in bucket, in key order.
func (s *BoltStore) ForEach(bucket string, fn func(key string, data []byte) error) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return fmt.Errorf("bucket %q does not exist", bucket)
		}
		return b.ForEach(func(k, v []byte) error {
			return fn(string(k), v)
		})
	})
}

// NextSequence returns the next monotonically increasing id of bucket.
func (s *BoltStore) NextSequence(bucket string) (uint64, error) {
	var id uint64
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return fmt.Errorf("bucket %q does not exist", bucket)
		}
		var err error
		id, err = b.NextSequence()
		return err
	})
	return id, err
}

// Uint64Key renders numeric ids as big-endian keys so they sort numerically.
func Uint64Key(id uint64) string {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], id)
	return string(buf[:])
}
