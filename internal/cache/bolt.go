package cache

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	responseBucket = "responses"
	expiryBytes    = 8
)

var errBucketMissing = errors.New("response bucket missing")

// boltStore implements Store on top of bbolt. Each value is an 8-byte
// big-endian expiry followed by the response body.
type boltStore struct {
	db              *bolt.DB
	ttl             time.Duration
	cleanupInterval time.Duration
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	nowFunc         func() time.Time
}

func openBolt(path string, opts Options, now func() time.Time) (*boltStore, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(responseBucket))
		return err
	}); err != nil {
		_ = db.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	s := &boltStore{
		db:              db,
		ttl:             opts.TTL,
		cleanupInterval: opts.CleanupInterval,
		nowFunc:         now,
	}
	s.lastCleanup.Store(now().Unix())
	return s, nil
}

// Get returns the cached body for key. Expired entries are deleted and
// reported as a miss.
func (s *boltStore) Get(key string) ([]byte, bool, error) {
	now := s.nowFunc()
	if err := s.maybeCleanup(now); err != nil {
		return nil, false, err
	}

	var body []byte
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(responseBucket))
		if bucket == nil {
			return errBucketMissing
		}

		value := bucket.Get([]byte(key))
		if value == nil {
			return nil
		}

		expiry, ok := decodeExpiry(value)
		if !ok || !expiry.After(now) {
			return bucket.Delete([]byte(key))
		}

		// bbolt values are only valid inside the transaction.
		body = append([]byte{}, value[expiryBytes:]...)
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}
	return body, body != nil, nil
}

// Put stores body under key for the configured TTL.
func (s *boltStore) Put(key string, body []byte) error {
	now := s.nowFunc()
	if err := s.maybeCleanup(now); err != nil {
		return err
	}

	value := make([]byte, expiryBytes+len(body))
	binary.BigEndian.PutUint64(value, uint64(now.Add(s.ttl).Unix())) //nolint:gosec // unix time is positive
	copy(value[expiryBytes:], body)

	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(responseBucket))
		if bucket == nil {
			return errBucketMissing
		}
		return bucket.Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *boltStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// maybeCleanup sweeps expired entries at most once per cleanup interval.
func (s *boltStore) maybeCleanup(now time.Time) error {
	if now.Sub(time.Unix(s.lastCleanup.Load(), 0)) < s.cleanupInterval {
		return nil
	}

	s.cleanupMu.Lock()
	defer s.cleanupMu.Unlock()

	if now.Sub(time.Unix(s.lastCleanup.Load(), 0)) < s.cleanupInterval {
		return nil
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(responseBucket))
		if bucket == nil {
			return errBucketMissing
		}

		// Deleting through a cursor mid-iteration can skip keys.
		var expired [][]byte
		c := bucket.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			expiry, ok := decodeExpiry(v)
			if !ok || !expiry.After(now) {
				expired = append(expired, append([]byte{}, k...))
			}
		}
		for _, k := range expired {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sweeping expired entries: %w", err)
	}

	s.lastCleanup.Store(now.Unix())
	return nil
}

func decodeExpiry(value []byte) (time.Time, bool) {
	if len(value) < expiryBytes {
		return time.Time{}, false
	}
	unix := int64(binary.BigEndian.Uint64(value[:expiryBytes])) //nolint:gosec // written by Put
	if unix <= 0 {
		return time.Time{}, false
	}
	return time.Unix(unix, 0), true
}
