// Package history persists the set of already-processed source ids between
// runs, keyed id -> last-processed timestamp in a bbolt database.
package history

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/dileroc6/bigotesfelinos/internal/logger"
)

var bucketName = []byte("history")

// Store is a bbolt-backed append-only set of source ids. Single-writer: one
// scheduled run at a time is assumed, concurrent invocations are not defended.
type Store struct {
	db  *bolt.DB
	log logger.Logger
}

// Open opens (or creates) the history database at path. It never fails: an
// unusable database degrades to an empty history, which only means items may
// be reprocessed. Record will report the condition to its caller.
func Open(path string, log logger.Logger) *Store {
	if log == nil {
		log = logger.NopLogger{}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		log.WarnObj("history db unusable, starting empty", "history_open_error", map[string]any{
			"path":  path,
			"error": err.Error(),
		})
		db = nil
	}
	return &Store{db: db, log: log}
}

// Close releases the underlying database file.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load returns every recorded source id as a set. A missing bucket or a read
// failure yields an empty set, never an error.
func (s *Store) Load() map[string]struct{} {
	seen := make(map[string]struct{})
	if s.db == nil {
		return seen
	}

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, _ []byte) error {
			seen[string(k)] = struct{}{}
			return nil
		})
	})
	if err != nil {
		s.log.WarnObj("history load failed, starting empty", "history_load_error", map[string]any{
			"error": err.Error(),
		})
		return make(map[string]struct{})
	}

	return seen
}

// Record appends the given ids with the current timestamp. Callers pre-filter
// duplicates; re-recording an id only refreshes its timestamp. A failure here
// must not cancel completed publications, so callers log and move on.
func (s *Store) Record(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if s.db == nil {
		return fmt.Errorf("history db unavailable")
	}

	now := time.Now().UTC().Format(time.RFC3339)
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketName)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if id == "" {
				continue
			}
			if err := b.Put([]byte(id), []byte(now)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("record history ids: %w", err)
	}
	return nil
}
