package pebblestore

import (
	"context"
	"sync"

	"github.com/cockroachdb/pebble"
	"github.com/pkg/errors"
	"github.com/rzbill/flojournal/internal/journal"
)

var _ journal.Store = (*Store)(nil)

// Store implements journal.Store on an embedded Pebble database.
//
// Pebble has no WATCH, so optimistic transactions are emulated in process:
// every logical key carries a version bumped by each commit that touches it,
// and a transaction commits only if its watched versions are unchanged. This
// is only correct while a single process owns the data directory.
type Store struct {
	db *DB

	mu       sync.Mutex
	versions map[string]uint64
}

// NewStore wraps an open DB.
func NewStore(db *DB) *Store {
	return &Store{db: db, versions: make(map[string]uint64)}
}

// DB exposes the underlying DB.
func (s *Store) DB() *DB { return s.db }

// Close closes the underlying DB.
func (s *Store) Close() error { return s.db.Close() }

// CheckHealth opens and closes an iterator.
func (s *Store) CheckHealth(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	it, err := s.db.NewIter(nil)
	if err != nil {
		return err
	}
	return it.Close()
}

type tx struct {
	batch   *pebble.Batch
	touched map[string]struct{}
	err     error
}

func (t *tx) SortedInsert(key string, score int64, value []byte) {
	if t.err != nil {
		return
	}
	t.err = t.batch.Set(keySortedMember(key, score), value, nil)
	t.touched[key] = struct{}{}
}

func (t *tx) Set(key string, value []byte) {
	if t.err != nil {
		return
	}
	t.err = t.batch.Set(keyScalar(key), value, nil)
	t.touched[key] = struct{}{}
}

// Transact implements journal.Store.
func (s *Store) Transact(ctx context.Context, watch []string, stage func(journal.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	seen := make(map[string]uint64, len(watch))
	for _, k := range watch {
		seen[k] = s.versions[k]
	}
	s.mu.Unlock()

	t := &tx{batch: s.db.NewBatch(), touched: make(map[string]struct{})}
	defer t.batch.Close()
	if err := stage(t); err != nil {
		return err
	}
	if t.err != nil {
		return errors.Wrap(t.err, "pebble: stage")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range seen {
		if s.versions[k] != v {
			return journal.ErrConflict
		}
	}
	if err := s.db.CommitBatch(ctx, t.batch); err != nil {
		return errors.Wrap(err, "pebble: commit")
	}
	for k := range t.touched {
		s.versions[k]++
	}
	return nil
}

// RangeByScore implements journal.Store.
func (s *Store) RangeByScore(ctx context.Context, key string, min, max, offset, count int64) ([]journal.ScoredValue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if min > max || count == 0 {
		return nil, nil
	}
	lower, upper := sortedBounds(key, min, max)
	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: lower, UpperBound: upper})
	if err != nil {
		return nil, errors.Wrap(err, "pebble: iter")
	}
	defer iter.Close()

	var out []journal.ScoredValue
	var skipped int64
	for ok := iter.First(); ok; ok = iter.Next() {
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, journal.ScoredValue{
			Score: scoreOfMember(iter.Key()),
			Value: append([]byte(nil), iter.Value()...),
		})
		if count > 0 && int64(len(out)) >= count {
			break
		}
	}
	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(err, "pebble: iterate")
	}
	return out, nil
}

// RemoveRangeByScore implements journal.Store.
func (s *Store) RemoveRangeByScore(ctx context.Context, key string, min, max int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if min > max {
		return nil
	}
	lower, upper := sortedBounds(key, min, max)
	b := s.db.NewBatch()
	defer b.Close()
	if err := b.DeleteRange(lower, upper, nil); err != nil {
		return errors.Wrap(err, "pebble: delete range")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.CommitBatch(ctx, b); err != nil {
		return errors.Wrap(err, "pebble: commit")
	}
	s.versions[key]++
	return nil
}

// Get implements journal.Store.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	v, ok, err := s.db.Get(keyScalar(key))
	if err != nil {
		return nil, false, errors.Wrap(err, "pebble: get")
	}
	return v, ok, nil
}
