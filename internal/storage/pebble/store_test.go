package pebblestore

import (
	"bytes"
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rzbill/flojournal/internal/journal"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := Open(Options{DataDir: t.TempDir(), Fsync: FsyncModeAlways})
	if err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	s := NewStore(db)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func insert(t *testing.T, s *Store, key string, scores ...int64) {
	t.Helper()
	err := s.Transact(context.Background(), nil, func(tx journal.Tx) error {
		for _, sc := range scores {
			tx.SortedInsert(key, sc, []byte{byte(sc)})
		}
		return nil
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
}

func scores(vs []journal.ScoredValue) []int64 {
	out := make([]int64, len(vs))
	for i, v := range vs {
		out[i] = v.Score
	}
	return out
}

func equal(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestKeyOrderingMembers(t *testing.T) {
	a := keySortedMember("journal:x", -1)
	b := keySortedMember("journal:x", 0)
	c := keySortedMember("journal:x", 10)
	if bytes.Compare(a, b) >= 0 || bytes.Compare(b, c) >= 0 {
		t.Fatalf("expected -1 < 0 < 10 in key order")
	}
	if bytes.HasPrefix(keySortedMember("journal:x:y", 1), keySortedPrefix("journal:x")) {
		t.Fatalf("one container must not prefix another")
	}
}

func TestRangeOrderedAndCapped(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	insert(t, s, "z", 3, 1, 2, 5, 4)

	all, err := s.RangeByScore(ctx, "z", math.MinInt64, math.MaxInt64, 0, -1)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if !equal(scores(all), []int64{1, 2, 3, 4, 5}) {
		t.Fatalf("unexpected order: %v", scores(all))
	}
	if all[0].Value[0] != 1 {
		t.Fatalf("value mismatch")
	}

	capped, err := s.RangeByScore(ctx, "z", 2, 5, 1, 2)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if !equal(scores(capped), []int64{3, 4}) {
		t.Fatalf("offset/count not honored: %v", scores(capped))
	}
}

func TestRangeMissingKey(t *testing.T) {
	s := newTestStore(t)
	got, err := s.RangeByScore(context.Background(), "missing", 0, 100, 0, 10)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty, got %d", len(got))
	}
}

func TestRemoveRangeUnboundedLower(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	insert(t, s, "z", -2, 0, 1, 2, 3)
	insert(t, s, "other", 1)

	if err := s.RemoveRangeByScore(ctx, "z", math.MinInt64, 2); err != nil {
		t.Fatalf("remove: %v", err)
	}
	left, err := s.RangeByScore(ctx, "z", math.MinInt64, math.MaxInt64, 0, -1)
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if !equal(scores(left), []int64{3}) {
		t.Fatalf("unexpected survivors: %v", scores(left))
	}
	other, _ := s.RangeByScore(ctx, "other", math.MinInt64, math.MaxInt64, 0, -1)
	if len(other) != 1 {
		t.Fatalf("remove leaked into another key")
	}
}

func TestTransactConflictOnWatchedKey(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.Transact(ctx, []string{"hi"}, func(tx journal.Tx) error {
		// a second writer commits while this transaction is staging
		if err := s.Transact(ctx, []string{"hi"}, func(inner journal.Tx) error {
			inner.SortedInsert("z", 2, []byte("b"))
			inner.Set("hi", []byte("2"))
			return nil
		}); err != nil {
			t.Fatalf("inner: %v", err)
		}
		tx.SortedInsert("z", 1, []byte("a"))
		tx.Set("hi", []byte("1"))
		return nil
	})
	if !errors.Is(err, journal.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	v, ok, _ := s.Get(ctx, "hi")
	if !ok || string(v) != "2" {
		t.Fatalf("expected inner write to win, got %q", v)
	}
	got, _ := s.RangeByScore(ctx, "z", math.MinInt64, math.MaxInt64, 0, -1)
	if !equal(scores(got), []int64{2}) {
		t.Fatalf("aborted stage leaked: %v", scores(got))
	}
}

func TestTransactStageErrorAborts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")
	err := s.Transact(ctx, []string{"hi"}, func(tx journal.Tx) error {
		tx.Set("hi", []byte("1"))
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected stage error, got %v", err)
	}
	if _, ok, _ := s.Get(ctx, "hi"); ok {
		t.Fatalf("aborted stage must not be visible")
	}
}

func TestUnrelatedKeysDoNotConflict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	err := s.Transact(ctx, []string{"a"}, func(tx journal.Tx) error {
		if err := s.Transact(ctx, []string{"b"}, func(inner journal.Tx) error {
			inner.Set("b", []byte("1"))
			return nil
		}); err != nil {
			t.Fatalf("inner: %v", err)
		}
		tx.Set("a", []byte("1"))
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected conflict across keys: %v", err)
	}
}

func TestHealth(t *testing.T) {
	s := newTestStore(t)
	if err := s.CheckHealth(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
}
