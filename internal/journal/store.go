package journal

import (
	"context"
	"math"

	"github.com/pkg/errors"
)

// MinScore stands for an unbounded lower score edge in range operations.
const MinScore int64 = math.MinInt64

// MaxScore stands for an unbounded upper score edge in range operations.
const MaxScore int64 = math.MaxInt64

// ErrConflict is returned by Store.Transact when a watched key changed between
// the start of the transaction and its commit. Nothing staged is applied.
var ErrConflict = errors.New("watched key changed before commit")

// ScoredValue is one member of a sorted container.
type ScoredValue struct {
	Score int64
	Value []byte
}

// Tx collects operations staged inside Store.Transact. Staged operations are
// applied together on commit or not at all.
type Tx interface {
	// SortedInsert adds value to the sorted container at key with score,
	// replacing an identical member.
	SortedInsert(key string, score int64, value []byte)
	// Set overwrites the scalar at key.
	Set(key string, value []byte)
}

// Store is the key-value transport the journal runs on.
type Store interface {
	// Transact watches the given keys, runs stage to collect operations and
	// commits them as one unit. If stage returns an error nothing is committed
	// and that error is returned. If a watched key changed before commit the
	// result is ErrConflict.
	Transact(ctx context.Context, watch []string, stage func(Tx) error) error

	// RangeByScore returns members of key with min <= score <= max in
	// ascending score order, skipping offset members and returning at most
	// count (count < 0 means no cap). A missing key yields an empty result.
	RangeByScore(ctx context.Context, key string, min, max, offset, count int64) ([]ScoredValue, error)

	// RemoveRangeByScore deletes members of key with min <= score <= max.
	// MinScore and MaxScore are treated as unbounded edges.
	RemoveRangeByScore(ctx context.Context, key string, min, max int64) error

	// Get returns the scalar at key and whether it exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
}
