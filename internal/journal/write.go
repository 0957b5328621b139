package journal

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	logpkg "github.com/rzbill/flojournal/pkg/log"
	"golang.org/x/sync/errgroup"
)

// AtomicWrite is one all-or-nothing batch for a single persistence id.
type AtomicWrite struct {
	PersistenceID     string
	Records           []Record
	HighestSequenceNr int64
}

// Write appends records for persistenceID as a single atomic batch and sets the
// high-water mark to highest. The high-water key is watched for the duration of
// the transaction: if another writer moves it first the batch is rejected with
// KindConflict and none of its records become visible.
func (j *Journal) Write(ctx context.Context, persistenceID string, records []Record, highest int64) (err error) {
	start := time.Now()
	defer func() { j.observe(OpWrite, start, err) }()

	if persistenceID == "" {
		return newError(KindInvalidArgument, OpWrite, persistenceID, errors.New("empty persistence id"))
	}
	if len(records) == 0 {
		return newError(KindInvalidArgument, OpWrite, persistenceID, errors.New("empty batch"))
	}

	// Encode everything up front so a bad record never leaves a partial stage.
	values := make([][]byte, len(records))
	for i, r := range records {
		b, encErr := j.codec.Encode(r)
		if encErr != nil {
			return newError(KindEncoding, OpWrite, persistenceID, errors.Wrapf(encErr, "record %d", i))
		}
		values[i] = b
	}

	logKey := JournalKey(persistenceID)
	hiKey := HighestKey(persistenceID)
	hiVal := []byte(strconv.FormatInt(highest, 10))

	txErr := j.store.Transact(ctx, []string{hiKey}, func(tx Tx) error {
		for i, r := range records {
			tx.SortedInsert(logKey, r.SequenceNr, values[i])
		}
		tx.Set(hiKey, hiVal)
		return nil
	})
	if txErr != nil {
		jerr := storeError(OpWrite, persistenceID, txErr)
		if jerr.Kind == KindConflict {
			j.logger.Debug("write rejected by concurrent writer",
				logpkg.Str("pid", persistenceID), logpkg.Int64("highest", highest))
		} else {
			j.logger.Warn("write failed", logpkg.Str("pid", persistenceID), logpkg.Err(txErr))
		}
		return jerr
	}
	j.metrics.ObserveRecords(OpWrite, len(records))
	return nil
}

// WriteMany runs each write independently and concurrently. The result has one
// entry per input in the same order; a nil entry means that batch committed.
// A failing batch never cancels or affects the others.
func (j *Journal) WriteMany(ctx context.Context, writes []AtomicWrite) []error {
	results := make([]error, len(writes))
	if len(writes) == 0 {
		return results
	}

	// Not errgroup.WithContext: one failure must not cancel its siblings.
	var g errgroup.Group
	if j.limit > 0 {
		g.SetLimit(j.limit)
	}
	for i := range writes {
		i := i
		g.Go(func() error {
			w := writes[i]
			results[i] = j.Write(ctx, w.PersistenceID, w.Records, w.HighestSequenceNr)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
