package journal

import (
	"context"
	"time"

	"github.com/pkg/errors"
	logpkg "github.com/rzbill/flojournal/pkg/log"
)

// ReplayFunc receives replayed records in ascending sequence order. Returning
// an error stops the replay and that error is returned from Replay unchanged.
type ReplayFunc func(Record) error

// Replay delivers up to max records with from <= seq <= to, ascending, using a
// single range query. If a stored record fails to decode, every record before
// it has already been delivered and a KindDecoding error is returned. A
// persistence id that was never written replays nothing and succeeds.
func (j *Journal) Replay(ctx context.Context, persistenceID string, from, to, max int64, fn ReplayFunc) (err error) {
	start := time.Now()
	defer func() { j.observe(OpReplay, start, err) }()

	switch {
	case persistenceID == "":
		return newError(KindInvalidArgument, OpReplay, persistenceID, errors.New("empty persistence id"))
	case from < 0 || to < from:
		return newError(KindInvalidArgument, OpReplay, persistenceID, errors.Errorf("bad range [%d, %d]", from, to))
	case max < 0:
		return newError(KindInvalidArgument, OpReplay, persistenceID, errors.Errorf("negative max %d", max))
	case fn == nil:
		return newError(KindInvalidArgument, OpReplay, persistenceID, errors.New("nil replay func"))
	}
	if max == 0 {
		return nil
	}

	items, rangeErr := j.store.RangeByScore(ctx, JournalKey(persistenceID), from, to, 0, max)
	if rangeErr != nil {
		j.logger.Warn("replay range failed", logpkg.Str("pid", persistenceID), logpkg.Err(rangeErr))
		return storeError(OpReplay, persistenceID, rangeErr)
	}

	delivered := 0
	defer func() { j.metrics.ObserveRecords(OpReplay, delivered) }()
	for _, it := range items {
		rec, decErr := j.codec.Decode(it.Value)
		if decErr != nil {
			return newError(KindDecoding, OpReplay, persistenceID, errors.Wrapf(decErr, "score %d", it.Score))
		}
		if err := fn(rec); err != nil {
			return err
		}
		delivered++
	}
	j.logger.Debug("replayed", logpkg.Str("pid", persistenceID),
		logpkg.Int64("from", from), logpkg.Int64("to", to), logpkg.Int("records", delivered))
	return nil
}
