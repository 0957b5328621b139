package journal

import (
	"context"
	"time"

	"github.com/pkg/errors"
	logpkg "github.com/rzbill/flojournal/pkg/log"
)

// Truncate removes every record with seq <= to. The lower edge is unbounded so
// stray entries below 1 are removed too. The high-water mark is not touched:
// it reports the highest sequence number ever written, not the highest present.
func (j *Journal) Truncate(ctx context.Context, persistenceID string, to int64) (err error) {
	start := time.Now()
	defer func() { j.observe(OpTruncate, start, err) }()

	if persistenceID == "" {
		return newError(KindInvalidArgument, OpTruncate, persistenceID, errors.New("empty persistence id"))
	}
	if rmErr := j.store.RemoveRangeByScore(ctx, JournalKey(persistenceID), MinScore, to); rmErr != nil {
		j.logger.Warn("truncate failed", logpkg.Str("pid", persistenceID), logpkg.Err(rmErr))
		return storeError(OpTruncate, persistenceID, rmErr)
	}
	j.logger.Debug("truncated", logpkg.Str("pid", persistenceID), logpkg.Int64("to", to))
	return nil
}
