package journal

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// HighestSequenceNr returns the high-water mark for persistenceID. An id that
// was never written returns 0 and no error.
func (j *Journal) HighestSequenceNr(ctx context.Context, persistenceID string) (hi int64, err error) {
	start := time.Now()
	defer func() { j.observe(OpHighestSN, start, err) }()

	if persistenceID == "" {
		return 0, newError(KindInvalidArgument, OpHighestSN, persistenceID, errors.New("empty persistence id"))
	}
	b, ok, getErr := j.store.Get(ctx, HighestKey(persistenceID))
	if getErr != nil {
		return 0, storeError(OpHighestSN, persistenceID, getErr)
	}
	if !ok {
		return 0, nil
	}
	v, parseErr := strconv.ParseInt(string(b), 10, 64)
	if parseErr != nil {
		return 0, newError(KindDecoding, OpHighestSN, persistenceID, errors.Wrap(parseErr, "high-water mark"))
	}
	return v, nil
}
