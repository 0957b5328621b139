// Package journal implements the per-entity event journal used by event-sourced
// entities.
//
// # Overview
//
// Each entity is identified by a persistence id and owns an append-only log of
// records. The log lives in a sorted container scored by sequence number, and a
// scalar high-water mark tracks the highest sequence number ever written:
//   - journal:{pid}                    (sorted container: score=seq, value=encoded record)
//   - journal:{pid}:highestSequenceNr  (decimal high-water mark)
//
// Writes are optimistic. Every batch for a persistence id updates the
// high-water key inside the same transaction as its log inserts, and that key
// is watched, so two racing batches for one id cannot both commit.
//
// API surface
//
//	j := journal.New(store, journal.Options{})
//	// Append one batch atomically
//	err := j.Write(ctx, "acct-1", []journal.Record{{SequenceNr: 1, Payload: p}}, 1)
//
//	// Append many batches; one result per input, same order
//	errs := j.WriteMany(ctx, writes)
//
//	// Replay [from, to] ascending, at most max records
//	err = j.Replay(ctx, "acct-1", 0, 10, 100, func(r journal.Record) error { return nil })
//
//	// Drop everything at or below seq 5; high-water mark is untouched
//	err = j.Truncate(ctx, "acct-1", 5)
//
//	hi, err := j.HighestSequenceNr(ctx, "acct-1")
//
// The journal never retries. Conflicts and transport failures are reported
// through *Error and IsRetryable lets callers decide whether to resubmit.
package journal
