package journal

import (
	"time"

	logpkg "github.com/rzbill/flojournal/pkg/log"
)

// Operation names used in errors, logs and metrics.
const (
	OpWrite     = "write"
	OpReplay    = "replay"
	OpTruncate  = "truncate"
	OpHighestSN = "highest_sequence_nr"
)

// Metrics is a minimal hook surface for journal observations.
type Metrics interface {
	ObserveOp(op string, elapsed time.Duration, err error)
	ObserveRecords(op string, n int)
}

// NoopMetrics is used when no metrics hook is provided.
type NoopMetrics struct{}

func (NoopMetrics) ObserveOp(string, time.Duration, error) {}
func (NoopMetrics) ObserveRecords(string, int)             {}

// Options configures a Journal.
type Options struct {
	// Codec encodes records for storage. Defaults to JSONCodec.
	Codec RecordCodec
	// MaxConcurrentWrites bounds the batches WriteMany runs at once. 0 means unbounded.
	MaxConcurrentWrites int
	// Logger receives debug/warn diagnostics. Defaults to a no-op logger.
	Logger logpkg.Logger
	// Metrics observes operation latencies and record counts. Optional.
	Metrics Metrics
}

// Journal is the event journal for all persistence ids on one Store.
// It keeps no per-id state and is safe for concurrent use.
type Journal struct {
	store   Store
	codec   RecordCodec
	limit   int
	logger  logpkg.Logger
	metrics Metrics
}

// New builds a Journal over store.
func New(store Store, opts Options) *Journal {
	if store == nil {
		panic("journal: nil store")
	}
	j := &Journal{
		store:   store,
		codec:   opts.Codec,
		limit:   opts.MaxConcurrentWrites,
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
	if j.codec == nil {
		j.codec = JSONCodec{}
	}
	if j.logger == nil {
		j.logger = logpkg.NewNop()
	}
	j.logger = j.logger.WithComponent("journal")
	if j.metrics == nil {
		j.metrics = NoopMetrics{}
	}
	return j
}

// Codec returns the record codec in use.
func (j *Journal) Codec() RecordCodec { return j.codec }

func (j *Journal) observe(op string, start time.Time, err error) {
	j.metrics.ObserveOp(op, time.Since(start), err)
}
