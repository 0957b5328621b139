// Package metrics exports journal and storage observations to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rzbill/flojournal/internal/journal"
	pebblestore "github.com/rzbill/flojournal/internal/storage/pebble"
)

var (
	_ journal.Metrics         = (*Collector)(nil)
	_ pebblestore.MetricsHook = (*Collector)(nil)
)

// Collector implements journal.Metrics and pebblestore.MetricsHook.
type Collector struct {
	opDuration    *prometheus.HistogramVec
	records       *prometheus.CounterVec
	commitBytes   prometheus.Histogram
	readBytes     prometheus.Counter
	commitLatency prometheus.Histogram
}

// New builds a Collector and registers it with reg.
func New(reg prometheus.Registerer, namespace string) (*Collector, error) {
	c := &Collector{
		opDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "journal",
				Name:      "op_duration_seconds",
				Help:      "latency of journal operations by outcome",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op", "outcome"},
		),
		records: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "journal",
				Name:      "records_total",
				Help:      "records written or replayed",
			},
			[]string{"op"},
		),
		commitBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "commit_bytes",
			Help:      "size of committed storage batches",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
		}),
		commitLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "commit_duration_seconds",
			Help:      "latency of storage batch commits",
			Buckets:   prometheus.DefBuckets,
		}),
		readBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "read_bytes_total",
			Help:      "bytes returned by point reads",
		}),
	}
	for _, col := range []prometheus.Collector{c.opDuration, c.records, c.commitBytes, c.commitLatency, c.readBytes} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return journal.KindOf(err).String()
}

// ObserveOp implements journal.Metrics.
func (c *Collector) ObserveOp(op string, elapsed time.Duration, err error) {
	c.opDuration.WithLabelValues(op, outcome(err)).Observe(elapsed.Seconds())
}

// ObserveRecords implements journal.Metrics.
func (c *Collector) ObserveRecords(op string, n int) {
	c.records.WithLabelValues(op).Add(float64(n))
}

// ObserveRead implements pebblestore.MetricsHook.
func (c *Collector) ObserveRead(_ time.Duration, bytes int) {
	c.readBytes.Add(float64(bytes))
}

// ObserveBatchCommit implements pebblestore.MetricsHook.
func (c *Collector) ObserveBatchCommit(elapsed time.Duration, bytes int) {
	c.commitLatency.Observe(elapsed.Seconds())
	c.commitBytes.Observe(float64(bytes))
}
