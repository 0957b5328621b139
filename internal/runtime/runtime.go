package runtime

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	cfgpkg "github.com/rzbill/flojournal/internal/config"
	"github.com/rzbill/flojournal/internal/journal"
	"github.com/rzbill/flojournal/internal/metrics"
	pebblestore "github.com/rzbill/flojournal/internal/storage/pebble"
	redisstore "github.com/rzbill/flojournal/internal/storage/redis"
	logpkg "github.com/rzbill/flojournal/pkg/log"
)

// Options for building the Runtime.
type Options struct {
	Config cfgpkg.Config
	// Logger defaults to one built from Config.Log.
	Logger logpkg.Logger
	// Registerer receives the journal collectors. Defaults to a private registry.
	Registerer prometheus.Registerer
}

// Store is a journal.Store that owns resources and can report health.
type Store interface {
	journal.Store
	io.Closer
	CheckHealth(ctx context.Context) error
}

// Runtime wires storage, config, and the journal for a single process.
type Runtime struct {
	id      string
	store   Store
	journal *journal.Journal
	config  cfgpkg.Config
	logger  logpkg.Logger
	metrics *metrics.Collector
	restore func()
}

// Open validates the config, opens the configured backend and returns a Runtime.
func Open(ctx context.Context, opts Options) (*Runtime, error) {
	cfg := opts.Config
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "runtime: invalid config")
	}

	logger := opts.Logger
	if logger == nil {
		l, err := logpkg.ApplyConfig(&logpkg.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
		if err != nil {
			return nil, errors.Wrap(err, "runtime: logger")
		}
		logger = l
	}

	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	collector, err := metrics.New(reg, cfg.Metrics.Namespace)
	if err != nil {
		return nil, errors.Wrap(err, "runtime: metrics")
	}

	codec, err := journal.CodecByName(cfg.Codec)
	if err != nil {
		return nil, errors.Wrap(err, "runtime: codec")
	}

	id := uuid.NewString()
	logger = logger.With(logpkg.Str("instance", id))
	rt := &Runtime{id: id, config: cfg, logger: logger.WithComponent("runtime"), metrics: collector, restore: func() {}}
	switch cfg.Backend {
	case cfgpkg.BackendPebble:
		rt.store, err = rt.openPebble(cfg.Pebble)
	default:
		rt.store, err = openRedis(ctx, cfg.Redis)
	}
	if err != nil {
		rt.restore()
		return nil, err
	}

	rt.journal = journal.New(rt.store, journal.Options{
		Codec:               codec,
		MaxConcurrentWrites: cfg.MaxConcurrentWrites,
		Logger:              logger,
		Metrics:             collector,
	})
	rt.logger.Info("journal runtime opened",
		logpkg.Str("backend", cfg.Backend),
		logpkg.Str("codec", cfg.Codec))
	return rt, nil
}

func (r *Runtime) openPebble(pc cfgpkg.PebbleConfig) (Store, error) {
	mode, err := pebblestore.ParseFsyncMode(pc.Fsync)
	if err != nil {
		return nil, err
	}
	dir := pc.DataDir
	if dir == "" {
		dir = cfgpkg.DefaultDataDir()
	}
	// Pebble reports through the standard library logger.
	r.restore = logpkg.RedirectStdLog(r.logger.With(logpkg.Str("backend", "pebble")))
	db, err := pebblestore.Open(pebblestore.Options{
		DataDir:       dir,
		Fsync:         mode,
		FsyncInterval: pc.FsyncInterval.Std(),
		Metrics:       r.metrics,
	})
	if err != nil {
		return nil, err
	}
	return pebblestore.NewStore(db), nil
}

func openRedis(ctx context.Context, rc cfgpkg.RedisConfig) (Store, error) {
	return redisstore.Open(ctx, redisstore.Config{
		Addr:         rc.Addr,
		Username:     rc.Username,
		Password:     rc.Password,
		DB:           rc.DB,
		PoolSize:     rc.PoolSize,
		DialTimeout:  rc.DialTimeout.Std(),
		ReadTimeout:  rc.ReadTimeout.Std(),
		WriteTimeout: rc.WriteTimeout.Std(),
	})
}

// Close closes underlying resources.
func (r *Runtime) Close() error {
	if r.store == nil {
		return nil
	}
	err := r.store.Close()
	r.store = nil
	r.restore()
	_ = r.logger.Sync()
	return err
}

// CheckHealth performs a backend round trip.
func (r *Runtime) CheckHealth(ctx context.Context) error {
	if r.store == nil {
		return errors.New("store not open")
	}
	return r.store.CheckHealth(ctx)
}

// Journal returns the journal bound to the configured backend.
func (r *Runtime) Journal() *journal.Journal { return r.journal }

// Store exposes the underlying store (internal use only).
func (r *Runtime) Store() Store { return r.store }

// InstanceID identifies this runtime in logs. It changes on every Open.
func (r *Runtime) InstanceID() string { return r.id }

// Config returns the runtime configuration.
func (r *Runtime) Config() cfgpkg.Config { return r.config }

// Logger returns the runtime logger.
func (r *Runtime) Logger() logpkg.Logger { return r.logger }
