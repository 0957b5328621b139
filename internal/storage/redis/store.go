package redisstore

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rzbill/flojournal/internal/journal"
)

var _ journal.Store = (*Store)(nil)

// Config is used to build a Redis client.
type Config struct {
	Addr         string
	Username     string
	Password     string
	DB           int
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Store implements journal.Store on a Redis client.
type Store struct {
	client redis.UniversalClient
	owned  bool
}

// New wraps an existing client. Close does not close it.
func New(client redis.UniversalClient) *Store {
	if client == nil {
		panic("redisstore: nil client")
	}
	return &Store{client: client}
}

// Open dials Redis and verifies the connection with PING.
func Open(ctx context.Context, c Config) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         c.Addr,
		Username:     c.Username,
		Password:     c.Password,
		DB:           c.DB,
		PoolSize:     c.PoolSize,
		DialTimeout:  c.DialTimeout,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
	})

	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrapf(err, "redis: ping %s", c.Addr)
	}
	return &Store{client: rdb, owned: true}, nil
}

// Client exposes the underlying client.
func (s *Store) Client() redis.UniversalClient { return s.client }

// Close closes the client if Open created it.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}

// CheckHealth pings the server.
func (s *Store) CheckHealth(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

type op func(ctx context.Context, pipe redis.Pipeliner)

type tx struct{ ops []op }

func (t *tx) SortedInsert(key string, score int64, value []byte) {
	t.ops = append(t.ops, func(ctx context.Context, pipe redis.Pipeliner) {
		pipe.ZAdd(ctx, key, redis.Z{Score: float64(score), Member: value})
	})
}

func (t *tx) Set(key string, value []byte) {
	t.ops = append(t.ops, func(ctx context.Context, pipe redis.Pipeliner) {
		pipe.Set(ctx, key, value, 0)
	})
}

func (t *tx) exec(ctx context.Context, pipe redis.Pipeliner) error {
	for _, o := range t.ops {
		o(ctx, pipe)
	}
	return nil
}

// Transact implements journal.Store.
func (s *Store) Transact(ctx context.Context, watch []string, stage func(journal.Tx) error) error {
	t := &tx{}
	if len(watch) == 0 {
		if err := stage(t); err != nil {
			return err
		}
		_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error { return t.exec(ctx, pipe) })
		return errors.Wrap(err, "redis: multi/exec")
	}

	var stageErr error
	err := s.client.Watch(ctx, func(rtx *redis.Tx) error {
		if stageErr = stage(t); stageErr != nil {
			return stageErr
		}
		_, err := rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error { return t.exec(ctx, pipe) })
		return err
	}, watch...)
	switch {
	case err == nil:
		return nil
	case stageErr != nil:
		return stageErr
	case errors.Is(err, redis.TxFailedErr):
		return journal.ErrConflict
	default:
		return errors.Wrap(err, "redis: watch/exec")
	}
}

func scoreArg(v int64) string {
	switch v {
	case math.MinInt64:
		return "-inf"
	case math.MaxInt64:
		return "+inf"
	default:
		return strconv.FormatInt(v, 10)
	}
}

// RangeByScore implements journal.Store.
func (s *Store) RangeByScore(ctx context.Context, key string, min, max, offset, count int64) ([]journal.ScoredValue, error) {
	if min > max || count == 0 {
		return nil, nil
	}
	by := &redis.ZRangeBy{Min: scoreArg(min), Max: scoreArg(max)}
	if offset > 0 || count > 0 {
		by.Offset = offset
		by.Count = count
		if count < 0 {
			by.Count = -1
		}
	}
	zs, err := s.client.ZRangeByScoreWithScores(ctx, key, by).Result()
	if err != nil {
		return nil, errors.Wrap(err, "redis: zrangebyscore")
	}
	out := make([]journal.ScoredValue, 0, len(zs))
	for _, z := range zs {
		m, ok := z.Member.(string)
		if !ok {
			return nil, errors.Errorf("redis: unexpected member type %T", z.Member)
		}
		out = append(out, journal.ScoredValue{Score: int64(z.Score), Value: []byte(m)})
	}
	return out, nil
}

// RemoveRangeByScore implements journal.Store.
func (s *Store) RemoveRangeByScore(ctx context.Context, key string, min, max int64) error {
	if min > max {
		return nil
	}
	err := s.client.ZRemRangeByScore(ctx, key, scoreArg(min), scoreArg(max)).Err()
	return errors.Wrap(err, "redis: zremrangebyscore")
}

// Get implements journal.Store.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "redis: get")
	}
	return b, true, nil
}
