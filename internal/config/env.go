package config

import (
	"os"
	"strconv"
	"time"
)

// FromEnv overlays JOURNAL_* environment variables onto cfg. Unparseable
// values are ignored.
func FromEnv(cfg *Config) {
	if v := os.Getenv("JOURNAL_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("JOURNAL_CODEC"); v != "" {
		cfg.Codec = v
	}
	if v := os.Getenv("JOURNAL_MAX_CONCURRENT_WRITES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxConcurrentWrites = n
		}
	}
	if v := os.Getenv("JOURNAL_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("JOURNAL_REDIS_USERNAME"); v != "" {
		cfg.Redis.Username = v
	}
	if v := os.Getenv("JOURNAL_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("JOURNAL_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = n
		}
	}
	if v := os.Getenv("JOURNAL_REDIS_POOL_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Redis.PoolSize = n
		}
	}
	envDuration("JOURNAL_REDIS_DIAL_TIMEOUT", &cfg.Redis.DialTimeout)
	envDuration("JOURNAL_REDIS_READ_TIMEOUT", &cfg.Redis.ReadTimeout)
	envDuration("JOURNAL_REDIS_WRITE_TIMEOUT", &cfg.Redis.WriteTimeout)
	if v := os.Getenv("JOURNAL_PEBBLE_DATA_DIR"); v != "" {
		cfg.Pebble.DataDir = v
	}
	if v := os.Getenv("JOURNAL_PEBBLE_FSYNC"); v != "" {
		cfg.Pebble.Fsync = v
	}
	envDuration("JOURNAL_PEBBLE_FSYNC_INTERVAL", &cfg.Pebble.FsyncInterval)
	if v := os.Getenv("JOURNAL_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("JOURNAL_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("JOURNAL_METRICS_NAMESPACE"); v != "" {
		cfg.Metrics.Namespace = v
	}
}

func envDuration(key string, dst *Duration) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = Duration(d)
		}
	}
}
