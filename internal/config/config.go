package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// Backend names.
const (
	BackendRedis  = "redis"
	BackendPebble = "pebble"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	Backend             string        `json:"backend"`
	Codec               string        `json:"codec"`
	MaxConcurrentWrites int           `json:"maxConcurrentWrites"`
	Redis               RedisConfig   `json:"redis"`
	Pebble              PebbleConfig  `json:"pebble"`
	Log                 LogConfig     `json:"log"`
	Metrics             MetricsConfig `json:"metrics"`
}

// RedisConfig captures connection settings for the Redis backend.
type RedisConfig struct {
	Addr         string   `json:"addr"`
	Username     string   `json:"username"`
	Password     string   `json:"password"`
	DB           int      `json:"db"`
	PoolSize     int      `json:"poolSize"`
	DialTimeout  Duration `json:"dialTimeout"`
	ReadTimeout  Duration `json:"readTimeout"`
	WriteTimeout Duration `json:"writeTimeout"`
}

// PebbleConfig captures settings for the embedded backend.
type PebbleConfig struct {
	DataDir       string   `json:"dataDir"`
	Fsync         string   `json:"fsync"`
	FsyncInterval Duration `json:"fsyncInterval"`
}

type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

type MetricsConfig struct {
	Namespace string `json:"namespace"`
}

// Duration is a time.Duration that reads "250ms"-style strings from JSON.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.Wrap(err, "duration must be a string like \"500ms\"")
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default returns built-in defaults.
func Default() Config {
	return Config{
		Backend: BackendRedis,
		Codec:   "json",
		Redis: RedisConfig{
			Addr:         "127.0.0.1:6379",
			PoolSize:     16,
			DialTimeout:  Duration(5 * time.Second),
			ReadTimeout:  Duration(3 * time.Second),
			WriteTimeout: Duration(3 * time.Second),
		},
		Pebble: PebbleConfig{
			Fsync:         "always",
			FsyncInterval: Duration(5 * time.Millisecond),
		},
		Log:     LogConfig{Level: "info", Format: "text"},
		Metrics: MetricsConfig{Namespace: "flojournal"},
	}
}

// Load reads configuration from a JSON file. If path is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return Config{}, errors.New("yaml config not supported; use JSON")
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

// Validate reports settings that cannot be used to build a runtime.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("redis.addr is required for the redis backend")
		}
	case BackendPebble:
	default:
		return errors.Errorf("unknown backend %q; use redis|pebble", c.Backend)
	}
	switch c.Codec {
	case "", "json", "binary", "proto":
	default:
		return errors.Errorf("unknown codec %q; use json|binary|proto", c.Codec)
	}
	if c.MaxConcurrentWrites < 0 {
		return errors.New("maxConcurrentWrites must be >= 0")
	}
	return nil
}
