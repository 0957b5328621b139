package admin

import (
	"github.com/pkg/errors"
	cfgpkg "github.com/rzbill/flojournal/internal/config"
	"github.com/rzbill/flojournal/internal/runtime"
	"github.com/spf13/cobra"
)

// NewRoot constructs the root Cobra command and registers the journal
// subcommands.
func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "flojournal",
		Short:         "Event journal admin CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.String("config", "", "Path to a JSON config file")
	pf.String("backend", "", "Storage backend: redis|pebble")
	pf.String("redis-addr", "", "Redis address host:port")
	pf.String("data-dir", "", "Pebble data directory (if not specified, uses OS-specific application data directory)")
	pf.String("fsync", "", "Pebble fsync mode: always|interval|never")
	pf.String("codec", "", "Record codec: json|binary|proto")
	pf.String("log-level", "", "Log level: debug|info|warn|error")
	pf.String("log-format", "", "Log format: text|json")

	root.AddCommand(
		newHighestCommand(),
		newReplayCommand(),
		newTruncateCommand(),
		newWriteCommand(),
		newHealthCommand(),
	)
	return root
}

// loadConfig resolves defaults, file, env and flags in that order.
func loadConfig(cmd *cobra.Command) (cfgpkg.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := cfgpkg.Load(path)
	if err != nil {
		return cfgpkg.Config{}, err
	}
	cfgpkg.FromEnv(&cfg)

	overlay := func(name string, dst *string) {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	overlay("backend", &cfg.Backend)
	overlay("redis-addr", &cfg.Redis.Addr)
	overlay("data-dir", &cfg.Pebble.DataDir)
	overlay("fsync", &cfg.Pebble.Fsync)
	overlay("codec", &cfg.Codec)
	overlay("log-level", &cfg.Log.Level)
	overlay("log-format", &cfg.Log.Format)
	return cfg, nil
}

// withRuntime opens a runtime for the duration of fn.
func withRuntime(cmd *cobra.Command, fn func(*runtime.Runtime) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	rt, err := runtime.Open(cmd.Context(), runtime.Options{Config: cfg})
	if err != nil {
		return err
	}
	defer func() { _ = rt.Close() }()
	return fn(rt)
}

func requireID(cmd *cobra.Command) (string, error) {
	id, _ := cmd.Flags().GetString("id")
	if id == "" {
		return "", errors.New("--id is required")
	}
	return id, nil
}
