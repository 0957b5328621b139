// Package config provides loading and environment overlay for journal
// configuration. It exposes a Default() baseline which callers refine from
// a JSON file and JOURNAL_* environment variables before handing it to the
// runtime.
//
// Example:
//
//	cfg := config.Default()
//	if fileCfg, err := config.Load("/etc/flojournal.json"); err == nil {
//	    cfg = fileCfg
//	}
//	config.FromEnv(&cfg)
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//	rt, _ := runtime.Open(ctx, runtime.Options{Config: cfg})
//	defer rt.Close()
package config
