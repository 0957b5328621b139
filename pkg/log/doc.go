// Package log provides the structured logging facade used across the journal.
//
// # Overview
//
// The package exposes a small Logger interface with leveled methods and a
// Field type for structured context. It is backed by zap: JSON output for
// production and a console encoder for humans.
//
// Quick start
//
//	l := log.NewLogger(
//	    log.WithLevel(log.InfoLevel),
//	    log.WithFormat(log.FormatText),
//	)
//	l = l.With(log.Component("journal"), log.Str("pid", "acct-1"))
//	l.Info("replayed", log.Int("records", 42))
//
// # Configuration
//
// Use ApplyConfig to build a logger from a declarative Config (level and
// format). Code under test should use NewNop.
//
// # Interop
//
// RedirectStdLog routes the standard library logger (used by Pebble) through
// a Logger built by this package.
package log
