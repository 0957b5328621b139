// Package admin provides the `flojournal` command-line tool.
//
// The CLI opens the configured backend directly and runs one journal
// operation per invocation. It is intended for operators inspecting or
// repairing journals, not for application writes.
//
// # Configuration
//
// Settings are resolved from, in increasing precedence: built-in defaults,
// the JSON file given by --config, JOURNAL_* environment variables, and
// command-line flags.
//
// Usage
//
//	flojournal highest --id order-1
//
//	flojournal replay --id order-1 --from 1 --to 100 --max 50
//
//	flojournal write --id order-1 --seq 3 --data '{"status":"shipped"}'
//
//	flojournal truncate --id order-1 --to 2
//
//	flojournal health --backend pebble --data-dir ./data
package admin
