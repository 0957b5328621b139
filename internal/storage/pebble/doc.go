// Package pebblestore provides an embedded journal.Store on Pebble, plus a
// thin DB wrapper with fsync policy, batches, and minimal metrics hooks.
//
// Usage:
//
//	db, err := pebblestore.Open(pebblestore.Options{
//	    DataDir: "./data",
//	    Fsync:   pebblestore.FsyncModeInterval,
//	})
//	if err != nil { /* handle */ }
//	store := pebblestore.NewStore(db)
//	defer store.Close()
//
//	j := journal.New(store, journal.Options{})
//
// Sorted containers are stored one Pebble key per member, scored by a
// big-endian, sign-flipped int64 so range scans follow numeric order.
package pebblestore
