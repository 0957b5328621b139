// Package runtime wires config, storage, metrics and logging into a single
// journal instance. It exposes Open/Close and a basic health check.
//
// Example:
//
//	cfg := config.Default()
//	cfg.Backend = config.BackendPebble
//	cfg.Pebble.DataDir = "./data"
//	rt, _ := runtime.Open(ctx, runtime.Options{Config: cfg})
//	defer rt.Close()
//	_ = rt.CheckHealth(ctx)
//	_ = rt.Journal().Write(ctx, "order-1", []journal.Record{{SequenceNr: 1, Payload: []byte("created")}}, 1)
package runtime
