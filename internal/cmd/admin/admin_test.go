package admin

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rzbill/flojournal/internal/journal"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRoot()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.Execute()
	return buf.String(), err
}

func TestWriteReplayHighestPebble(t *testing.T) {
	dir := t.TempDir()
	base := []string{"--backend", "pebble", "--data-dir", dir}

	out, err := run(t, append([]string{"write", "--id", "order-1", "--seq", "1", "--data", `{"status":"created"}`, "--data", "paid"}, base...)...)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(out, "wrote 2 record(s), highest 2") {
		t.Fatalf("unexpected write output: %s", out)
	}

	out, err = run(t, append([]string{"highest", "--id", "order-1"}, base...)...)
	if err != nil {
		t.Fatalf("highest: %v", err)
	}
	if strings.TrimSpace(out) != "2" {
		t.Fatalf("expected 2, got %q", out)
	}

	out, err = run(t, append([]string{"replay", "--id", "order-1"}, base...)...)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %s", len(lines), out)
	}
	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("decode line: %v", err)
	}
	if first["sequenceNr"].(float64) != 1 {
		t.Fatalf("unexpected first record: %v", first)
	}
	if _, ok := first["payload_json"]; !ok {
		t.Fatalf("expected payload_json, got %v", first)
	}
	if !strings.Contains(lines[1], `"payload_text":"paid"`) {
		t.Fatalf("expected text payload, got %s", lines[1])
	}
}

func TestTruncateRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	base := []string{"--backend", "redis", "--redis-addr", mr.Addr()}

	if _, err := run(t, append([]string{"write", "--id", "p", "--seq", "1", "--data", "a", "--data", "b", "--data", "c"}, base...)...); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := run(t, append([]string{"truncate", "--id", "p", "--to", "2"}, base...)...)
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
	if !strings.Contains(out, "truncated p through 2") {
		t.Fatalf("unexpected truncate output: %s", out)
	}
	out, err = run(t, append([]string{"replay", "--id", "p", "--max", "10"}, base...)...)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if strings.Count(out, "\n") != 1 || !strings.Contains(out, `"sequenceNr":3`) {
		t.Fatalf("expected only seq 3 after truncate, got %s", out)
	}
	// truncation leaves the high-water mark
	hi, err := mr.Get(journal.HighestKey("p"))
	if err != nil || hi != "3" {
		t.Fatalf("highest key = %q, %v", hi, err)
	}
}

func TestHealth(t *testing.T) {
	mr := miniredis.RunT(t)
	out, err := run(t, "health", "--redis-addr", mr.Addr())
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if !strings.Contains(out, "ok (redis)") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestMissingID(t *testing.T) {
	for _, sub := range []string{"highest", "replay", "truncate", "write"} {
		if _, err := run(t, sub, "--backend", "pebble", "--data-dir", t.TempDir()); err == nil {
			t.Fatalf("%s: expected --id error", sub)
		}
	}
}

func TestWriteRequiresData(t *testing.T) {
	if _, err := run(t, "write", "--id", "p", "--backend", "pebble", "--data-dir", t.TempDir()); err == nil {
		t.Fatalf("expected missing --data error")
	}
}

func TestEnvAndFlagPrecedence(t *testing.T) {
	t.Setenv("JOURNAL_BACKEND", "pebble")
	t.Setenv("JOURNAL_CODEC", "binary")
	root := NewRoot()
	health, _, err := root.Find([]string{"health"})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if err := health.ParseFlags([]string{"--codec", "proto"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	cfg, err := loadConfig(health)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != "pebble" {
		t.Fatalf("env backend not applied: %q", cfg.Backend)
	}
	if cfg.Codec != "proto" {
		t.Fatalf("flag should win over env, got %q", cfg.Codec)
	}
}

func TestDecodedRecord(t *testing.T) {
	m := decodedRecord(journal.Record{SequenceNr: 4, Payload: []byte{0xff, 0xfe}, Deleted: true})
	if m["payload_b64"] != "//4=" || m["deleted"] != true {
		t.Fatalf("unexpected map: %v", m)
	}
}
