package admin

import (
	"encoding/base64"
	"encoding/json"
	"unicode/utf8"

	"github.com/rzbill/flojournal/internal/journal"
)

// decodedRecord returns a map with sequenceNr, deleted and one of
// payload_json, payload_text, or payload_b64.
func decodedRecord(r journal.Record) map[string]any {
	out := map[string]any{
		"sequenceNr": r.SequenceNr,
		"deleted":    r.Deleted,
	}
	payload := r.Payload
	// Try JSON first if it looks like JSON
	if len(payload) > 0 && (payload[0] == '{' || payload[0] == '[') {
		var v any
		if json.Unmarshal(payload, &v) == nil {
			out["payload_json"] = v
			return out
		}
	}
	if utf8.Valid(payload) {
		out["payload_text"] = string(payload)
		return out
	}
	out["payload_b64"] = base64.StdEncoding.EncodeToString(payload)
	return out
}
