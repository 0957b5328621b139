package journal

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/proto"
)

// EventCodec turns an application event into the opaque payload bytes the
// journal stores, and back.
type EventCodec[E any] interface {
	Marshal(E) ([]byte, error)
	Unmarshal([]byte) (E, error)
}

// JSONEvents encodes events with encoding/json.
type JSONEvents[E any] struct{}

func (JSONEvents[E]) Marshal(e E) ([]byte, error) { return json.Marshal(e) }

func (JSONEvents[E]) Unmarshal(b []byte) (E, error) {
	var e E
	err := json.Unmarshal(b, &e)
	return e, err
}

// ProtoEvents encodes protobuf events. New must return an empty message.
type ProtoEvents[E proto.Message] struct {
	New func() E
}

func (p ProtoEvents[E]) Marshal(e E) ([]byte, error) { return proto.Marshal(e) }

func (p ProtoEvents[E]) Unmarshal(b []byte) (E, error) {
	m := p.New()
	if err := proto.Unmarshal(b, m); err != nil {
		var zero E
		return zero, err
	}
	return m, nil
}

// Event is a typed journal entry.
type Event[E any] struct {
	SequenceNr int64
	Payload    E
	Deleted    bool
}

// Typed layers an EventCodec over a Journal.
type Typed[E any] struct {
	j     *Journal
	codec EventCodec[E]
}

// NewTyped returns a typed view of j.
func NewTyped[E any](j *Journal, codec EventCodec[E]) *Typed[E] {
	return &Typed[E]{j: j, codec: codec}
}

// Journal returns the underlying untyped journal.
func (t *Typed[E]) Journal() *Journal { return t.j }

// Write marshals events and appends them as one atomic batch.
func (t *Typed[E]) Write(ctx context.Context, persistenceID string, events []Event[E], highest int64) error {
	recs := make([]Record, len(events))
	for i, e := range events {
		b, err := t.codec.Marshal(e.Payload)
		if err != nil {
			return newError(KindEncoding, OpWrite, persistenceID, errors.Wrapf(err, "event %d", i))
		}
		recs[i] = Record{SequenceNr: e.SequenceNr, Payload: b, Deleted: e.Deleted}
	}
	return t.j.Write(ctx, persistenceID, recs, highest)
}

// Replay replays records and unmarshals each payload before calling fn.
func (t *Typed[E]) Replay(ctx context.Context, persistenceID string, from, to, max int64, fn func(Event[E]) error) error {
	return t.j.Replay(ctx, persistenceID, from, to, max, func(r Record) error {
		p, err := t.codec.Unmarshal(r.Payload)
		if err != nil {
			return newError(KindDecoding, OpReplay, persistenceID, errors.Wrapf(err, "payload seq %d", r.SequenceNr))
		}
		return fn(Event[E]{SequenceNr: r.SequenceNr, Payload: p, Deleted: r.Deleted})
	})
}
