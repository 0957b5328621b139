package journal_test

import (
	"context"
	"testing"

	"github.com/rzbill/flojournal/internal/journal"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type deposited struct {
	Account string `json:"account"`
	Amount  int64  `json:"amount"`
}

func TestTypedJSONEvents(t *testing.T) {
	j, _ := newTestJournal(t)
	typed := journal.NewTyped[deposited](j, journal.JSONEvents[deposited]{})
	ctx := context.Background()

	events := []journal.Event[deposited]{
		{SequenceNr: 1, Payload: deposited{Account: "acct-1", Amount: 10}},
		{SequenceNr: 2, Payload: deposited{Account: "acct-1", Amount: 5}, Deleted: true},
	}
	if err := typed.Write(ctx, "acct-1", events, 2); err != nil {
		t.Fatalf("write: %v", err)
	}

	var got []journal.Event[deposited]
	if err := typed.Replay(ctx, "acct-1", 0, 10, 10, func(e journal.Event[deposited]) error {
		got = append(got, e)
		return nil
	}); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if len(got) != 2 || got[0].Payload.Amount != 10 || got[1].Payload.Amount != 5 {
		t.Fatalf("unexpected events: %+v", got)
	}
	if !got[1].Deleted {
		t.Fatalf("tombstone flag must survive replay")
	}
}

func TestTypedProtoEvents(t *testing.T) {
	j, _ := newTestJournal(t)
	codec := journal.ProtoEvents[*wrapperspb.StringValue]{New: func() *wrapperspb.StringValue { return &wrapperspb.StringValue{} }}
	typed := journal.NewTyped[*wrapperspb.StringValue](j, codec)
	ctx := context.Background()

	if err := typed.Write(ctx, "p", []journal.Event[*wrapperspb.StringValue]{
		{SequenceNr: 1, Payload: wrapperspb.String("opened")},
	}, 1); err != nil {
		t.Fatalf("write: %v", err)
	}
	var got []string
	if err := typed.Replay(ctx, "p", 0, 1, 1, func(e journal.Event[*wrapperspb.StringValue]) error {
		got = append(got, e.Payload.GetValue())
		return nil
	}); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if len(got) != 1 || got[0] != "opened" {
		t.Fatalf("unexpected payloads: %v", got)
	}
}

func TestTypedPayloadDecodeFailure(t *testing.T) {
	j, _ := newTestJournal(t)
	ctx := context.Background()
	if err := j.Write(ctx, "p", []journal.Record{{SequenceNr: 1, Payload: []byte("{not json")}}, 1); err != nil {
		t.Fatalf("write: %v", err)
	}
	typed := journal.NewTyped[deposited](j, journal.JSONEvents[deposited]{})
	err := typed.Replay(ctx, "p", 0, 1, 1, func(journal.Event[deposited]) error { return nil })
	if journal.KindOf(err) != journal.KindDecoding {
		t.Fatalf("want decoding error, got %v", err)
	}
}
