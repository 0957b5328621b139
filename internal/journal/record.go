package journal

import (
	"encoding/binary"
	"encoding/json"
	"hash/crc32"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// Record is one durable journal entry. Payload is opaque to the journal.
type Record struct {
	SequenceNr int64
	Payload    []byte
	// Deleted marks a tombstone. It is stored and replayed as-is.
	Deleted bool
}

// RecordCodec converts records to and from stored bytes.
type RecordCodec interface {
	Encode(Record) ([]byte, error)
	Decode([]byte) (Record, error)
}

var (
	errNonPositiveSeq = errors.New("sequence number must be positive")
	errCorrupt        = errors.New("corrupt record")
)

func checkRecord(r Record) error {
	if r.SequenceNr <= 0 {
		return errors.Wrapf(errNonPositiveSeq, "seq %d", r.SequenceNr)
	}
	return nil
}

// CodecByName returns the codec registered under name: json, binary or proto.
func CodecByName(name string) (RecordCodec, error) {
	switch name {
	case "", "json":
		return JSONCodec{}, nil
	case "binary":
		return BinaryCodec{}, nil
	case "proto":
		return ProtoCodec{}, nil
	default:
		return nil, errors.Errorf("unknown record codec %q", name)
	}
}

// JSONCodec stores records as {"sequenceNr":..,"persistentRepr":"<base64>","deleted":..}.
// This is the layout existing journals were written with.
type JSONCodec struct{}

type jsonRecord struct {
	SequenceNr     int64  `json:"sequenceNr"`
	PersistentRepr []byte `json:"persistentRepr"`
	Deleted        bool   `json:"deleted"`
}

func (JSONCodec) Encode(r Record) ([]byte, error) {
	if err := checkRecord(r); err != nil {
		return nil, err
	}
	return json.Marshal(jsonRecord{SequenceNr: r.SequenceNr, PersistentRepr: r.Payload, Deleted: r.Deleted})
}

func (JSONCodec) Decode(b []byte) (Record, error) {
	var jr jsonRecord
	if err := json.Unmarshal(b, &jr); err != nil {
		return Record{}, errors.Wrap(err, "json record")
	}
	r := Record{SequenceNr: jr.SequenceNr, Payload: jr.PersistentRepr, Deleted: jr.Deleted}
	if err := checkRecord(r); err != nil {
		return Record{}, err
	}
	return r, nil
}

// BinaryCodec: varint headerLen | header | payload | crc32c(header|payload)
// where header is seq(8B BE) | flags(1B).
type BinaryCodec struct{}

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

const (
	binaryHeaderLen = 9
	flagDeleted     = 0x01
)

func (BinaryCodec) Encode(r Record) ([]byte, error) {
	if err := checkRecord(r); err != nil {
		return nil, err
	}
	var header [binaryHeaderLen]byte
	binary.BigEndian.PutUint64(header[:8], uint64(r.SequenceNr))
	if r.Deleted {
		header[8] |= flagDeleted
	}

	out := make([]byte, 0, 1+binaryHeaderLen+len(r.Payload)+4)
	out = binary.AppendUvarint(out, binaryHeaderLen)
	out = append(out, header[:]...)
	out = append(out, r.Payload...)

	crc := crc32.Update(0, castagnoli, header[:])
	crc = crc32.Update(crc, castagnoli, r.Payload)
	return binary.BigEndian.AppendUint32(out, crc), nil
}

func (BinaryCodec) Decode(b []byte) (Record, error) {
	if len(b) < 1+4 {
		return Record{}, errors.Wrap(errCorrupt, "short record")
	}
	hlen, n := binary.Uvarint(b)
	if n <= 0 || hlen != binaryHeaderLen {
		return Record{}, errors.Wrap(errCorrupt, "bad header length")
	}
	if n+int(hlen)+4 > len(b) {
		return Record{}, errors.Wrap(errCorrupt, "truncated record")
	}
	header := b[n : n+int(hlen)]
	payload := b[n+int(hlen) : len(b)-4]
	expect := binary.BigEndian.Uint32(b[len(b)-4:])
	crc := crc32.Update(0, castagnoli, header)
	crc = crc32.Update(crc, castagnoli, payload)
	if crc != expect {
		return Record{}, errors.Wrap(errCorrupt, "checksum mismatch")
	}
	r := Record{
		SequenceNr: int64(binary.BigEndian.Uint64(header[:8])),
		Payload:    append([]byte(nil), payload...),
		Deleted:    header[8]&flagDeleted != 0,
	}
	if err := checkRecord(r); err != nil {
		return Record{}, err
	}
	return r, nil
}

// ProtoCodec stores records in protobuf wire format:
//
//	message Record { int64 sequence_nr = 1; bytes payload = 2; bool deleted = 3; }
type ProtoCodec struct{}

const (
	fieldSequenceNr protowire.Number = 1
	fieldPayload    protowire.Number = 2
	fieldDeleted    protowire.Number = 3
)

func (ProtoCodec) Encode(r Record) ([]byte, error) {
	if err := checkRecord(r); err != nil {
		return nil, err
	}
	out := make([]byte, 0, 16+len(r.Payload))
	out = protowire.AppendTag(out, fieldSequenceNr, protowire.VarintType)
	out = protowire.AppendVarint(out, uint64(r.SequenceNr))
	if len(r.Payload) > 0 {
		out = protowire.AppendTag(out, fieldPayload, protowire.BytesType)
		out = protowire.AppendBytes(out, r.Payload)
	}
	if r.Deleted {
		out = protowire.AppendTag(out, fieldDeleted, protowire.VarintType)
		out = protowire.AppendVarint(out, protowire.EncodeBool(true))
	}
	return out, nil
}

func (ProtoCodec) Decode(b []byte) (Record, error) {
	var r Record
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return Record{}, errors.Wrap(protowire.ParseError(n), "proto record tag")
		}
		b = b[n:]
		switch {
		case num == fieldSequenceNr && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return Record{}, errors.Wrap(protowire.ParseError(m), "sequence_nr")
			}
			r.SequenceNr = int64(v)
			n = m
		case num == fieldPayload && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return Record{}, errors.Wrap(protowire.ParseError(m), "payload")
			}
			r.Payload = append([]byte(nil), v...)
			n = m
		case num == fieldDeleted && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return Record{}, errors.Wrap(protowire.ParseError(m), "deleted")
			}
			r.Deleted = protowire.DecodeBool(v)
			n = m
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return Record{}, errors.Wrap(protowire.ParseError(n), "unknown field")
			}
		}
		b = b[n:]
	}
	if err := checkRecord(r); err != nil {
		return Record{}, err
	}
	return r, nil
}
