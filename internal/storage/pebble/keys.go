package pebblestore

import (
	"encoding/binary"
	"math"
)

// Keyspace for logical store keys.
//
// Layout (byte-wise, lexicographically sortable):
// - s/{key}                            (scalar)
// - z/{len_be4}{key}/{score_be8}       (sorted member; score sign bit flipped)
//
// The length prefix keeps one logical key from being a range prefix of another.

var (
	scalarPrefix = []byte("s/")
	sortedPrefix = []byte("z/")
	sep          = byte('/')
)

func appendBE4(dst []byte, v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return append(dst, b[:]...)
}

func appendBE8(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

// orderedScore maps int64 onto uint64 so byte order matches numeric order.
func orderedScore(score int64) uint64 { return uint64(score) ^ (1 << 63) }

func scoreFromOrdered(v uint64) int64 { return int64(v ^ (1 << 63)) }

func keyScalar(key string) []byte {
	k := make([]byte, 0, len(scalarPrefix)+len(key))
	k = append(k, scalarPrefix...)
	k = append(k, key...)
	return k
}

// keySortedPrefix is the common prefix of all members of a sorted container.
func keySortedPrefix(key string) []byte {
	k := make([]byte, 0, len(sortedPrefix)+4+len(key)+1+8)
	k = append(k, sortedPrefix...)
	k = appendBE4(k, uint32(len(key)))
	k = append(k, key...)
	k = append(k, sep)
	return k
}

func keySortedMember(key string, score int64) []byte {
	return appendBE8(keySortedPrefix(key), orderedScore(score))
}

// sortedBounds returns [lower, upper) covering scores min..max inclusive.
func sortedBounds(key string, min, max int64) (lower, upper []byte) {
	lower = keySortedMember(key, min)
	if max == math.MaxInt64 {
		p := keySortedPrefix(key)
		// sep+1 sorts after every member of this container.
		p[len(p)-1] = sep + 1
		return lower, p
	}
	return lower, keySortedMember(key, max+1)
}

func scoreOfMember(k []byte) int64 {
	return scoreFromOrdered(binary.BigEndian.Uint64(k[len(k)-8:]))
}
