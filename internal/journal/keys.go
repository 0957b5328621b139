package journal

// Keyspace helpers for store keys.
//
// Layout:
// - journal:{pid}
// - journal:{pid}:highestSequenceNr

const (
	keyPrefix     = "journal:"
	highestSuffix = ":highestSequenceNr"
)

// JournalKey builds the sorted-container key holding a persistence id's records.
func JournalKey(persistenceID string) string {
	return keyPrefix + persistenceID
}

// HighestKey builds the high-water mark key for a persistence id.
func HighestKey(persistenceID string) string {
	return keyPrefix + persistenceID + highestSuffix
}
