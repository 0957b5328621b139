// Package redisstore implements journal.Store on Redis with go-redis.
//
// Mapping:
//   - sorted container  -> ZSET (score = sequence number, member = encoded record)
//   - scalar            -> STRING
//   - Transact          -> WATCH keys; MULTI; queued ZADD/SET; EXEC
//
// A failed EXEC because a watched key changed is reported as
// journal.ErrConflict. Nothing is retried here.
//
// Scores travel as float64, so sequence numbers are exact up to 2^53.
// On Redis Cluster the journal key and its high-water key hash to different
// slots unless the persistence id carries a hash tag such as "{acct-1}".
package redisstore
