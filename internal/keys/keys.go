package keys

import "strings"

// Key layout, owner-scoped:
//
//	cache:<ns>:<owner>  - cached snapshot of one owner's records
//	bulk:<ns>:<owner>   - pending bulk batches for one owner
//
// The two prefixes are distinct on purpose: the processor scans the bulk
// keyspace and must never pick up cache entries.

const (
	cachePrefix = "cache:"
	bulkPrefix  = "bulk:"
)

// Cache returns the cache key for an owner's snapshot.
func Cache(ns, owner string) string {
	return cachePrefix + ns + ":" + owner
}

// Queue returns the bulk queue key for an owner.
func Queue(ns, owner string) string {
	return bulkPrefix + ns + ":" + owner
}

// QueuePattern is the scan pattern matching every owner's queue key
// in a namespace.
func QueuePattern(ns string) string {
	return bulkPrefix + ns + ":*"
}

// OwnerFromQueue recovers the owner from a scanned queue key.
// Returns ("", false) for keys outside the bulk keyspace of ns.
// Owner identifiers may themselves contain ':'; only the two
// leading segments are stripped.
func OwnerFromQueue(ns, key string) (string, bool) {
	prefix := bulkPrefix + ns + ":"
	if !strings.HasPrefix(key, prefix) || len(key) == len(prefix) {
		return "", false
	}
	return key[len(prefix):], true
}
