// Package codec defines the pluggable serialization boundary between Go
// values and the byte blobs stored in caches, queues, and stores.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
