package codec

import "encoding/json"

// JSON is the default codec. Human-readable payloads in the backing store,
// at the cost of size; switch to Msgpack or CBOR for hot keyspaces.
type JSON[V any] struct{}

func (JSON[V]) Encode(v V) ([]byte, error) { return json.Marshal(v) }
func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, err
}
