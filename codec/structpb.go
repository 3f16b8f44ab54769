package codec

import "google.golang.org/protobuf/types/known/structpb"

var structCodec = NewProtobuf(func() *structpb.Struct { return new(structpb.Struct) })

// StructPB encodes free-form map payloads as google.protobuf.Struct wire
// bytes: a compact binary alternative to JSON for document payloads. Values
// must be JSON-representable, and numbers decode as float64 (Struct has a
// single number kind), matching the JSON codec's behavior.
type StructPB struct{}

var _ Codec[map[string]any] = StructPB{}

func (StructPB) Encode(v map[string]any) ([]byte, error) {
	s, err := structpb.NewStruct(v)
	if err != nil {
		return nil, err
	}
	return structCodec.Encode(s)
}

func (StructPB) Decode(b []byte) (map[string]any, error) {
	s, err := structCodec.Decode(b)
	if err != nil {
		return nil, err
	}
	return s.AsMap(), nil
}
