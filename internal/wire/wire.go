package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version      byte = 1
	kindSnapshot byte = 1
	kindBatch    byte = 2
)

var (
	ErrCorrupt = errors.New("shelfcache: corrupt entry")
	magic4     = [...]byte{'S', 'H', 'L', 'F'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Snapshot: magic(4) | ver(1) | kind(1=snapshot) | vlen(u32 be) | payload(vlen)
//
// Wraps a codec-encoded record collection before it goes into the cache, so
// foreign or truncated bytes under our keys are detected as corruption instead
// of being fed to the codec.
func EncodeSnapshot(payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + 4 + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindSnapshot)

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

func DecodeSnapshot(b []byte) (payload []byte, err error) {
	const hdr = 4 + 1 + 1 + 4
	if len(b) < hdr || !hasMagic(b) || b[4] != version || b[5] != kindSnapshot {
		return nil, ErrCorrupt
	}

	off := 6
	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen > len(b)-off { // overflow-safe bound check
		return nil, ErrCorrupt
	}

	return b[off : off+vlen], nil
}

// Batch:
//
//	magic(4) | ver(1) | kind(2=batch) | idLen(u16 be) | id(idLen)
//	| enqueuedAt(i64 be, unix nanos) | vlen(u32 be) | payload(vlen)
//
// One queue-list entry. The payload is the codec-encoded item slice; id and
// enqueue time live in the envelope so the processor can log them without
// decoding the items first.
type Batch struct {
	ID         string
	EnqueuedAt int64 // unix nanos
	Payload    []byte
}

func EncodeBatch(bt Batch) []byte {
	if l := len(bt.ID); l == 0 || l > 0xFFFF {
		panic("shelfcache: invalid batch id length")
	}

	var buf bytes.Buffer
	buf.Grow(4 + 1 + 1 + 2 + len(bt.ID) + 8 + 4 + len(bt.Payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindBatch)

	var u8 [8]byte
	var u4 [4]byte
	var u2 [2]byte

	binary.BigEndian.PutUint16(u2[:], uint16(len(bt.ID)))
	buf.Write(u2[:])
	buf.WriteString(bt.ID)

	binary.BigEndian.PutUint64(u8[:], uint64(bt.EnqueuedAt))
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(bt.Payload)))
	buf.Write(u4[:])
	buf.Write(bt.Payload)

	return buf.Bytes()
}

func DecodeBatch(b []byte) (Batch, error) {
	const hdr = 4 + 1 + 1 + 2
	if len(b) < hdr || !hasMagic(b) || b[4] != version || b[5] != kindBatch {
		return Batch{}, ErrCorrupt
	}

	off := 6

	idLen := int(binary.BigEndian.Uint16(b[off : off+2]))
	off += 2
	if idLen <= 0 || idLen > len(b)-off {
		return Batch{}, ErrCorrupt
	}
	id := string(b[off : off+idLen])
	off += idLen

	if off+8 > len(b) {
		return Batch{}, ErrCorrupt
	}
	at := int64(binary.BigEndian.Uint64(b[off : off+8]))
	off += 8

	if off+4 > len(b) {
		return Batch{}, ErrCorrupt
	}
	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	if vlen < 0 || vlen > len(b)-off {
		return Batch{}, ErrCorrupt
	}

	return Batch{ID: id, EnqueuedAt: at, Payload: b[off : off+vlen]}, nil
}
