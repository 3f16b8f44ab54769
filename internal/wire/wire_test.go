package wire

import (
	"bytes"
	"testing"
	"time"
)

func TestSnapshotRoundTrip(t *testing.T) {
	payload := []byte(`[{"id":"1"}]`)
	b := EncodeSnapshot(payload)

	got, err := DecodeSnapshot(b)
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch: got %q want %q", got, payload)
	}
}

func TestSnapshotEmptyPayload(t *testing.T) {
	b := EncodeSnapshot(nil)
	got, err := DecodeSnapshot(b)
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty payload, got %q", got)
	}
}

func TestBatchRoundTrip(t *testing.T) {
	in := Batch{
		ID:         "9f3b1c2a",
		EnqueuedAt: time.Now().UnixNano(),
		Payload:    []byte(`[{"title":"A"}]`),
	}
	b := EncodeBatch(in)

	out, err := DecodeBatch(b)
	if err != nil {
		t.Fatalf("DecodeBatch: %v", err)
	}
	if out.ID != in.ID || out.EnqueuedAt != in.EnqueuedAt || !bytes.Equal(out.Payload, in.Payload) {
		t.Fatalf("round trip mismatch: got %+v want %+v", out, in)
	}
}

func TestCorruptInputs(t *testing.T) {
	snap := EncodeSnapshot([]byte("x"))
	batch := EncodeBatch(Batch{ID: "b", EnqueuedAt: 1, Payload: []byte("y")})

	garbage := [][]byte{
		nil,
		[]byte("short"),
		[]byte("not-wire-format-but-long-enough"),
		snap[:len(snap)-1],   // truncated snapshot payload
		batch[:len(batch)-1], // truncated batch payload
	}
	for i, c := range garbage {
		if _, err := DecodeSnapshot(c); err != ErrCorrupt {
			t.Fatalf("garbage %d: DecodeSnapshot want ErrCorrupt, got %v", i, err)
		}
		if _, err := DecodeBatch(c); err != ErrCorrupt {
			t.Fatalf("garbage %d: DecodeBatch want ErrCorrupt, got %v", i, err)
		}
	}

	// Kind mismatch: valid envelope of the other kind.
	if _, err := DecodeBatch(snap); err != ErrCorrupt {
		t.Fatalf("snapshot as batch: want ErrCorrupt, got %v", err)
	}
	if _, err := DecodeSnapshot(batch); err != ErrCorrupt {
		t.Fatalf("batch as snapshot: want ErrCorrupt, got %v", err)
	}
}

func TestEncodeBatchPanicsOnEmptyID(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on empty batch id")
		}
	}()
	EncodeBatch(Batch{EnqueuedAt: 1})
}
