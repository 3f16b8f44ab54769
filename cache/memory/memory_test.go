package memory

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestSetGetDel(t *testing.T) {
	ctx := context.Background()
	c := New()

	if _, ok, err := c.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}

	ok, err := c.Set(ctx, "k", []byte("v1"), 0)
	if err != nil || !ok {
		t.Fatalf("Set: ok=%v err=%v", ok, err)
	}
	got, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || !bytes.Equal(got, []byte("v1")) {
		t.Fatalf("Get: %q ok=%v err=%v", got, ok, err)
	}

	if err := c.Del(ctx, "k"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatalf("entry survived Del")
	}
	// deleting a missing key is a no-op
	if err := c.Del(ctx, "k"); err != nil {
		t.Fatalf("Del missing: %v", err)
	}
}

func TestTTLExpiry(t *testing.T) {
	ctx := context.Background()
	c := New()

	if _, err := c.Set(ctx, "k", []byte("v"), 25*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); !ok {
		t.Fatalf("entry expired early")
	}

	time.Sleep(50 * time.Millisecond)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatalf("entry outlived its TTL")
	}
	if n := c.Len(); n != 0 {
		t.Fatalf("Len after expiry = %d", n)
	}
}

func TestValueIsolation(t *testing.T) {
	ctx := context.Background()
	c := New()

	src := []byte("abc")
	if _, err := c.Set(ctx, "k", src, 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	src[0] = 'X' // caller mutates its slice after Set

	got, _, _ := c.Get(ctx, "k")
	if !bytes.Equal(got, []byte("abc")) {
		t.Fatalf("stored value aliased caller slice: %q", got)
	}

	got[0] = 'Y' // caller mutates what Get returned
	again, _, _ := c.Get(ctx, "k")
	if !bytes.Equal(again, []byte("abc")) {
		t.Fatalf("cached value aliased Get result: %q", again)
	}
}
