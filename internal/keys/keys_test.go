package keys

import "testing"

func TestKeyScheme(t *testing.T) {
	if got := Cache("books", "u1"); got != "cache:books:u1" {
		t.Fatalf("Cache: %q", got)
	}
	if got := Queue("books", "u1"); got != "bulk:books:u1" {
		t.Fatalf("Queue: %q", got)
	}
	if got := QueuePattern("books"); got != "bulk:books:*" {
		t.Fatalf("QueuePattern: %q", got)
	}
	if Cache("books", "u1") == Queue("books", "u1") {
		t.Fatalf("cache and queue keyspaces collide")
	}
}

func TestOwnerFromQueue(t *testing.T) {
	owner, ok := OwnerFromQueue("books", "bulk:books:u1")
	if !ok || owner != "u1" {
		t.Fatalf("got (%q, %v)", owner, ok)
	}

	// Owners may contain colons; only the prefix is stripped.
	owner, ok = OwnerFromQueue("books", "bulk:books:tenant:42")
	if !ok || owner != "tenant:42" {
		t.Fatalf("got (%q, %v)", owner, ok)
	}

	for _, bad := range []string{
		"cache:books:u1",  // wrong keyspace
		"bulk:other:u1",   // wrong namespace
		"bulk:books:",     // empty owner
		"bulk:book:u1",    // prefix of the namespace
	} {
		if _, ok := OwnerFromQueue("books", bad); ok {
			t.Fatalf("accepted foreign key %q", bad)
		}
	}
}
