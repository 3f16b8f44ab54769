// Package store defines the persistent record repository consumed by
// shelfcache. The store owns ground truth: cache and queue state are
// derived from it and may be rebuilt from it at any time.
//
// Implementations MUST scope every operation to a single owner. A record
// created under one owner must never be visible through another owner's
// reads, updates, or deletes.
package store

import (
	"context"
	"errors"
	"time"
)

// Payload is one record's free-form document body. Keys are caller-defined;
// the store treats the body as opaque apart from (de)serialization.
type Payload = map[string]any

// Record is an owned entity. ID is assigned by the store at creation and is
// immutable afterwards. UpdatedAt is nil until the first update.
type Record struct {
	ID        string     `json:"id" msgpack:"id" cbor:"id"`
	Owner     string     `json:"owner" msgpack:"owner" cbor:"owner"`
	Payload   Payload    `json:"payload" msgpack:"payload" cbor:"payload"`
	CreatedAt time.Time  `json:"createdAt" msgpack:"createdAt" cbor:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" msgpack:"updatedAt,omitempty" cbor:"updatedAt,omitempty"`
}

var (
	// ErrNotFound reports that no record matched the given owner/id pair.
	ErrNotFound = errors.New("store: record not found")

	// ErrUnavailable reports a transient backend failure. Unlike cache
	// errors it is surfaced to callers: the store is the source of truth
	// and there is nothing to fall back to.
	ErrUnavailable = errors.New("store: unavailable")
)

// Store is the persistent record repository.
// Must be safe for concurrent use.
type Store interface {
	// Create inserts a new record for owner and returns it with ID and
	// CreatedAt assigned.
	Create(ctx context.Context, owner string, payload Payload) (Record, error)

	// FindByOwner returns all of owner's records in creation order.
	// An owner with no records yields an empty slice, not an error.
	FindByOwner(ctx context.Context, owner string) ([]Record, error)

	// UpdateByID shallow-merges partial into the record's payload and
	// stamps UpdatedAt. Returns ErrNotFound if owner has no such record.
	UpdateByID(ctx context.Context, owner, id string, partial Payload) (Record, error)

	// DeleteByID removes one record. Returns ErrNotFound if owner has no
	// such record.
	DeleteByID(ctx context.Context, owner, id string) error

	// BulkCreate inserts payloads in order as new records for owner.
	// All-or-nothing where the backend supports it; the returned slice
	// matches the input order.
	BulkCreate(ctx context.Context, owner string, payloads []Payload) ([]Record, error)

	// Close releases resources.
	Close() error
}
