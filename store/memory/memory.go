// Package memory provides an in-process store.Store. Intended for tests and
// single-node demos; data does not survive a restart.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/unkn0wn-root/shelfcache/store"
)

type Store struct {
	mu      sync.RWMutex
	byOwner map[string][]store.Record
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{byOwner: make(map[string][]store.Record)}
}

func (s *Store) Create(_ context.Context, owner string, payload store.Payload) (store.Record, error) {
	rec := store.Record{
		ID:        uuid.NewString(),
		Owner:     owner,
		Payload:   maps.Clone(payload),
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.byOwner[owner] = append(s.byOwner[owner], rec)
	s.mu.Unlock()
	return cloneRecord(rec), nil
}

func (s *Store) FindByOwner(_ context.Context, owner string) ([]store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := s.byOwner[owner]
	out := make([]store.Record, len(recs))
	for i, r := range recs {
		out[i] = cloneRecord(r)
	}
	return out, nil
}

func (s *Store) UpdateByID(_ context.Context, owner, id string, partial store.Payload) (store.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := s.byOwner[owner]
	for i, r := range recs {
		if r.ID != id {
			continue
		}
		merged := maps.Clone(r.Payload)
		if merged == nil {
			merged = store.Payload{}
		}
		for k, v := range partial {
			merged[k] = v
		}
		now := time.Now().UTC()
		r.Payload = merged
		r.UpdatedAt = &now
		recs[i] = r
		return cloneRecord(r), nil
	}
	return store.Record{}, store.ErrNotFound
}

func (s *Store) DeleteByID(_ context.Context, owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs := s.byOwner[owner]
	for i, r := range recs {
		if r.ID == id {
			s.byOwner[owner] = append(recs[:i:i], recs[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) BulkCreate(_ context.Context, owner string, payloads []store.Payload) ([]store.Record, error) {
	now := time.Now().UTC()
	out := make([]store.Record, 0, len(payloads))

	s.mu.Lock()
	for _, p := range payloads {
		rec := store.Record{
			ID:        uuid.NewString(),
			Owner:     owner,
			Payload:   maps.Clone(p),
			CreatedAt: now,
		}
		s.byOwner[owner] = append(s.byOwner[owner], rec)
		out = append(out, cloneRecord(rec))
	}
	s.mu.Unlock()
	return out, nil
}

func (s *Store) Close() error { return nil }

// cloneRecord shields internal state from caller mutation of the payload map.
func cloneRecord(r store.Record) store.Record {
	r.Payload = maps.Clone(r.Payload)
	return r
}
