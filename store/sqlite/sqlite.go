// Package sqlite provides a store.Store backed by a SQLite database
// (modernc.org/sqlite, pure Go). Payload bodies are stored as encoded blobs;
// the codec is pluggable and defaults to JSON.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/unkn0wn-root/shelfcache/codec"
	"github.com/unkn0wn-root/shelfcache/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	id         TEXT PRIMARY KEY,
	owner      TEXT NOT NULL,
	payload    BLOB NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER
);
CREATE INDEX IF NOT EXISTS records_owner_idx ON records(owner, created_at);
`

type Store struct {
	db    *sql.DB
	codec codec.Codec[store.Payload]
}

var _ store.Store = (*Store)(nil)

type Config struct {
	// Path is the database file. Avoid ":memory:": database/sql pools
	// connections and each one would see its own empty database.
	Path string
	// Codec encodes payload bodies into the payload column.
	// Nil defaults to codec.JSON.
	Codec codec.Codec[store.Payload]
}

func New(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite store: path is required")
	}
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: open: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite store: schema: %w", err)
	}

	c := cfg.Codec
	if c == nil {
		c = codec.JSON[store.Payload]{}
	}
	return &Store{db: db, codec: c}, nil
}

func (s *Store) Create(ctx context.Context, owner string, payload store.Payload) (store.Record, error) {
	rec := store.Record{
		ID:        uuid.NewString(),
		Owner:     owner,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
	body, err := s.codec.Encode(rec.Payload)
	if err != nil {
		return store.Record{}, fmt.Errorf("sqlite store: encode payload: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (id, owner, payload, created_at) VALUES (?, ?, ?, ?)`,
		rec.ID, rec.Owner, body, rec.CreatedAt.UnixNano())
	if err != nil {
		return store.Record{}, unavailable(err)
	}
	return rec, nil
}

func (s *Store) FindByOwner(ctx context.Context, owner string) ([]store.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, payload, created_at, updated_at FROM records
		 WHERE owner = ? ORDER BY created_at, rowid`, owner)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	out := []store.Record{}
	for rows.Next() {
		var (
			rec     store.Record
			body    []byte
			created int64
			updated sql.NullInt64
		)
		if err := rows.Scan(&rec.ID, &body, &created, &updated); err != nil {
			return nil, unavailable(err)
		}
		rec.Owner = owner
		rec.CreatedAt = time.Unix(0, created).UTC()
		if updated.Valid {
			t := time.Unix(0, updated.Int64).UTC()
			rec.UpdatedAt = &t
		}
		if rec.Payload, err = s.codec.Decode(body); err != nil {
			return nil, fmt.Errorf("sqlite store: decode payload %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err)
	}
	return out, nil
}

func (s *Store) UpdateByID(ctx context.Context, owner, id string, partial store.Payload) (store.Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.Record{}, unavailable(err)
	}
	defer tx.Rollback()

	var (
		body    []byte
		created int64
	)
	err = tx.QueryRowContext(ctx,
		`SELECT payload, created_at FROM records WHERE owner = ? AND id = ?`,
		owner, id).Scan(&body, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Record{}, store.ErrNotFound
	}
	if err != nil {
		return store.Record{}, unavailable(err)
	}

	payload, err := s.codec.Decode(body)
	if err != nil {
		return store.Record{}, fmt.Errorf("sqlite store: decode payload %s: %w", id, err)
	}
	if payload == nil {
		payload = store.Payload{}
	}
	for k, v := range partial {
		payload[k] = v
	}

	now := time.Now().UTC()
	merged, err := s.codec.Encode(payload)
	if err != nil {
		return store.Record{}, fmt.Errorf("sqlite store: encode payload: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE records SET payload = ?, updated_at = ? WHERE owner = ? AND id = ?`,
		merged, now.UnixNano(), owner, id); err != nil {
		return store.Record{}, unavailable(err)
	}
	if err := tx.Commit(); err != nil {
		return store.Record{}, unavailable(err)
	}

	return store.Record{
		ID:        id,
		Owner:     owner,
		Payload:   payload,
		CreatedAt: time.Unix(0, created).UTC(),
		UpdatedAt: &now,
	}, nil
}

func (s *Store) DeleteByID(ctx context.Context, owner, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE owner = ? AND id = ?`, owner, id)
	if err != nil {
		return unavailable(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable(err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) BulkCreate(ctx context.Context, owner string, payloads []store.Payload) ([]store.Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, unavailable(err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	out := make([]store.Record, 0, len(payloads))
	for _, p := range payloads {
		rec := store.Record{
			ID:        uuid.NewString(),
			Owner:     owner,
			Payload:   p,
			CreatedAt: now,
		}
		body, err := s.codec.Encode(p)
		if err != nil {
			return nil, fmt.Errorf("sqlite store: encode payload: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO records (id, owner, payload, created_at) VALUES (?, ?, ?, ?)`,
			rec.ID, owner, body, now.UnixNano()); err != nil {
			return nil, unavailable(err)
		}
		out = append(out, rec)
	}
	if err := tx.Commit(); err != nil {
		return nil, unavailable(err)
	}
	return out, nil
}

func (s *Store) Close() error { return s.db.Close() }

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
}
