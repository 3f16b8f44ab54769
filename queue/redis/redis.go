// Package redis implements queue.Queue on Redis lists, one list per owner
// under "bulk:<ns>:<owner>". Batches are RPUSHed as wire envelopes; the
// drain side walks the keyspace with cursor SCAN, never KEYS, so a large
// namespace cannot stall the server.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/shelfcache/codec"
	"github.com/unkn0wn-root/shelfcache/internal/keys"
	"github.com/unkn0wn-root/shelfcache/internal/wire"
	"github.com/unkn0wn-root/shelfcache/queue"
	"github.com/unkn0wn-root/shelfcache/store"
)

const (
	defaultRetention = 7 * 24 * time.Hour
	scanCount        = 128
)

var ErrNilClient = errors.New("redis queue: nil client")

type Queue struct {
	rdb         goredis.UniversalClient
	ns          string
	retention   time.Duration
	codec       codec.Codec[[]store.Payload]
	closeClient bool
}

var _ queue.Queue = (*Queue)(nil)

type Config struct {
	Client    goredis.UniversalClient
	Namespace string

	// Retention is the safety-net expiry refreshed on every Enqueue.
	// Orphaned queues (owner never processed) vanish after this long.
	// 0 => 7 days.
	Retention time.Duration

	// Codec encodes the item slice inside each batch envelope.
	// Nil => JSON.
	Codec codec.Codec[[]store.Payload]

	CloseClient bool // set true only if this queue exclusively owns the client
}

func New(cfg Config) (*Queue, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	if cfg.Namespace == "" {
		return nil, fmt.Errorf("redis queue: namespace is required")
	}

	q := &Queue{
		rdb:         cfg.Client,
		ns:          cfg.Namespace,
		retention:   cfg.Retention,
		codec:       cfg.Codec,
		closeClient: cfg.CloseClient,
	}
	if q.retention <= 0 {
		q.retention = defaultRetention
	}
	if q.codec == nil {
		q.codec = codec.JSON[[]store.Payload]{}
	}
	return q, nil
}

func (q *Queue) Enqueue(ctx context.Context, owner string, items []store.Payload) (string, error) {
	payload, err := q.codec.Encode(items)
	if err != nil {
		return "", fmt.Errorf("redis queue: encode items: %w", err)
	}

	id := uuid.NewString()
	entry := wire.EncodeBatch(wire.Batch{
		ID:         id,
		EnqueuedAt: time.Now().UnixNano(),
		Payload:    payload,
	})

	// RPUSH + EXPIRE in one round-trip; the expiry refresh keeps an active
	// queue from being reaped while it is still accumulating batches.
	key := keys.Queue(q.ns, owner)
	_, err = q.rdb.Pipelined(ctx, func(p goredis.Pipeliner) error {
		p.RPush(ctx, key, entry)
		p.Expire(ctx, key, q.retention)
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// DrainAll walks the namespace and reads every owner's list. Keys that
// cannot be read are skipped and reported via the joined error alongside
// whatever was drained; their queues stay intact for the next pass.
func (q *Queue) DrainAll(ctx context.Context) ([]queue.Drained, error) {
	var (
		out  []queue.Drained
		errs []error
		seen = make(map[string]struct{})
	)

	var cursor uint64
	for {
		page, next, err := q.rdb.Scan(ctx, cursor, keys.QueuePattern(q.ns), scanCount).Result()
		if err != nil {
			return out, errors.Join(append(errs, err)...)
		}
		for _, sk := range pendingKeys(q.ns, page, seen) {
			d, err := q.drainOwner(ctx, sk.key, sk.owner)
			if err != nil {
				errs = append(errs, fmt.Errorf("drain %s: %w", sk.key, err))
				continue
			}
			out = append(out, d)
		}
		if next == 0 {
			return out, errors.Join(errs...)
		}
		cursor = next
	}
}

type scanKey struct {
	key, owner string
}

// pendingKeys filters one SCAN page down to queue keys not yet drained.
// SCAN guarantees each key at least once per full iteration, not exactly
// once; seen persists across pages so a key rescanned during a rehash is
// not drained (and later applied) twice.
func pendingKeys(ns string, page []string, seen map[string]struct{}) []scanKey {
	var out []scanKey
	for _, key := range page {
		owner, ok := keys.OwnerFromQueue(ns, key)
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, scanKey{key: key, owner: owner})
	}
	return out
}

func (q *Queue) drainOwner(ctx context.Context, key, owner string) (queue.Drained, error) {
	entries, err := q.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return queue.Drained{}, err
	}

	d := queue.Drained{Owner: owner}
	for _, raw := range entries {
		env, err := wire.DecodeBatch([]byte(raw))
		if err != nil {
			d.Corrupt++
			continue
		}
		items, err := q.codec.Decode(env.Payload)
		if err != nil {
			d.Corrupt++
			continue
		}
		d.Batches = append(d.Batches, queue.Batch{
			ID:         env.ID,
			Owner:      owner,
			Items:      items,
			EnqueuedAt: time.Unix(0, env.EnqueuedAt).UTC(),
		})
	}
	return d, nil
}

func (q *Queue) Drop(ctx context.Context, owner string) error {
	return q.rdb.Del(ctx, keys.Queue(q.ns, owner)).Err()
}

func (q *Queue) Close(context.Context) error {
	if q.closeClient {
		if err := q.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
