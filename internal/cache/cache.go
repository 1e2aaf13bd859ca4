// Package cache implements CacheTier (spec.md §4.4): a three-level
// read-through cache — in-process L1, network L2, optional precomputed L3
// — with single-flight collapsing of concurrent misses for the same key.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/vedicsoul/consciousness-engine/internal/fingerprint"
	"github.com/vedicsoul/consciousness-engine/internal/logging"
	"github.com/vedicsoul/consciousness-engine/internal/metrics"
)

// Entry is a self-describing cache value: engine id and version identify
// the kernel that produced it, so a version bump naturally invalidates
// prior entries once baked into the key (see Key).
type Entry struct {
	EngineID string          `json:"engine_id"`
	Version  int             `json:"version"`
	Payload  json.RawMessage `json:"payload"`
	StoredAt time.Time       `json:"stored_at"`
}

// Key builds the internal L2 key form spec.md §6 documents:
// "{engineId}:v{engineVersion}:{hex(sha256(canonical))}".
func Key(engineID string, version int, fp fingerprint.Fingerprint) string {
	return fmt.Sprintf("%s:v%d:%s", engineID, version, fp)
}

// BucketKey builds an L3 precomputed-store key from an engine id and a
// coarser bucket label (e.g. date+lat+lon truncated), per spec.md §4.4.
func BucketKey(engineID, bucket string) string {
	return engineID + ":bucket:" + bucket
}

// L2Store is the narrow interface CacheTier needs from its network cache,
// letting tests substitute an in-memory fake for a real Redis client
// (grounded on the teacher's infrastructure/cache testing style).
type L2Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// L3Store is the optional precomputed-bucket store. A nil L3Store on Tier
// means "no L3," matching spec.md's "L3 optional."
type L3Store interface {
	Get(ctx context.Context, bucketKey string) ([]byte, bool, error)
	Set(ctx context.Context, bucketKey string, value []byte) error
}

// Options configures a Tier.
type Options struct {
	L1Size int
	L1TTL  time.Duration
	L2TTL  time.Duration
}

// Tier is the three-level CacheTier. Writes are write-through to L1 and
// asynchronously best-effort to L2; errors from L2/L3 are logged and
// treated as misses, never surfaced to the caller (spec.md §4.4).
type Tier struct {
	opts Options
	l1   *lru.Cache[string, l1Entry]
	l2   L2Store
	l3   L3Store
	sf   singleflight.Group
	log  *logging.Logger
}

type l1Entry struct {
	entry     Entry
	expiresAt time.Time
}

// NewTier constructs a Tier. l2 must not be nil; l3 may be nil.
func NewTier(opts Options, l2 L2Store, l3 L3Store, log *logging.Logger) (*Tier, error) {
	if opts.L1Size <= 0 {
		opts.L1Size = 10000
	}
	if opts.L1TTL <= 0 {
		opts.L1TTL = 3600 * time.Second
	}
	if opts.L2TTL <= 0 {
		opts.L2TTL = 86400 * time.Second
	}
	l1, err := lru.New[string, l1Entry](opts.L1Size)
	if err != nil {
		return nil, fmt.Errorf("construct L1: %w", err)
	}
	if log == nil {
		log = logging.NewFromEnv("cache")
	}
	return &Tier{opts: opts, l1: l1, l2: l2, l3: l3, log: log}, nil
}

// Get performs the read-through lookup across L1 → L2, hoisting an L2 hit
// back up to L1. It does not consult L3; L3 is read only through GetBucket.
func (t *Tier) Get(ctx context.Context, key string) (Entry, bool) {
	if e, ok := t.getL1(key); ok {
		metrics.RecordCacheOp("l1", "hit")
		return e, true
	}
	metrics.RecordCacheOp("l1", "miss")

	if raw, ok, err := t.l2.Get(ctx, key); err != nil {
		t.log.WithRequest(ctx).WithField("cache_key", key).WithError(err).Warn("cache L2 get failed, treating as miss")
		metrics.RecordCacheOp("l2", "error")
	} else if ok {
		var e Entry
		if err := json.Unmarshal(raw, &e); err == nil {
			metrics.RecordCacheOp("l2", "hit")
			t.putL1(key, e)
			return e, true
		}
	} else {
		metrics.RecordCacheOp("l2", "miss")
	}

	return Entry{}, false
}

// GetBucket performs an L3-only lookup by the coarser bucket key. A hit
// hoists into L2 and L1 under the full key.
func (t *Tier) GetBucket(ctx context.Context, fullKey, bucketKey string) (Entry, bool) {
	if t.l3 == nil {
		return Entry{}, false
	}
	raw, ok, err := t.l3.Get(ctx, bucketKey)
	if err != nil {
		t.log.WithRequest(ctx).WithField("bucket_key", bucketKey).WithError(err).Warn("cache L3 get failed, treating as miss")
		metrics.RecordCacheOp("l3", "error")
		return Entry{}, false
	}
	if !ok {
		metrics.RecordCacheOp("l3", "miss")
		return Entry{}, false
	}
	metrics.RecordCacheOp("l3", "hit")
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return Entry{}, false
	}
	t.putL1(fullKey, e)
	t.asyncSetL2(fullKey, raw)
	return e, true
}

// Set writes e through to L1 synchronously and to L2 asynchronously,
// best-effort.
func (t *Tier) Set(ctx context.Context, key string, e Entry) {
	t.putL1(key, e)
	raw, err := json.Marshal(e)
	if err != nil {
		return
	}
	t.asyncSetL2(key, raw)
}

func (t *Tier) asyncSetL2(key string, raw []byte) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := t.l2.Set(ctx, key, raw, t.opts.L2TTL); err != nil {
			t.log.WithRequest(ctx).WithField("cache_key", key).WithError(err).Warn("cache L2 set failed")
			metrics.RecordCacheOp("l2", "write_error")
		}
	}()
}

func (t *Tier) getL1(key string) (Entry, bool) {
	v, ok := t.l1.Get(key)
	if !ok {
		return Entry{}, false
	}
	if !v.expiresAt.IsZero() && time.Now().After(v.expiresAt) {
		t.l1.Remove(key)
		return Entry{}, false
	}
	return v.entry, true
}

func (t *Tier) putL1(key string, e Entry) {
	t.l1.Add(key, l1Entry{entry: e, expiresAt: time.Now().Add(t.opts.L1TTL)})
}

// PutIndefinite stores e in L1 with no expiry, for birth-keyed computations
// whose inputs fully determine their output (HD charts, Vimshottari
// timelines; spec.md §4.4).
func (t *Tier) PutIndefinite(ctx context.Context, key string, e Entry) {
	t.l1.Add(key, l1Entry{entry: e})
	raw, err := json.Marshal(e)
	if err == nil {
		t.asyncSetL2(key, raw)
	}
}

// GetOrCompute performs Get, falling back to compute on miss, collapsing
// concurrent callers for the same key into a single compute call via
// single-flight (spec.md §4.4/§7 Scenario E).
func (t *Tier) GetOrCompute(ctx context.Context, key string, compute func() (Entry, error)) (Entry, bool, error) {
	return t.getOrCompute(ctx, key, compute, false)
}

// GetOrComputeIndefinite is GetOrCompute for birth-keyed computations whose
// inputs fully determine their output (HD charts, Vimshottari timelines;
// spec.md §4.4): a miss is stored with PutIndefinite instead of Set, so it
// never expires out of L1.
func (t *Tier) GetOrComputeIndefinite(ctx context.Context, key string, compute func() (Entry, error)) (Entry, bool, error) {
	return t.getOrCompute(ctx, key, compute, true)
}

func (t *Tier) getOrCompute(ctx context.Context, key string, compute func() (Entry, error), indefinite bool) (Entry, bool, error) {
	if e, ok := t.Get(ctx, key); ok {
		return e, true, nil
	}

	v, err, shared := t.sf.Do(key, func() (interface{}, error) {
		e, err := compute()
		if err != nil {
			return Entry{}, err
		}
		if indefinite {
			t.PutIndefinite(ctx, key, e)
		} else {
			t.Set(ctx, key, e)
		}
		return e, nil
	})
	metrics.RecordSingleflight(!shared)
	if err != nil {
		return Entry{}, false, err
	}
	return v.(Entry), false, nil
}

// Purge clears L1 entirely. Used operationally and in tests; it does not
// touch L2/L3.
func (t *Tier) Purge() {
	t.l1.Purge()
}

// L1Len reports the current number of L1 entries.
func (t *Tier) L1Len() int {
	return t.l1.Len()
}
