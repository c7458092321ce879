// Package cache holds rendered public responses between writes.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/aTrapDeer/portfolio-backend/internal/logger"
)

const keyPrefix = "portfolio:public:"

// inflight collapses concurrent misses on the same key and generation into
// one fetch.
var inflight singleflight.Group

// generations counts invalidations per entity. A fetch that started before
// an invalidation must not write its result back.
var generations = struct {
	sync.Mutex
	n map[string]uint64
}{n: map[string]uint64{}}

func generation(entity string) uint64 {
	generations.Lock()
	defer generations.Unlock()
	return generations.n[entity]
}

// entityOf returns the entity segment of a key built by Key.
func entityOf(key string) string {
	e := strings.TrimPrefix(key, keyPrefix)
	if i := strings.IndexByte(e, ':'); i >= 0 {
		e = e[:i]
	}
	return e
}

// Store keeps opaque values under string keys.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte) error
	// DeletePrefix drops every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

// Key builds the cache key for one public read of entity, e.g.
// Key("projects", "list") or Key("projects", "show", slug).
func Key(entity string, parts ...string) string {
	k := keyPrefix + entity
	for _, p := range parts {
		k += ":" + p
	}
	return k
}

// Remember returns the cached value for key, or calls fetch and caches its
// result. Cache errors degrade to a direct fetch; fetch errors are never
// cached.
func Remember[T any](ctx context.Context, s Store, log logger.Logger, key string, fetch func(context.Context) (T, error)) (T, error) {
	if raw, ok, err := s.Get(ctx, key); err != nil {
		log.Warn("cache read failed", logger.String("key", key), logger.Error(err))
	} else if ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
	}

	entity := entityOf(key)
	gen := generation(entity)
	raw, err, _ := inflight.Do(key+"@"+strconv.FormatUint(gen, 10), func() (any, error) {
		v, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode cache value: %w", err)
		}
		// The check and Set share the lock Invalidate bumps under.
		generations.Lock()
		defer generations.Unlock()
		if generations.n[entity] != gen {
			return raw, nil
		}
		if err := s.Set(ctx, key, raw); err != nil {
			log.Warn("cache write failed", logger.String("key", key), logger.Error(err))
		}
		return raw, nil
	})
	var v T
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal(raw.([]byte), &v); err != nil {
		return v, fmt.Errorf("decode cache value: %w", err)
	}
	return v, nil
}

// Invalidate drops every cached read of entity. Reads already in flight keep
// their result but do not cache it, and later reads start a fresh fetch.
func Invalidate(ctx context.Context, s Store, log logger.Logger, entity string) {
	generations.Lock()
	generations.n[entity]++
	generations.Unlock()
	if err := s.DeletePrefix(ctx, Key(entity)); err != nil {
		log.Warn("cache invalidation failed", logger.String("entity", entity), logger.Error(err))
	}
}
