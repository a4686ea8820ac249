// Package identity resolves account identifiers to human-readable display
// names, the engine's second external capability.
package identity

import (
	"context"

	lru "github.com/hashicorp/golang-lru"

	"github.com/rbochenek/liberland-vote-scope/pkg/election"
)

// Resolver maps an AccountID to an optional display name. The engine never
// calls this directly; only result assembly's identity-mapping post-walk
// does, so a Resolver may batch, cache, or call out to chain storage as it
// sees fit.
type Resolver interface {
	DisplayNameOf(ctx context.Context, who election.AccountID) (string, bool)
}

// CachedResolver wraps another Resolver with an LRU cache of resolved
// names, so repeated accounts across a single election's candidates,
// voters and rounds are only resolved once.
type CachedResolver struct {
	next  Resolver
	cache *lru.Cache
}

// NewCachedResolver returns a CachedResolver of the given capacity wrapping
// next. A non-positive size is raised to 1, so at most one name is cached.
func NewCachedResolver(next Resolver, size int) (*CachedResolver, error) {
	if size <= 0 {
		size = 1
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &CachedResolver{next: next, cache: cache}, nil
}

type cacheEntry struct {
	name string
	ok   bool
}

// DisplayNameOf returns the cached name if present, otherwise resolves and
// caches it via the wrapped Resolver.
func (r *CachedResolver) DisplayNameOf(ctx context.Context, who election.AccountID) (string, bool) {
	if v, found := r.cache.Get(who); found {
		entry := v.(cacheEntry)
		return entry.name, entry.ok
	}
	name, ok := r.next.DisplayNameOf(ctx, who)
	r.cache.Add(who, cacheEntry{name: name, ok: ok})
	return name, ok
}
