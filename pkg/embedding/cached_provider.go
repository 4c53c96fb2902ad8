package embedding

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CachedProvider wraps another Provider with an in-process cache keyed by the
// exact input text. Embedding calls are deterministic enough for this: the
// same query string always maps to the same stored vector within a process.
type CachedProvider struct {
	inner Provider
	cache *gocache.Cache
}

func NewCachedProvider(inner Provider, ttl time.Duration) Provider {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	return &CachedProvider{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (p *CachedProvider) Model() string {
	return p.inner.Model()
}

func (p *CachedProvider) Generate(ctx context.Context, text string) ([]float32, error) {
	if cached, found := p.cache.Get(text); found {
		return cached.([]float32), nil
	}

	vec, err := p.inner.Generate(ctx, text)
	if err != nil {
		return nil, err
	}

	p.cache.Set(text, vec, gocache.DefaultExpiration)
	return vec, nil
}
