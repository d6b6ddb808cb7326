package catalog

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/PabloGalante/shopchat/internal/domain"
)

// Cached keeps the last successful catalog for ttl. Concurrent misses share
// a single upstream fetch.
type Cached struct {
	next domain.CatalogSource
	ttl  time.Duration
	now  func() time.Time

	group singleflight.Group

	mu        sync.RWMutex
	products  []domain.Product
	fetchedAt time.Time
	valid     bool
}

func NewCached(next domain.CatalogSource, ttl time.Duration) *Cached {
	return &Cached{next: next, ttl: ttl, now: time.Now}
}

// WithClock replaces time.Now; used by tests.
func (c *Cached) WithClock(now func() time.Time) *Cached {
	c.now = now
	return c
}

func (c *Cached) FetchCatalog(ctx context.Context) ([]domain.Product, error) {
	c.mu.RLock()
	if c.valid && c.now().Sub(c.fetchedAt) < c.ttl {
		out := copyProducts(c.products)
		c.mu.RUnlock()
		return out, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do("catalog", func() (any, error) {
		products, err := c.next.FetchCatalog(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.products = products
		c.fetchedAt = c.now()
		c.valid = true
		c.mu.Unlock()
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return copyProducts(v.([]domain.Product)), nil
}

// Invalidate drops the cached catalog.
func (c *Cached) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.products = nil
	c.mu.Unlock()
}
