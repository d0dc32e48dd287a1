package cache

import (
	"context"

	"github.com/TemirB/wb-cart-quantity/internal/domain"

	lru "github.com/hashicorp/golang-lru/v2"
)

//go:generate mockgen -source internal/cache/cache.go -destination=internal/cache/cache_mock_test.go -package=cache

type repo interface {
	GetByUID(ctx context.Context, uid string) (*domain.Cart, error)
	RecentCartIDs(ctx context.Context, limit int) ([]string, error)
}

// Cache keeps deep copies of carts, so callers may mutate what they get
// without touching the cached value.
type Cache struct {
	size int
	lru  *lru.Cache[string, *domain.Cart]
}

func New(size int) (*Cache, error) {
	c, err := lru.New[string, *domain.Cart](size)
	if err != nil {
		return nil, err
	}
	return &Cache{
		size: size,
		lru:  c,
	}, nil
}

// Warm loads the most recently updated carts; failing ids are skipped.
func (c *Cache) Warm(ctx context.Context, repo repo) int {
	ids, err := repo.RecentCartIDs(ctx, c.size)
	if err != nil {
		return 0
	}
	loaded := 0
	for _, id := range ids {
		if cart, err := repo.GetByUID(ctx, id); err == nil {
			c.Set(cart)
			loaded++
		}
	}
	return loaded
}

func (c *Cache) Get(uid string) (*domain.Cart, bool) {
	cart, ok := c.lru.Get(uid)
	if !ok {
		return nil, false
	}
	return cart.Clone(), true
}

func (c *Cache) Set(cart *domain.Cart) {
	c.lru.Add(cart.CartUID, cart.Clone())
}

func (c *Cache) Delete(uid string) {
	c.lru.Remove(uid)
}
