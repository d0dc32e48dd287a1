package session

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/TemirB/wb-cart-quantity/internal/quantity"
)

type entry struct {
	mu         sync.Mutex
	normalizer *quantity.Normalizer
}

// Registry hands out one quantity.Normalizer per session key and serializes
// its use. Evicted sessions start over with a fresh normalizer.
type Registry struct {
	mu   sync.Mutex
	base quantity.Modifier
	lru  *lru.Cache[string, *entry]
}

func New(size int, base quantity.Modifier) (*Registry, error) {
	c, err := lru.New[string, *entry](size)
	if err != nil {
		return nil, err
	}
	return &Registry{
		base: base,
		lru:  c,
	}, nil
}

// Do runs fn with the normalizer of the given session. Calls for the same
// key never overlap. When fn fails the normalizer is put back to the state
// it had before the call, so a retried command rounds the same way again.
func (r *Registry) Do(key string, fn func(m quantity.Modifier) error) error {
	e := r.get(key)

	e.mu.Lock()
	defer e.mu.Unlock()

	prev, ok := e.normalizer.Previous()
	if err := fn(e.normalizer); err != nil {
		e.normalizer.Restore(prev, ok)
		return err
	}
	return nil
}

// Previous reports the last applied quantity recorded for the session.
func (r *Registry) Previous(key string) (int, bool) {
	e, ok := r.lru.Peek(key)
	if !ok {
		return 0, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.normalizer.Previous()
}

func (r *Registry) Forget(key string) {
	r.lru.Remove(key)
}

func (r *Registry) Len() int {
	return r.lru.Len()
}

func (r *Registry) get(key string) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.lru.Get(key); ok {
		return e
	}
	e := &entry{normalizer: quantity.NewNormalizer(r.base)}
	r.lru.Add(key, e)
	return e
}
