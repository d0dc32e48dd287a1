package keylock

import "sync"

type lock struct {
	mu   sync.Mutex
	refs int
}

// Locker hands out one mutex per key. Entries live only while someone holds
// or waits for them.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*lock
}

func New() *Locker {
	return &Locker{locks: make(map[string]*lock)}
}

// Lock blocks until key is free and returns the function that releases it.
func (l *Locker) Lock(key string) (unlock func()) {
	l.mu.Lock()
	k, ok := l.locks[key]
	if !ok {
		k = &lock{}
		l.locks[key] = k
	}
	k.refs++
	l.mu.Unlock()

	k.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			k.mu.Unlock()

			l.mu.Lock()
			k.refs--
			if k.refs == 0 {
				delete(l.locks, key)
			}
			l.mu.Unlock()
		})
	}
}

// Len reports how many keys are held or waited for.
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
