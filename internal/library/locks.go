package library

import "sync"

// keyedLocks provides one mutex per reference id, so concurrent
// enrichments of the same reference serialize in completion order while
// operations on different references proceed independently. Entries are
// never reclaimed; a personal library has few enough ids for that to
// matter.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for key, creating it on first use.
func (k *keyedLocks) lock(key string) {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()
	m.Lock()
}

// unlock releases the mutex for key.
func (k *keyedLocks) unlock(key string) {
	k.mu.Lock()
	m := k.locks[key]
	k.mu.Unlock()
	if m != nil {
		m.Unlock()
	}
}
