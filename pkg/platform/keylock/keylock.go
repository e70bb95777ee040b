// Package keylock provides per-key mutual exclusion.
//
// Writes affecting a single candidate's interview set or a single
// application's stage must be serialized per key so that
// conflict-check-then-commit is atomic: two concurrent writers for the same
// key never both observe a stale snapshot. Different keys proceed
// independently; reads never take these locks.
package keylock

import "sync"

// KeyedMutex serializes critical sections per string key.
// The zero value is not usable; construct with New.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func New() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*entry)}
}

// Lock acquires the mutex for key, blocking until it is available.
func (k *KeyedMutex) Lock(key string) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the mutex for key. Entries are removed once no goroutine
// holds or waits on them, so the map does not grow with key cardinality.
func (k *KeyedMutex) Unlock(key string) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		k.mu.Unlock()
		panic("keylock: unlock of unheld key " + key)
	}
	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()

	e.mu.Unlock()
}
