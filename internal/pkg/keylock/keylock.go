// Package keylock provides per-key mutual exclusion: callers holding
// different keys never contend, while callers holding the same key are
// serialized. Locks are created on first use and reclaimed once the last
// holder releases them, so the map does not grow with the key space.
package keylock

import (
	"sync"
)

type entry struct {
	mu   sync.Mutex
	refs int
}

// KeyLock serializes access per key. The zero value is not usable; create
// instances with New.
type KeyLock struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// New creates an empty KeyLock.
func New() *KeyLock {
	return &KeyLock{entries: make(map[string]*entry)}
}

// Lock acquires the mutex for key, blocking while another caller holds it.
func (k *KeyLock) Lock(key string) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the mutex for key. Unlocking a key that is not held
// panics, matching sync.Mutex semantics.
func (k *KeyLock) Unlock(key string) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		k.mu.Unlock()
		panic("keylock: unlock of unlocked key " + key)
	}
	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
	}
	k.mu.Unlock()

	e.mu.Unlock()
}
