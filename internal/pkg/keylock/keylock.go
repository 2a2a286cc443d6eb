package keylock

import "sync"

// KeyLock provides mutual exclusion per string key. Locks for different keys
// are fully independent; callers locking the same key queue on that key's
// entry. Entries are created lazily and evicted as soon as no holder or
// waiter references them, so an idle key costs no memory.
type KeyLock struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	mu sync.Mutex
	// refs counts the holder plus all waiters; guarded by KeyLock.mu.
	refs int
}

// New constructs an empty lock table.
func New() *KeyLock {
	return &KeyLock{entries: make(map[string]*entry)}
}

// Lock acquires the exclusive slot for key, blocking while another caller
// holds it. The table mutex guards only the entry map, never the per-key
// critical section.
func (l *KeyLock) Lock(key string) {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
}

// Unlock releases the slot for key and evicts the entry when no one else
// holds or waits for it. Unlocking a key that is not held is a programming
// error and panics, matching sync.Mutex semantics.
func (l *KeyLock) Unlock(key string) {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		l.mu.Unlock()
		panic("keylock: unlock of unlocked key " + key)
	}
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
	l.mu.Unlock()

	e.mu.Unlock()
}

// Len reports the number of live entries. Intended for tests and metrics.
func (l *KeyLock) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
