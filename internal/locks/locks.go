// Package locks provides the per-battle critical section. Turn resolution
// reads roster HP, decides the next turn and writes both back; those
// reads and writes span several rows, so row-level database locking alone
// cannot keep two concurrent submissions for the same battle from
// interleaving. One mutex per battle id serializes them.
package locks

import "sync"

// KeyedMutex hands out one mutex per key. Entries are reference counted
// and dropped when the last holder unlocks, so idle battles cost nothing.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[uint]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{entries: make(map[uint]*entry)}
}

// Lock acquires the mutex for the key, blocking while another caller
// holds it.
func (k *KeyedMutex) Lock(key uint) {
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

// Unlock releases the mutex for the key.
func (k *KeyedMutex) Unlock(key uint) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if ok {
		e.refs--
		if e.refs == 0 {
			delete(k.entries, key)
		}
	}
	k.mu.Unlock()

	if ok {
		e.mu.Unlock()
	}
}

// Battles serializes action resolution per battle id. Battles proceed
// fully independently of each other; only same-battle submissions queue.
var Battles = NewKeyedMutex()
