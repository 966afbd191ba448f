package application

import "sync"

// KeyedMutex serializes command execution per key. Voting commands lock the
// claim id and stake commands lock the guardian id, which keeps the
// read-evaluate-commit sequence of each aggregate serial on one instance
// even though the HTTP runtime is concurrent.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyLock)}
}

// Lock blocks until the key is exclusively held and returns the release
// function. Entries are dropped once the last waiter releases.
func (m *KeyedMutex) Lock(key string) func() {
	m.mu.Lock()
	entry, ok := m.locks[key]
	if !ok {
		entry = &keyLock{}
		m.locks[key] = entry
	}
	entry.refs++
	m.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		m.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(m.locks, key)
		}
		m.mu.Unlock()
	}
}
