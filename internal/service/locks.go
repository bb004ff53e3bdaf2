package service

import "sync"

// groupLocks hands out one RWMutex per group ID so that ledger writes in a
// group are serialized against snapshot reads of the same group, while
// different groups never contend.
type groupLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

func (g *groupLocks) get(groupID string) *sync.RWMutex {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.locks == nil {
		g.locks = make(map[string]*sync.RWMutex)
	}
	lock, ok := g.locks[groupID]
	if !ok {
		lock = &sync.RWMutex{}
		g.locks[groupID] = lock
	}
	return lock
}
