package command

import (
	"sync"

	"github.com/google/uuid"
)

// aggregateLocks serializes command handling per aggregate id so two
// commands against the same release or stream never interleave their
// load-mutate-persist cycle.
type aggregateLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newAggregateLocks() *aggregateLocks {
	return &aggregateLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// Lock acquires the lock for the given aggregate and returns its unlock
// function.
func (a *aggregateLocks) Lock(id uuid.UUID) func() {
	a.mu.Lock()
	l := a.locks[id]
	if l == nil {
		l = &sync.Mutex{}
		a.locks[id] = l
	}
	a.mu.Unlock()

	l.Lock()
	return l.Unlock
}
