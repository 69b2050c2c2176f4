package commands

import "sync"

// ElectionLocks serializes mutations per election id. The ledger assumes a
// single authoritative writer per election; when the host runs concurrent
// handlers this keeps lifecycle monotonicity and one-ballot-per-unit intact.
type ElectionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewElectionLocks() *ElectionLocks {
	return &ElectionLocks{locks: make(map[string]*sync.Mutex)}
}

// Acquire locks the given election id and returns the release func.
func (l *ElectionLocks) Acquire(electionID string) func() {
	if l == nil {
		return func() {}
	}
	l.mu.Lock()
	lock, ok := l.locks[electionID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[electionID] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
