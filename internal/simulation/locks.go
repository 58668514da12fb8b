package simulation

import "sync"

type matchLock struct {
	mu   sync.Mutex
	refs int
}

// matchLocks serialises work per match id. Entries are dropped once no
// caller holds or waits on them.
type matchLocks struct {
	mu    sync.Mutex
	locks map[uint]*matchLock
}

func newMatchLocks() *matchLocks {
	return &matchLocks{locks: make(map[uint]*matchLock)}
}

// Lock blocks until the match is free and returns the matching unlock.
func (l *matchLocks) Lock(matchID uint) func() {
	l.mu.Lock()
	ml, ok := l.locks[matchID]
	if !ok {
		ml = &matchLock{}
		l.locks[matchID] = ml
	}
	ml.refs++
	l.mu.Unlock()

	ml.mu.Lock()
	return func() {
		ml.mu.Unlock()
		l.mu.Lock()
		ml.refs--
		if ml.refs == 0 {
			delete(l.locks, matchID)
		}
		l.mu.Unlock()
	}
}

func (l *matchLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
