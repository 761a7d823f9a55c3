package gameserver

import "sync"

// CharacterLocks serialises work on one character across the handlers that
// share it. An entry lives only while a holder or waiter needs it.
//
// CharacterLocks is safe for concurrent use.
type CharacterLocks struct {
	mu    sync.Mutex
	locks map[int64]*characterLock
}

type characterLock struct {
	mu   sync.Mutex
	refs int
}

// NewCharacterLocks returns an empty lock set.
func NewCharacterLocks() *CharacterLocks {
	return &CharacterLocks{locks: make(map[int64]*characterLock)}
}

// Lock blocks until id is free and returns the function that releases it.
//
// Postcondition: the returned unlock must be called exactly once.
func (l *CharacterLocks) Lock(id int64) (unlock func()) {
	l.mu.Lock()
	e, ok := l.locks[id]
	if !ok {
		e = &characterLock{}
		l.locks[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		defer l.mu.Unlock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, id)
		}
	}
}

// Len returns the number of characters currently held or awaited.
func (l *CharacterLocks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
