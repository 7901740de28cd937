package service

import (
	"sync"

	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/models"
)

// SessionState is the mutable state of one session for the duration of one message.
// It is loaded from the session store, changed by the router and written back if dirty.
type SessionState struct {
	ID    string
	Cart  models.Cart
	Order *models.Order

	cartDirty  bool
	orderDirty bool
	placed     *models.Order
}

func (s *SessionState) SetCart(c models.Cart) {
	if c == nil {
		c = models.Cart{}
	}
	s.Cart = c
	s.cartDirty = true
}

func (s *SessionState) SetOrder(o *models.Order) {
	s.Order = o
	s.orderDirty = true
	s.placed = o
}

// sessionLocks serializes work per session id. Entries are dropped once unused.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

// Lock blocks until the caller holds the session's lock and returns the release func.
func (l *sessionLocks) Lock(id string) func() {
	l.mu.Lock()
	lk, ok := l.locks[id]
	if !ok {
		lk = &sessionLock{}
		l.locks[id] = lk
	}
	lk.refs++
	l.mu.Unlock()

	lk.mu.Lock()

	return func() {
		lk.mu.Unlock()

		l.mu.Lock()
		lk.refs--
		if lk.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func (l *sessionLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
