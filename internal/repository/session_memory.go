package repository

import (
	"context"
	"sync"

	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/models"
)

type memorySession struct {
	cart  models.Cart
	order *models.Order
}

// MemorySessionStore keeps sessions in process memory. State is lost on restart.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*memorySession
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]*memorySession)}
}

func (s *MemorySessionStore) GetCart(ctx context.Context, sessionID string) (models.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok || sess.cart == nil {
		return models.Cart{}, nil
	}
	return append(models.Cart{}, sess.cart...), nil
}

func (s *MemorySessionStore) SaveCart(ctx context.Context, sessionID string, cart models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session(sessionID).cart = append(models.Cart{}, cart...)
	return nil
}

func (s *MemorySessionStore) GetOrder(ctx context.Context, sessionID string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok || sess.order == nil {
		return nil, nil
	}
	o := *sess.order
	return &o, nil
}

func (s *MemorySessionStore) SaveOrder(ctx context.Context, sessionID string, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if order == nil {
		s.session(sessionID).order = nil
		return nil
	}
	o := *order
	s.session(sessionID).order = &o
	return nil
}

func (s *MemorySessionStore) SaveCheckout(ctx context.Context, sessionID string, order *models.Order, cart models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := *order
	sess := s.session(sessionID)
	sess.order = &o
	sess.cart = append(models.Cart{}, cart...)
	return nil
}

func (s *MemorySessionStore) Ping(ctx context.Context) error {
	return nil
}

// session must be called with the write lock held.
func (s *MemorySessionStore) session(id string) *memorySession {
	sess, ok := s.sessions[id]
	if !ok {
		sess = &memorySession{}
		s.sessions[id] = sess
	}
	return sess
}
