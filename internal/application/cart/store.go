package cart

import (
	"sync"

	"github.com/google/uuid"
	cartdomain "github.com/stitchpos/backend/internal/domain/cart"
	"github.com/stitchpos/backend/internal/domain/shared"
	"github.com/stitchpos/backend/internal/domain/shared/valueobject"
)

// Store holds the live carts of open selling sessions. Carts are
// in-memory only; a restart abandons them. Each session owns exactly one
// cart and sessions are never shared across terminals.
type Store struct {
	mu    sync.RWMutex
	carts map[string]*cartdomain.Cart
}

func NewStore() *Store {
	return &Store{carts: make(map[string]*cartdomain.Cart)}
}

// GetOrCreate returns the session's cart, creating it on first use.
func (s *Store) GetOrCreate(sessionID string, shopID uuid.UUID, currency valueobject.Currency) (*cartdomain.Cart, error) {
	if sessionID == "" {
		return nil, shared.NewDomainError("INVALID_SESSION", "session id cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.carts[sessionID]; ok {
		return c, nil
	}
	c, err := cartdomain.NewCart(shopID, currency)
	if err != nil {
		return nil, err
	}
	s.carts[sessionID] = c
	return c, nil
}

// Get returns the session's cart or ErrNotFound.
func (s *Store) Get(sessionID string) (*cartdomain.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.carts[sessionID]; ok {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

// Remove drops the session's cart.
func (s *Store) Remove(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}

// Len reports how many sessions currently hold a cart.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.carts)
}
