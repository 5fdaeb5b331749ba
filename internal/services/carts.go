package services

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"bakery-order-service/internal/domain"
)

// ErrCartNotFound is returned for operations on unknown cart IDs.
var ErrCartNotFound = errors.New("cart not found")

// CartRegistry holds the in-memory cart sessions, keyed by an opaque
// cart ID handed to the client at creation. Carts themselves are not
// safe for concurrent use, so every access goes through the registry
// lock.
type CartRegistry struct {
	mu    sync.Mutex
	carts map[string]*domain.Cart
}

func NewCartRegistry() *CartRegistry {
	return &CartRegistry{carts: make(map[string]*domain.Cart)}
}

// Create registers a new empty cart and returns its ID.
func (r *CartRegistry) Create() string {
	id := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[id] = domain.NewCart()

	return id
}

// Do runs fn with exclusive access to the cart. Everything the
// callback reads or derives from the cart is consistent with the line
// map at that instant.
func (r *CartRegistry) Do(id string, fn func(cart *domain.Cart) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[id]
	if !ok {
		return ErrCartNotFound
	}

	return fn(cart)
}

// Delete removes a cart session entirely.
func (r *CartRegistry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, id)
}
