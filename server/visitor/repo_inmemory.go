package visitor

import (
	"fmt"
	"sync"
)

// InMemoryVisitorRepo is an in-memory implementation of Repo
type InMemoryVisitorRepo struct {
	mu       sync.RWMutex
	visitors map[string]*Visitor
}

// NewInMemoryVisitorRepo creates a new in-memory visitor repository
func NewInMemoryVisitorRepo() *InMemoryVisitorRepo {
	return &InMemoryVisitorRepo{
		visitors: make(map[string]*Visitor),
	}
}

// Upsert creates or updates a visitor
func (r *InMemoryVisitorRepo) Upsert(visitorID string, v *Visitor) error {
	if visitorID == "" {
		return fmt.Errorf("visitorID is required")
	}
	if v == nil {
		return fmt.Errorf("visitor is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.visitors[visitorID] = v
	return nil
}

// Get retrieves a visitor by ID
func (r *InMemoryVisitorRepo) Get(visitorID string) (*Visitor, error) {
	if visitorID == "" {
		return nil, fmt.Errorf("visitorID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.visitors[visitorID]
	if !ok {
		return nil, fmt.Errorf("visitor not found")
	}
	return v, nil
}

// Delete removes a visitor
func (r *InMemoryVisitorRepo) Delete(visitorID string) error {
	if visitorID == "" {
		return fmt.Errorf("visitorID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.visitors, visitorID)
	return nil
}
