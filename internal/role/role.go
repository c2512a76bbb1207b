// Package role tracks which database role, if any, row mutations run as.
package role

import (
	"sync"

	"dbdeck/internal/domain"
)

// State holds the impersonated role. The zero value impersonates nobody.
type State struct {
	mu   sync.RWMutex
	role domain.Role
}

// New returns a State impersonating name, or nobody when name is empty.
func New(name string) *State {
	return &State{role: domain.Role{Name: name}}
}

// Set starts impersonating r.
func (s *State) Set(r domain.Role) {
	s.mu.Lock()
	s.role = r
	s.mu.Unlock()
}

// Clear stops impersonating.
func (s *State) Clear() {
	s.Set(domain.Role{})
}

// ImpersonatedRole returns the current role; IsZero reports no impersonation.
func (s *State) ImpersonatedRole() domain.Role {
	if s == nil {
		return domain.Role{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}
