// Package conversation keeps the ordered exchanges of a single chat session.
package conversation

import (
	"sync"

	"github.com/futig/switch-assistant/internal/entity"
)

// Store is an append-only, insertion-ordered list of exchanges.
// It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	exchanges []entity.Exchange
}

func NewStore() *Store {
	return &Store{}
}

// Append records an exchange at the end of the conversation
func (s *Store) Append(e entity.Exchange) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.exchanges = append(s.exchanges, e)
}

// All returns a copy of the exchanges in the order they were appended
func (s *Store) All() []entity.Exchange {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.Exchange, len(s.exchanges))
	copy(out, s.exchanges)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.exchanges)
}
