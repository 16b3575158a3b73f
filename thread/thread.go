// Package thread persists conversation state keyed by user email. A thread
// is created on its first message and retained indefinitely; every turn is
// a read-modify-write against it.
package thread

import (
	"context"
	"sync"

	"github.com/becomeliminal/concierge/core"
)

// Store is the keyed session store interface.
type Store interface {
	// History returns the thread for the email, oldest first. A thread
	// that does not exist yet yields an empty history, not an error.
	History(ctx context.Context, email string) ([]core.Message, error)

	// Append adds messages to the end of the thread, creating it if
	// needed.
	Append(ctx context.Context, email string, msgs ...core.Message) error

	// Close releases resources.
	Close() error
}

// MemoryStore keeps threads in process memory. Suitable for default runs
// and tests; state is lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	threads map[string][]core.Message
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{threads: make(map[string][]core.Message)}
}

func (s *MemoryStore) History(ctx context.Context, email string) ([]core.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.threads[email]
	out := make([]core.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *MemoryStore) Append(ctx context.Context, email string, msgs ...core.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.threads[email] = append(s.threads[email], msgs...)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
