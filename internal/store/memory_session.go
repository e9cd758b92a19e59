package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clepord34/pawres/models"
)

// memorySessionStore keeps sessions in process memory. Sessions do not
// survive a restart and are not shared between instances.
type memorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{
		sessions: make(map[string]models.Session),
	}
}

// Create stores session under a new random token.
func (s *memorySessionStore) Create(_ context.Context, session models.Session) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("error generating session token: %w", err)
	}
	token := id.String()

	s.mu.Lock()
	s.sessions[token] = session
	s.mu.Unlock()

	return token, nil
}

func (s *memorySessionStore) Get(_ context.Context, token string) (models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[token]
	if !ok {
		return models.Session{}, ErrSessionNotFound
	}
	return session, nil
}

// Save replaces an existing session. Unknown tokens are rejected so a
// deleted session cannot be resurrected.
func (s *memorySessionStore) Save(_ context.Context, token string, session models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[token]; !ok {
		return ErrSessionNotFound
	}
	s.sessions[token] = session
	return nil
}

// Delete is idempotent.
func (s *memorySessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}

func (s *memorySessionStore) DeleteIdleSince(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, session := range s.sessions {
		if session.LastActivity.Before(cutoff) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed, nil
}
