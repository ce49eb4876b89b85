package flow

import (
	"sync"

	"github.com/carlosmaximiano-creator/anf-labour-bot/internal/models"
)

// SessionStore keeps the in-flight conversation of each user, keyed by
// telegram id. Sessions are ephemeral; losing them on restart only forces
// the user to start the short interaction over.
type SessionStore interface {
	Get(userID string) (*models.FlowSession, bool)
	Put(userID string, s *models.FlowSession)
	Clear(userID string)
}

// MemorySessionStore is the process-local SessionStore implementation.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.FlowSession
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]*models.FlowSession)}
}

func (s *MemorySessionStore) Get(userID string) (*models.FlowSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	return sess, ok
}

func (s *MemorySessionStore) Put(userID string, sess *models.FlowSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = sess
}

func (s *MemorySessionStore) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
