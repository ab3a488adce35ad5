package memory

import (
	"context"
	"sync"
	"time"

	"github.com/avvvet/couponbuddy-assistant/internal/models"
)

// InMemoryStore is a process-local Store used when Redis is not configured.
// Sessions do not expire.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*SessionData
}

// NewInMemoryStore creates an empty store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*SessionData)}
}

func (s *InMemoryStore) LoadSession(_ context.Context, sessionID string) (*SessionData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return emptySession(sessionID), nil
	}
	return cloneSession(session), nil
}

func (s *InMemoryStore) SaveMessage(_ context.Context, sessionID, userID string, msg models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		session = emptySession(sessionID)
		s.sessions[sessionID] = session
	}
	appendMessage(session, userID, msg)
	return nil
}

func (s *InMemoryStore) ReplaceSession(_ context.Context, sessionID, userID string, messages []models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(messages) == 0 {
		delete(s.sessions, sessionID)
		return nil
	}
	s.sessions[sessionID] = newSession(sessionID, userID, messages)
	return nil
}

func (s *InMemoryStore) GetMessages(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	session, err := s.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return session.Messages, nil
}

func (s *InMemoryStore) ClearSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	return nil
}

func (s *InMemoryStore) SessionExists(_ context.Context, sessionID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.sessions[sessionID]
	return ok, nil
}

func (s *InMemoryStore) UpdateActivity(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[sessionID]; ok {
		session.Metadata.LastActivity = time.Now()
	}
	return nil
}

func cloneSession(in *SessionData) *SessionData {
	out := *in
	out.Messages = append([]models.ChatMessage{}, in.Messages...)
	return &out
}
