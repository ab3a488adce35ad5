package memory

import (
	"context"
	"time"

	"github.com/avvvet/couponbuddy-assistant/internal/models"
)

// SessionData is everything stored for one chat session
type SessionData struct {
	SessionID string               `json:"session_id"`
	UserID    string               `json:"user_id"`
	Messages  []models.ChatMessage `json:"messages"`
	Metadata  Metadata             `json:"metadata"`
}

// Metadata contains session bookkeeping
type Metadata struct {
	StartedAt    time.Time `json:"started_at"`
	LastActivity time.Time `json:"last_activity"`
	MessageCount int       `json:"message_count"`
}

// Store persists chat history on behalf of the extension.
// Implementations: RedisStore, InMemoryStore.
type Store interface {
	// LoadSession returns the session, or an empty one if it does not exist
	LoadSession(ctx context.Context, sessionID string) (*SessionData, error)

	// SaveMessage appends a message to a session
	SaveMessage(ctx context.Context, sessionID, userID string, msg models.ChatMessage) error

	// ReplaceSession swaps the stored messages for messages. An empty list
	// removes the session.
	ReplaceSession(ctx context.Context, sessionID, userID string, messages []models.ChatMessage) error

	GetMessages(ctx context.Context, sessionID string) ([]models.ChatMessage, error)

	ClearSession(ctx context.Context, sessionID string) error

	SessionExists(ctx context.Context, sessionID string) (bool, error)

	// UpdateActivity touches the last activity timestamp
	UpdateActivity(ctx context.Context, sessionID string) error
}

func emptySession(sessionID string) *SessionData {
	now := time.Now()
	return &SessionData{
		SessionID: sessionID,
		Messages:  []models.ChatMessage{},
		Metadata: Metadata{
			StartedAt:    now,
			LastActivity: now,
		},
	}
}

// newSession builds a session holding messages
func newSession(sessionID, userID string, messages []models.ChatMessage) *SessionData {
	session := emptySession(sessionID)
	for _, msg := range messages {
		appendMessage(session, userID, msg)
	}
	return session
}

// appendMessage applies SaveMessage semantics to a loaded session
func appendMessage(session *SessionData, userID string, msg models.ChatMessage) {
	if session.UserID == "" {
		session.UserID = userID
	}
	session.Messages = append(session.Messages, msg)
	session.Metadata.LastActivity = time.Now()
	session.Metadata.MessageCount = len(session.Messages)
	if session.Metadata.MessageCount == 1 {
		session.Metadata.StartedAt = time.UnixMilli(msg.Timestamp)
	}
}
