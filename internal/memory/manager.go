package memory

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/avvvet/couponbuddy-assistant/internal/models"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/memory"
)

const noHistory = "No previous conversation."

// Manager mirrors stored sessions into LangChainGo conversation buffers
type Manager struct {
	store         Store
	mu            sync.Mutex
	sessions      map[string]*memory.ConversationBuffer // in-memory cache
	defaultUserID string
}

// NewManager creates a new memory manager
func NewManager(store Store) *Manager {
	return &Manager{
		store:         store,
		sessions:      make(map[string]*memory.ConversationBuffer),
		defaultUserID: "extension",
	}
}

// buffer returns the cached buffer for sessionID, loading it from the store
// on first use. A cached buffer whose session has left the store (expired or
// cleared elsewhere) is dropped and reloaded. Callers hold m.mu.
func (m *Manager) buffer(ctx context.Context, sessionID string) (*memory.ConversationBuffer, error) {
	if mem, cached := m.sessions[sessionID]; cached {
		exists, err := m.store.SessionExists(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to check session: %w", err)
		}
		if exists {
			return mem, nil
		}
		delete(m.sessions, sessionID)
	}

	sessionData, err := m.store.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	mem := memory.NewConversationBuffer()
	if err := fill(ctx, mem, sessionData.Messages); err != nil {
		return nil, err
	}
	m.sessions[sessionID] = mem

	log.Printf("📚 Loaded session %s with %d messages", sessionID, len(sessionData.Messages))
	return mem, nil
}

func fill(ctx context.Context, mem *memory.ConversationBuffer, messages []models.ChatMessage) error {
	for _, msg := range messages {
		var chatMsg llms.ChatMessage
		switch msg.Role {
		case models.RoleUser:
			chatMsg = llms.HumanChatMessage{Content: msg.Content}
		case models.RoleAssistant:
			chatMsg = llms.AIChatMessage{Content: msg.Content}
		default:
			log.Printf("⚠️ Unknown message role: %s, skipping", msg.Role)
			continue
		}
		if err := mem.ChatHistory.AddMessage(ctx, chatMsg); err != nil {
			return fmt.Errorf("failed to add message to memory: %w", err)
		}
	}
	return nil
}

// SaveMessage persists msg and appends it to the session buffer
func (m *Manager) SaveMessage(ctx context.Context, sessionID string, msg models.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	mem, err := m.buffer(ctx, sessionID)
	if err != nil {
		return err
	}

	if err := m.store.SaveMessage(ctx, sessionID, m.defaultUserID, msg); err != nil {
		return fmt.Errorf("failed to save message to store: %w", err)
	}

	if err := fill(ctx, mem, []models.ChatMessage{msg}); err != nil {
		return err
	}

	log.Printf("💾 Saved %s message to session %s", msg.Role, sessionID)
	return nil
}

// History returns the stored messages for sessionID, oldest first
func (m *Manager) History(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	return m.store.GetMessages(ctx, sessionID)
}

// ReplaceHistory makes history sent by the caller the session's history,
// both in the store and in the buffer
func (m *Manager) ReplaceHistory(ctx context.Context, sessionID string, history []models.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.ReplaceSession(ctx, sessionID, m.defaultUserID, history); err != nil {
		return fmt.Errorf("failed to replace session in store: %w", err)
	}

	mem := memory.NewConversationBuffer()
	if err := fill(ctx, mem, history); err != nil {
		delete(m.sessions, sessionID)
		return err
	}
	m.sessions[sessionID] = mem

	log.Printf("📥 Loaded %d messages from request into session %s", len(history), sessionID)
	return nil
}

// Transcript renders the session buffer as "User: ..." / "Assistant: ..." lines
func (m *Manager) Transcript(ctx context.Context, sessionID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mem, err := m.buffer(ctx, sessionID)
	if err != nil {
		return "", err
	}

	messages, err := mem.ChatHistory.Messages(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get messages: %w", err)
	}
	if len(messages) == 0 {
		return noHistory, nil
	}

	var b strings.Builder
	for _, msg := range messages {
		switch msg := msg.(type) {
		case llms.HumanChatMessage:
			fmt.Fprintf(&b, "User: %s\n", msg.Content)
		case llms.AIChatMessage:
			fmt.Fprintf(&b, "Assistant: %s\n", msg.Content)
		}
	}
	return b.String(), nil
}

// ClearSession drops the session from the cache and the store
func (m *Manager) ClearSession(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	if err := m.store.ClearSession(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear session from store: %w", err)
	}

	log.Printf("🗑️ Cleared session %s", sessionID)
	return nil
}

// UpdateActivity marks the session as active, refreshing its expiry
func (m *Manager) UpdateActivity(ctx context.Context, sessionID string) error {
	if err := m.store.UpdateActivity(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
	}
	return nil
}

// Ping checks the store's connection. Stores without one are always healthy.
func (m *Manager) Ping(ctx context.Context) error {
	if pinger, ok := m.store.(interface{ Ping(context.Context) error }); ok {
		if err := pinger.Ping(ctx); err != nil {
			return fmt.Errorf("failed to reach store: %w", err)
		}
	}
	return nil
}

// ActiveSessionCount returns the number of cached sessions
func (m *Manager) ActiveSessionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close closes the underlying store if it holds a connection
func (m *Manager) Close() error {
	if closer, ok := m.store.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
