package models

import (
	"time"

	"github.com/google/uuid"
)

// Chat roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one conversation turn. Messages are never mutated once
// created; the ordered sequence is owned by the caller.
type ChatMessage struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"` // epoch ms
}

// NewChatMessage stamps a message with a fresh id and the current time.
func NewChatMessage(role, content string) ChatMessage {
	return ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Recommendation types
const (
	RecommendThreshold   = "threshold"
	RecommendStacking    = "stacking"
	RecommendExpiry      = "expiry"
	RecommendAlternative = "alternative"
)

// Urgency levels
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

// AIRecommendation is a piece of advice derived from the coupon set.
type AIRecommendation struct {
	Type           string   `json:"type"`
	Message        string   `json:"message"`
	RelatedCoupons []string `json:"related_coupons"`
	Urgency        string   `json:"urgency,omitempty"`
}
