package llm

import (
	"context"

	"github.com/avvvet/couponbuddy-assistant/internal/assistant"
	"github.com/avvvet/couponbuddy-assistant/internal/models"
)

// Provider produces the assistant's reply for one chat turn
type Provider interface {
	Respond(ctx context.Context, request *Request) (*Response, error)
}

// Request is one chat turn with the full prior history
type Request struct {
	Query     string
	History   []models.ChatMessage
	PageData  assistant.PageDataProvider // optional
	CartTotal *float64                   // optional, reported by the page
}

// Response wraps the assistant reply with token usage
type Response struct {
	Reply assistant.Reply
	Usage *Usage
}

// Usage counts tokens on both sides of the turn
type Usage struct {
	InputTokens  int
	OutputTokens int
}
