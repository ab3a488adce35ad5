package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/avvvet/couponbuddy-assistant/internal/coupons"
	"github.com/avvvet/couponbuddy-assistant/internal/llm"
	"github.com/avvvet/couponbuddy-assistant/internal/memory"
	"github.com/avvvet/couponbuddy-assistant/internal/models"
	"github.com/avvvet/couponbuddy-assistant/internal/prompts"
)

// ChatHandler runs chat turns and keeps their history in the memory manager
type ChatHandler struct {
	provider llm.Provider
	memory   *memory.Manager
	source   coupons.Source // optional page data
}

// NewChatHandler creates a chat handler. source may be nil, which disables page data.
func NewChatHandler(provider llm.Provider, manager *memory.Manager, source coupons.Source) *ChatHandler {
	return &ChatHandler{
		provider: provider,
		memory:   manager,
		source:   source,
	}
}

// ProcessChat answers one chat request. Failures come back as error
// responses; the Go error is reserved for the transport.
func (h *ChatHandler) ProcessChat(ctx context.Context, request *models.ChatRequest) (*models.ChatResponse, error) {
	if err := h.validateRequest(request); err != nil {
		return h.createErrorResponse(request, models.ErrorParseError, err.Error()), nil
	}

	history, err := h.loadHistory(ctx, request)
	if err != nil {
		log.Printf("Failed to load history for session %s: %v", request.SessionID, err)
		return h.createErrorResponse(request, models.ErrorStoreFailed, err.Error()), nil
	}

	llmRequest := &llm.Request{
		Query:     request.Message,
		History:   history,
		CartTotal: request.CartTotal,
	}
	if page := h.pageData(ctx, request.Domain); page != nil {
		llmRequest.PageData = page
	}

	llmResponse, err := h.provider.Respond(ctx, llmRequest)
	if err != nil {
		code := models.ErrorInferenceFailed
		if errors.Is(err, context.DeadlineExceeded) {
			code = models.ErrorInferenceTimeout
		}
		return h.createErrorResponse(request, code, err.Error()), nil
	}
	reply := llmResponse.Reply

	userMsg := models.NewChatMessage(models.RoleUser, request.Message)
	assistantMsg := models.NewChatMessage(models.RoleAssistant, reply.Text)
	for _, msg := range []models.ChatMessage{userMsg, assistantMsg} {
		if err := h.memory.SaveMessage(ctx, request.SessionID, msg); err != nil {
			log.Printf("Failed to save message for session %s: %v", request.SessionID, err)
			return h.createErrorResponse(request, models.ErrorStoreFailed, err.Error()), nil
		}
	}

	log.Printf("Chat processed for session %s: intent=%s source=%s tokens=%d",
		request.SessionID, reply.Classification.Intent, reply.Classification.Source, reply.Tokens)

	return &models.ChatResponse{
		SessionID:    request.SessionID,
		Intent:       string(reply.Classification.Intent),
		IntentSource: reply.Classification.Source,
		Reply:        reply.Text,
		Message:      assistantMsg,
		HistorySize:  len(history) + 2,
	}, nil
}

// loadHistory prefers history sent with the request over the stored one
func (h *ChatHandler) loadHistory(ctx context.Context, request *models.ChatRequest) ([]models.ChatMessage, error) {
	if len(request.History) > 0 {
		if err := h.memory.ReplaceHistory(ctx, request.SessionID, request.History); err != nil {
			return nil, err
		}
		return request.History, nil
	}
	return h.memory.History(ctx, request.SessionID)
}

// pageData fetches the domain's coupons; failures only cost the page data
func (h *ChatHandler) pageData(ctx context.Context, domain string) coupons.PageData {
	if h.source == nil || strings.TrimSpace(domain) == "" {
		return nil
	}
	list, err := h.source.Coupons(ctx, domain)
	if err != nil {
		log.Printf("⚠️ No page data for %s: %v", domain, err)
		return nil
	}
	return coupons.PageData(list)
}

// Session returns the stored conversation with its transcript. Reading a
// session counts as activity.
func (h *ChatHandler) Session(ctx context.Context, sessionID string) (*models.SessionView, error) {
	if err := h.memory.UpdateActivity(ctx, sessionID); err != nil {
		log.Printf("⚠️ Could not refresh session %s: %v", sessionID, err)
	}

	messages, err := h.memory.History(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	transcript, err := h.memory.Transcript(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to render transcript: %w", err)
	}
	return &models.SessionView{
		SessionID:  sessionID,
		Messages:   messages,
		Transcript: transcript,
	}, nil
}

// ClearSession forgets the conversation
func (h *ChatHandler) ClearSession(ctx context.Context, sessionID string) error {
	return h.memory.ClearSession(ctx, sessionID)
}

// Health reports whether the conversation store is reachable
func (h *ChatHandler) Health(ctx context.Context) error {
	return h.memory.Ping(ctx)
}

func (h *ChatHandler) validateRequest(request *models.ChatRequest) error {
	if request.SessionID == "" {
		return fmt.Errorf("session_id is required")
	}
	if strings.TrimSpace(request.Message) == "" {
		return fmt.Errorf("message is required")
	}
	return nil
}

func (h *ChatHandler) createErrorResponse(request *models.ChatRequest, errorCode, errorMessage string) *models.ChatResponse {
	return &models.ChatResponse{
		SessionID:    request.SessionID,
		Reply:        prompts.FallbackMessage,
		ErrorCode:    &errorCode,
		ErrorMessage: &errorMessage,
	}
}
