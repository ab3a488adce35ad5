package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/avvvet/couponbuddy-assistant/internal/assistant"
	"github.com/avvvet/couponbuddy-assistant/internal/tokenizer"
)

// LocalProvider answers with the rule-based assistant after a simulated
// inference delay. No model is executed.
type LocalProvider struct {
	assistant *assistant.Assistant
	latency   time.Duration
	timeout   time.Duration
}

// NewLocalProvider creates a provider that waits latency before answering.
// A positive timeout bounds each call.
func NewLocalProvider(a *assistant.Assistant, latency, timeout time.Duration) *LocalProvider {
	return &LocalProvider{
		assistant: a,
		latency:   latency,
		timeout:   timeout,
	}
}

// Respond runs one chat turn. A cancelled or expired ctx discards the reply.
func (p *LocalProvider) Respond(ctx context.Context, request *Request) (*Response, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	if err := p.simulateLatency(ctx); err != nil {
		return nil, fmt.Errorf("inference interrupted: %w", err)
	}

	a := p.assistant.WithCartTotal(request.CartTotal)
	if request.PageData != nil {
		a = a.WithPageData(request.PageData)
	}
	reply := a.ProcessChat(request.Query, request.History)

	return &Response{
		Reply: reply,
		Usage: &Usage{
			InputTokens:  reply.Tokens,
			OutputTokens: len(tokenizer.Words(reply.Text)),
		},
	}, nil
}

// simulateLatency blocks for the configured latency or until ctx is done
func (p *LocalProvider) simulateLatency(ctx context.Context) error {
	if p.latency <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(p.latency)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
