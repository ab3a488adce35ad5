package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/avvvet/couponbuddy-assistant/internal/config"
	"github.com/avvvet/couponbuddy-assistant/internal/handlers"
	"github.com/avvvet/couponbuddy-assistant/internal/models"
	"github.com/avvvet/couponbuddy-assistant/internal/prompts"
	"github.com/nats-io/nats.go"
)

// NATSTransport serves chat and coupon requests over NATS request/reply
type NATSTransport struct {
	conn    *nats.Conn
	config  *config.Config
	chat    *handlers.ChatHandler
	coupons *handlers.CouponHandler
	subs    []*nats.Subscription
}

// NewNATSTransport connects to NATS with reconnects enabled
func NewNATSTransport(cfg *config.Config, chat *handlers.ChatHandler, coupons *handlers.CouponHandler) (*NATSTransport, error) {
	conn, err := nats.Connect(cfg.NatsURL,
		nats.Name(cfg.ServiceName),
		nats.Timeout(cfg.NatsTimeout),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1), // Infinite reconnects
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	log.Printf("Connected to NATS server: %s", cfg.NatsURL)

	return NewNATSTransportWithConn(conn, cfg, chat, coupons), nil
}

// NewNATSTransportWithConn uses an established connection
func NewNATSTransportWithConn(conn *nats.Conn, cfg *config.Config, chat *handlers.ChatHandler, coupons *handlers.CouponHandler) *NATSTransport {
	return &NATSTransport{
		conn:    conn,
		config:  cfg,
		chat:    chat,
		coupons: coupons,
	}
}

func (nt *NATSTransport) Start() error {
	routes := map[string]nats.MsgHandler{
		nt.config.NatsChatSubject:      nt.handleChatRequest,
		nt.config.NatsRankSubject:      nt.rankHandler(nt.coupons.Rank),
		nt.config.NatsRecommendSubject: nt.rankHandler(nt.coupons.Recommend),
	}

	for subject, handler := range routes {
		sub, err := nt.conn.Subscribe(subject, handler)
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
		}
		nt.subs = append(nt.subs, sub)
		log.Printf("Subscribed to subject: %s", subject)
	}
	return nt.conn.Flush()
}

func (nt *NATSTransport) handleChatRequest(msg *nats.Msg) {
	var request models.ChatRequest
	if err := json.Unmarshal(msg.Data, &request); err != nil {
		log.Printf("Error parsing chat request: %v", err)
		code, text := models.ErrorParseError, "Invalid request format"
		nt.respond(msg, &models.ChatResponse{
			Reply:        prompts.FallbackMessage,
			ErrorCode:    &code,
			ErrorMessage: &text,
		})
		return
	}

	log.Printf("Processing chat request for session: %s", request.SessionID)

	ctx, cancel := context.WithTimeout(context.Background(), nt.config.NatsTimeout)
	defer cancel()

	response, err := nt.chat.ProcessChat(ctx, &request)
	if err != nil {
		log.Printf("Error processing chat: %v", err)
		code, text := models.ErrorInferenceFailed, err.Error()
		response = &models.ChatResponse{
			SessionID:    request.SessionID,
			Reply:        prompts.FallbackMessage,
			ErrorCode:    &code,
			ErrorMessage: &text,
		}
	}

	nt.respond(msg, response)
}

type rankFunc func(context.Context, *models.RankRequest) (*models.RankResponse, error)

func (nt *NATSTransport) rankHandler(fn rankFunc) nats.MsgHandler {
	return func(msg *nats.Msg) {
		var request models.RankRequest
		if err := json.Unmarshal(msg.Data, &request); err != nil {
			log.Printf("Error parsing rank request on %s: %v", msg.Subject, err)
			code, text := models.ErrorParseError, "Invalid request format"
			nt.respond(msg, &models.RankResponse{
				Coupons:         []models.RankedCoupon{},
				Recommendations: []models.AIRecommendation{},
				ErrorCode:       &code,
				ErrorMessage:    &text,
			})
			return
		}

		log.Printf("Processing %s request for domain: %s", msg.Subject, request.Domain)

		ctx, cancel := context.WithTimeout(context.Background(), nt.config.NatsTimeout)
		defer cancel()

		response, err := fn(ctx, &request)
		if err != nil {
			log.Printf("Error processing %s: %v", msg.Subject, err)
			return
		}
		nt.respond(msg, response)
	}
}

func (nt *NATSTransport) respond(msg *nats.Msg, response any) {
	data, err := json.Marshal(response)
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}
	if err := msg.Respond(data); err != nil {
		log.Printf("Failed to send response on %s: %v", msg.Subject, err)
		return
	}
	log.Printf("Response sent on %s", msg.Subject)
}

func (nt *NATSTransport) Close() error {
	for _, sub := range nt.subs {
		if err := sub.Unsubscribe(); err != nil {
			log.Printf("⚠️ Failed to unsubscribe %s: %v", sub.Subject, err)
		}
	}
	nt.subs = nil

	if nt.conn != nil {
		nt.conn.Close()
		log.Println("NATS connection closed")
	}
	return nil
}
