package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/avvvet/couponbuddy-assistant/internal/api/middleware"
	"github.com/avvvet/couponbuddy-assistant/internal/handlers"
	"github.com/avvvet/couponbuddy-assistant/internal/models"
)

type server struct {
	chat    *handlers.ChatHandler
	coupons *handlers.CouponHandler
}

// NewRouter builds the HTTP router for the assistant service
func NewRouter(chat *handlers.ChatHandler, coupons *handlers.CouponHandler) http.Handler {
	s := &server{chat: chat, coupons: coupons}

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Route("/chat", func(r chi.Router) {
		r.Post("/", s.postChat)
		r.Get("/sessions/{sessionID}", s.getSession)
		r.Delete("/sessions/{sessionID}", s.deleteSession)
	})

	r.Route("/coupons", func(r chi.Router) {
		r.Get("/", s.listCoupons)
		r.Post("/rank", s.rankCoupons)
		r.Post("/recommendations", s.recommendCoupons)
	})

	r.Get("/health", s.health)

	return r
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.chat.Health(r.Context()); err != nil {
		log.Printf("⚠️ Health check failed: %v", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *server) postChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, models.ErrorParseError, "invalid JSON body")
		return
	}

	resp, err := s.chat.ProcessChat(r.Context(), &req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, models.ErrorInferenceFailed, err.Error())
		return
	}
	writeJSON(w, statusFor(resp.ErrorCode), resp)
}

func (s *server) getSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.chat.Session(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, models.ErrorStoreFailed, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.chat.ClearSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		writeError(w, http.StatusInternalServerError, models.ErrorStoreFailed, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) listCoupons(w http.ResponseWriter, r *http.Request) {
	domain := r.URL.Query().Get("domain")
	if domain == "" {
		writeError(w, http.StatusBadRequest, models.ErrorParseError, "domain is required")
		return
	}

	var cartTotal *float64
	if raw := r.URL.Query().Get("cart_total"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, models.ErrorParseError, "cart_total must be a number")
			return
		}
		cartTotal = &v
	}

	list, err := s.coupons.List(r.Context(), domain, cartTotal)
	if err != nil {
		writeError(w, http.StatusBadGateway, models.ErrorSourceFailed, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *server) rankCoupons(w http.ResponseWriter, r *http.Request) {
	s.rank(w, r, s.coupons.Rank)
}

func (s *server) recommendCoupons(w http.ResponseWriter, r *http.Request) {
	s.rank(w, r, s.coupons.Recommend)
}

func (s *server) rank(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, req *models.RankRequest) (*models.RankResponse, error)) {
	var req models.RankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, models.ErrorParseError, "invalid JSON body")
		return
	}

	resp, err := fn(r.Context(), &req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, models.ErrorSourceFailed, err.Error())
		return
	}
	writeJSON(w, statusFor(resp.ErrorCode), resp)
}

// statusFor maps a handler error code to an HTTP status
func statusFor(code *string) int {
	if code == nil {
		return http.StatusOK
	}
	switch *code {
	case models.ErrorParseError:
		return http.StatusBadRequest
	case models.ErrorSourceFailed, models.ErrorInferenceFailed:
		return http.StatusBadGateway
	case models.ErrorInferenceTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

type errorBody struct {
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{ErrorCode: code, ErrorMessage: message})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
