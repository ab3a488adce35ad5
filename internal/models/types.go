package models

// Chat request from the extension
type ChatRequest struct {
	SessionID string        `json:"session_id"`
	Domain    string        `json:"domain"`
	Message   string        `json:"message"`
	History   []ChatMessage `json:"history,omitempty"` // if empty, loaded from the session store
	CartTotal *float64      `json:"cart_total,omitempty"`
}

// Chat response to the extension
type ChatResponse struct {
	SessionID    string      `json:"session_id"`
	Intent       string      `json:"intent,omitempty"`
	IntentSource string      `json:"intent_source,omitempty"`
	Reply        string      `json:"reply"`
	Message      ChatMessage `json:"message"`
	HistorySize  int         `json:"history_size"`
	ErrorCode    *string     `json:"error_code,omitempty"`
	ErrorMessage *string     `json:"error_message,omitempty"`
}

// Rank request; coupons are fetched from the configured source when omitted
type RankRequest struct {
	Domain    string   `json:"domain"`
	Coupons   []Coupon `json:"coupons,omitempty"`
	CartTotal *float64 `json:"cart_total,omitempty"`
}

// RankResponse carries ranked coupons and recommendations for a domain
type RankResponse struct {
	Domain          string             `json:"domain"`
	Coupons         []RankedCoupon     `json:"coupons"`
	Recommendations []AIRecommendation `json:"recommendations"`
	ErrorCode       *string            `json:"error_code,omitempty"`
	ErrorMessage    *string            `json:"error_message,omitempty"`
}

// Session snapshot for the history endpoint
type SessionView struct {
	SessionID  string        `json:"session_id"`
	Messages   []ChatMessage `json:"messages"`
	Transcript string        `json:"transcript"`
}

// Error codes
const (
	ErrorParseError       = "PARSE_ERROR"
	ErrorSourceFailed     = "SOURCE_FAILED"
	ErrorStoreFailed      = "STORE_FAILED"
	ErrorInferenceTimeout = "INFERENCE_TIMEOUT"
	ErrorInferenceFailed  = "INFERENCE_FAILED"
)
