package handler

import (
	"encoding/json"
	"net/http"
	"time"
)

// timeLayout is the wire format for timestamps, kept as the original API's
// clients expect it.
const timeLayout = "2006-01-02 15:04:05"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SendEnvelope wraps a successful code dispatch.
type SendEnvelope struct {
	Success           bool   `json:"success"`
	OriginalPhone     string `json:"original_phone"`
	ParsedPhone       string `json:"parsed_phone"`
	Message           string `json:"message,omitempty"`
	RemainingRequests int    `json:"remaining_requests"`
	SentAt            string `json:"sent_at"`
}

// VerifyEnvelope wraps a successful code verification.
type VerifyEnvelope struct {
	Success           bool   `json:"success"`
	VerificationToken string `json:"verification_token"`
	ExpiresAt         string `json:"expires_at"`
	ExpiresInSeconds  int    `json:"expires_in_seconds"`
}

// TokenEnvelope wraps a token validation result, success or failure.
type TokenEnvelope struct {
	Valid       bool   `json:"valid"`
	PhoneNumber string `json:"phone_number,omitempty"`
	ExpiresAt   string `json:"expires_at,omitempty"`
	Error       string `json:"error,omitempty"`
}

// ErrorEnvelope wraps error responses. RemainingRequests is a pointer so it
// only appears on 429 responses; Details only on dispatch failures.
type ErrorEnvelope struct {
	Error             string `json:"error"`
	Details           string `json:"details,omitempty"`
	RemainingRequests *int   `json:"remaining_requests,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorEnvelope{Error: msg})
}
