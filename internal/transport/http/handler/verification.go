package handler

import (
	"encoding/json"
	"net/http"

	"github.com/phone-verify-api/internal/application/verification"
	"github.com/phone-verify-api/internal/pkg/validate"
)

// VerificationHandler handles the phone verification endpoints.
type VerificationHandler struct {
	svc verification.Service
}

func NewVerificationHandler(svc verification.Service) *VerificationHandler {
	return &VerificationHandler{svc: svc}
}

type SendRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
}

type CheckRequest struct {
	PhoneNumber      string `json:"phone_number" validate:"required"`
	VerificationCode string `json:"verification_code" validate:"required"`
}

type TokenRequest struct {
	VerificationToken string `json:"verification_token" validate:"required"`
}

// Send dispatches a verification code to the given phone number.
func (h *VerificationHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.svc.Send(r.Context(), req.PhoneNumber)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SendEnvelope{
		Success:           true,
		OriginalPhone:     res.OriginalPhone,
		ParsedPhone:       res.ParsedPhone,
		Message:           "verification code sent",
		RemainingRequests: res.Remaining,
		SentAt:            formatTime(res.SentAt),
	})
}

// Check verifies a submitted code and returns the verification token.
func (h *VerificationHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.svc.Verify(r.Context(), req.PhoneNumber, req.VerificationCode)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, VerifyEnvelope{
		Success:           true,
		VerificationToken: res.Token,
		ExpiresAt:         formatTime(res.ExpiresAt),
		ExpiresInSeconds:  res.ExpiresIn,
	})
}

// ValidateToken judges a verification token for downstream flows. Failures
// keep the {valid:false, error} shape regardless of the reason.
func (h *VerificationHandler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, TokenEnvelope{Valid: false, Error: "invalid request body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, TokenEnvelope{Valid: false, Error: err.Error()})
		return
	}

	info, err := h.svc.ValidateToken(req.VerificationToken)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, TokenEnvelope{Valid: false, Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, TokenEnvelope{
		Valid:       true,
		PhoneNumber: info.PhoneNumber,
		ExpiresAt:   formatTime(info.ExpiresAt),
	})
}
