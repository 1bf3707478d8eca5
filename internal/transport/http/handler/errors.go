package handler

import (
	"errors"
	"net/http"

	"github.com/phone-verify-api/internal/domain"
)

// httpError maps domain sentinel errors to HTTP responses per the API
// contract: validation and verification failures are 4xx with a user-facing
// message, quota exhaustion is 429 with remaining_requests pinned to zero,
// and dispatch failures are 500 with provider detail for diagnostics.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrRateLimitExceeded):
		zero := 0
		writeJSON(w, http.StatusTooManyRequests, ErrorEnvelope{
			Error:             err.Error(),
			RemainingRequests: &zero,
		})
	case errors.Is(err, domain.ErrDispatchFailure):
		writeJSON(w, http.StatusInternalServerError, ErrorEnvelope{
			Error:   "failed to send verification SMS",
			Details: err.Error(),
		})
	case errors.Is(err, domain.ErrInvalidPhoneFormat),
		errors.Is(err, domain.ErrNoPendingCode),
		errors.Is(err, domain.ErrCodeExpired),
		errors.Is(err, domain.ErrCodeMismatch):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
