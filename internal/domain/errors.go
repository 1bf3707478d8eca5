package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	// Store-level sentinels.
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	// Send pipeline.
	ErrInvalidPhoneFormat = errors.New("invalid phone number format")
	ErrRateLimitExceeded  = errors.New("daily request limit exceeded")
	ErrDispatchFailure    = errors.New("sms dispatch failed")

	// Code verification.
	ErrNoPendingCode = errors.New("no pending verification code")
	ErrCodeExpired   = errors.New("verification code expired")
	ErrCodeMismatch  = errors.New("verification code mismatch")

	// Verification token.
	ErrTokenExpired   = errors.New("verification token expired")
	ErrInvalidPurpose = errors.New("invalid token purpose")
	ErrInvalidToken   = errors.New("invalid verification token")
)
