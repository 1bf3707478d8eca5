package http

import (
	"github.com/phone-verify-api/internal/application/verification"
)

// Deps holds all infrastructure dependencies for the router. The store and
// sender interfaces are the ones the verification service consumes, so any
// implementation (DynamoDB, in-memory, SNS, simulator) can be plugged in.
type Deps struct {
	PendingCodes verification.PendingCodeStore
	Quotas       verification.QuotaStore
	SMSSender    verification.SMSSender
	TokenCodec   verification.TokenCodec
}
