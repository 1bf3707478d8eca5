package domain

import "time"

// QuotaRecord tracks send attempts for a phone number inside a rolling window.
// PK: phone_number. WindowStart anchors the window; ExpiresAt is the storage
// TTL so idle records age out of the table on their own.
type QuotaRecord struct {
	PhoneNumber string `json:"phone_number" dynamodbav:"phone_number"`
	Count       int    `json:"request_count" dynamodbav:"request_count"`
	WindowStart int64  `json:"window_start" dynamodbav:"window_start"` // Unix seconds
	ExpiresAt   int64  `json:"expires_at" dynamodbav:"expires_at"`     // TTL (Unix seconds)
}

// QuotaDecision is the outcome of reserving one send attempt.
// Next is the record to persist; it is nil when the attempt is rejected,
// so a rejected attempt never advances the window or the counter.
type QuotaDecision struct {
	Allowed   bool
	Remaining int
	Next      *QuotaRecord
}

// NextQuota applies one send attempt to the previous quota record.
// prev == nil means no record exists for the phone. A record whose window has
// elapsed is treated as absent, so stale records never block a send even if
// the storage TTL has not evicted them yet.
func NextQuota(prev *QuotaRecord, phoneNumber string, now time.Time, limit int, window, storeTTL time.Duration) QuotaDecision {
	if prev == nil || now.Sub(time.Unix(prev.WindowStart, 0)) > window {
		return QuotaDecision{
			Allowed:   true,
			Remaining: limit - 1,
			Next: &QuotaRecord{
				PhoneNumber: phoneNumber,
				Count:       1,
				WindowStart: now.Unix(),
				ExpiresAt:   now.Add(storeTTL).Unix(),
			},
		}
	}

	if prev.Count+1 > limit {
		return QuotaDecision{Allowed: false, Remaining: 0}
	}

	return QuotaDecision{
		Allowed:   true,
		Remaining: limit - (prev.Count + 1),
		Next: &QuotaRecord{
			PhoneNumber: phoneNumber,
			Count:       prev.Count + 1,
			WindowStart: prev.WindowStart,
			ExpiresAt:   now.Add(storeTTL).Unix(),
		},
	}
}
