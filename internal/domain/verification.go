package domain

// PendingCode is the one in-flight verification code for a phone number.
// PK: phone_number. At most one exists per phone; a new send overwrites it.
// ExpiresAt is a coarse storage TTL (Unix seconds, DynamoDB TTL attribute);
// the effective usability window is enforced by the verification service.
type PendingCode struct {
	PhoneNumber string `json:"phone_number" dynamodbav:"phone_number"`
	Code        string `json:"code" dynamodbav:"code"`
	SentAt      int64  `json:"sent_at" dynamodbav:"sent_at"`         // Unix seconds
	ExpiresAt   int64  `json:"expires_at" dynamodbav:"expires_at"`   // TTL (Unix seconds)
}
