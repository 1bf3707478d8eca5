// Package phone canonicalizes Korean phone numbers into the dashed form used
// as the key for all verification state. Normalization is deterministic and
// idempotent: any input that strips to the same digits yields the same key.
package phone

import (
	"fmt"
	"strings"

	"github.com/phone-verify-api/internal/domain"
)

// Normalize strips everything but digits from raw and formats the result
// according to the prefix rules:
//
//	01x mobile   — exactly 11 digits → 010-1234-5678
//	02  Seoul    — 9 or 10 digits   → 02-123-4567 / 02-1234-5678
//	0xx regional — 10 or 11 digits  → 031-123-4567 / 031-1234-5678
//
// Anything else fails with domain.ErrInvalidPhoneFormat.
func Normalize(raw string) (string, error) {
	digits := stripNonDigits(raw)

	switch {
	case strings.HasPrefix(digits, "01"):
		if len(digits) != 11 {
			return "", fmt.Errorf("mobile number must have 11 digits, got %d: %w", len(digits), domain.ErrInvalidPhoneFormat)
		}
		return digits[:3] + "-" + digits[3:7] + "-" + digits[7:], nil

	case strings.HasPrefix(digits, "02"):
		if len(digits) != 9 && len(digits) != 10 {
			return "", fmt.Errorf("seoul number must have 9 or 10 digits, got %d: %w", len(digits), domain.ErrInvalidPhoneFormat)
		}
		return digits[:2] + "-" + digits[2:len(digits)-4] + "-" + digits[len(digits)-4:], nil

	case len(digits) >= 3 && digits[0] == '0':
		if len(digits) != 10 && len(digits) != 11 {
			return "", fmt.Errorf("regional number must have 10 or 11 digits, got %d: %w", len(digits), domain.ErrInvalidPhoneFormat)
		}
		return digits[:3] + "-" + digits[3:len(digits)-4] + "-" + digits[len(digits)-4:], nil
	}

	return "", fmt.Errorf("unrecognized prefix: %w", domain.ErrInvalidPhoneFormat)
}

func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
