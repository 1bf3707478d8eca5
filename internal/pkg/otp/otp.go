// Package otp generates the numeric one-time codes sent over SMS.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// CodeLength is the number of decimal digits in a verification code.
const CodeLength = 6

var codeSpace = big.NewInt(1_000_000)

// NewCode returns a uniformly random 6-digit decimal string, zero-padded
// ("004821" is valid).
func NewCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpace)
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
