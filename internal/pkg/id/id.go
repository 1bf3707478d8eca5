package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string, used as the jti claim on issued
// verification tokens so individual tokens are traceable in logs.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
