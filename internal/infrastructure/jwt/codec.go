package jwtinfra

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phone-verify-api/internal/config"
	"github.com/phone-verify-api/internal/domain"
	"github.com/phone-verify-api/internal/pkg/id"
)

// Purpose is the claim restricting verification tokens to the phone
// verification flow; tokens minted for other flows never validate here.
const Purpose = "phone_verification"

// Claims holds the verification token payload fields.
type Claims struct {
	PhoneNumber string `json:"phone_number"`
	Purpose     string `json:"purpose"`
	jwt.RegisteredClaims
}

// Codec signs and verifies HS256 verification tokens. It is stateless: a
// token's whole lifecycle is its signature and exp claim, nothing is stored.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCodec(cfg *config.Config) (*Codec, error) {
	if cfg.TokenSecret == "" {
		return nil, errors.New("verification token secret is not configured")
	}
	return &Codec{
		secret: []byte(cfg.TokenSecret),
		ttl:    cfg.TokenTTL,
		now:    time.Now,
	}, nil
}

// Issue signs a token attesting that phoneNumber was verified now.
func (c *Codec) Issue(phoneNumber string) (string, time.Time, error) {
	now := c.now().UTC()
	expiresAt := now.Add(c.ttl)
	claims := Claims{
		PhoneNumber: phoneNumber,
		Purpose:     Purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id.New(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign verification token: %w", err)
	}
	return token, expiresAt, nil
}

// Validate checks signature, expiry and purpose, returning the attested
// phone number and the token's expiry.
func (c *Codec) Validate(tokenStr string) (string, time.Time, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return c.secret, nil
		},
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", time.Time{}, fmt.Errorf("token has expired: %w", domain.ErrTokenExpired)
		}
		return "", time.Time{}, fmt.Errorf("parse token: %w", domain.ErrInvalidToken)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", time.Time{}, fmt.Errorf("invalid token claims: %w", domain.ErrInvalidToken)
	}
	if claims.Purpose != Purpose {
		return "", time.Time{}, fmt.Errorf("token purpose %q: %w", claims.Purpose, domain.ErrInvalidPurpose)
	}
	if claims.ExpiresAt == nil {
		return "", time.Time{}, fmt.Errorf("token has no expiry: %w", domain.ErrInvalidToken)
	}
	return claims.PhoneNumber, claims.ExpiresAt.Time, nil
}
