// Package verification implements the phone verification flow: sending a
// one-time code under a per-phone daily quota, checking a submitted code
// against the pending one, and issuing/validating the short-lived signed
// token that downstream flows consume.
package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phone-verify-api/internal/domain"
	"github.com/phone-verify-api/internal/pkg/otp"
	"github.com/phone-verify-api/internal/pkg/phone"
)

// PendingCodeStore holds the one in-flight code per phone number.
// DeleteIf must be atomic with respect to concurrent consumers: it removes
// the record only while it still holds exactly (code, sentAt), otherwise
// it returns domain.ErrConflict.
type PendingCodeStore interface {
	Put(ctx context.Context, pc *domain.PendingCode) error
	Get(ctx context.Context, phoneNumber string) (*domain.PendingCode, error)
	DeleteIf(ctx context.Context, phoneNumber, code string, sentAt int64) error
}

// QuotaStore persists per-phone send quota records. PutIf is a conditional
// put against the previously read record (nil prev asserts absence) and
// returns domain.ErrConflict on interleaving writers.
type QuotaStore interface {
	Get(ctx context.Context, phoneNumber string) (*domain.QuotaRecord, error)
	PutIf(ctx context.Context, next, prev *domain.QuotaRecord) error
}

// SMSSender dispatches the rendered verification message.
type SMSSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

// TokenCodec signs and validates verification tokens.
type TokenCodec interface {
	Issue(phoneNumber string) (token string, expiresAt time.Time, err error)
	Validate(token string) (phoneNumber string, expiresAt time.Time, err error)
}

// SendResult reports a successful code dispatch.
type SendResult struct {
	OriginalPhone string
	ParsedPhone   string
	Remaining     int
	SentAt        time.Time
}

// VerifyResult carries the verification token issued on a correct submission.
type VerifyResult struct {
	Token     string
	ExpiresAt time.Time
	ExpiresIn int // seconds
}

// TokenInfo is the outcome of validating a verification token.
type TokenInfo struct {
	PhoneNumber string
	ExpiresAt   time.Time
}

type Service interface {
	Send(ctx context.Context, rawPhone string) (*SendResult, error)
	Verify(ctx context.Context, rawPhone, candidate string) (*VerifyResult, error)
	ValidateToken(token string) (*TokenInfo, error)
}

// ServiceDeps wires the verification service. Zero durations and limits fall
// back to the production defaults.
type ServiceDeps struct {
	PendingCodes PendingCodeStore
	Quotas       QuotaStore
	SMS          SMSSender
	Tokens       TokenCodec

	ServiceName     string
	DailyLimit      int
	CodeTTL         time.Duration
	TokenTTL        time.Duration
	QuotaWindow     time.Duration
	StoreTTL        time.Duration
	DispatchTimeout time.Duration
}

type service struct {
	pending PendingCodeStore
	quotas  QuotaStore
	sms     SMSSender
	tokens  TokenCodec

	serviceName     string
	dailyLimit      int
	codeTTL         time.Duration
	tokenTTL        time.Duration
	quotaWindow     time.Duration
	storeTTL        time.Duration
	dispatchTimeout time.Duration

	now func() time.Time
}

func NewService(d ServiceDeps) Service {
	s := &service{
		pending:         d.PendingCodes,
		quotas:          d.Quotas,
		sms:             d.SMS,
		tokens:          d.Tokens,
		serviceName:     d.ServiceName,
		dailyLimit:      d.DailyLimit,
		codeTTL:         d.CodeTTL,
		tokenTTL:        d.TokenTTL,
		quotaWindow:     d.QuotaWindow,
		storeTTL:        d.StoreTTL,
		dispatchTimeout: d.DispatchTimeout,
		now:             time.Now,
	}
	if s.serviceName == "" {
		s.serviceName = "Dasii"
	}
	if s.dailyLimit == 0 {
		s.dailyLimit = 10
	}
	if s.codeTTL == 0 {
		s.codeTTL = 3 * time.Minute
	}
	if s.tokenTTL == 0 {
		s.tokenTTL = 5 * time.Minute
	}
	if s.quotaWindow == 0 {
		s.quotaWindow = 24 * time.Hour
	}
	if s.storeTTL == 0 {
		s.storeTTL = 24 * time.Hour
	}
	if s.dispatchTimeout == 0 {
		s.dispatchTimeout = 5 * time.Second
	}
	return s
}

// maxReserveAttempts bounds the optimistic-concurrency retry loop when
// reserving a quota slot. Contention on a single phone number is rare.
const maxReserveAttempts = 3

// Send normalizes the phone, reserves a quota slot, dispatches a fresh code
// over SMS and records it as the phone's pending code. A dispatch failure
// aborts before anything is recorded, so no code the client never received
// can be redeemed. The reserved quota slot is not rolled back in that case.
func (s *service) Send(ctx context.Context, rawPhone string) (*SendResult, error) {
	parsed, err := phone.Normalize(rawPhone)
	if err != nil {
		return nil, err
	}

	remaining, err := s.reserveQuota(ctx, parsed)
	if err != nil {
		return nil, err
	}

	code, err := otp.NewCode()
	if err != nil {
		return nil, err
	}

	message := fmt.Sprintf("[%s] Your verification code is %s. Enter it within %d minutes.",
		s.serviceName, code, int(s.codeTTL.Minutes()))

	dispatchCtx, cancel := context.WithTimeout(ctx, s.dispatchTimeout)
	defer cancel()
	if err := s.sms.SendSMS(dispatchCtx, parsed, message); err != nil {
		return nil, fmt.Errorf("provider: %v: %w", err, domain.ErrDispatchFailure)
	}

	sentAt := s.now()
	pc := &domain.PendingCode{
		PhoneNumber: parsed,
		Code:        code,
		SentAt:      sentAt.Unix(),
		ExpiresAt:   sentAt.Add(s.storeTTL).Unix(),
	}
	if err := s.pending.Put(ctx, pc); err != nil {
		return nil, err
	}

	slog.Info("verification code sent", "phone", parsed, "remaining", remaining)
	return &SendResult{
		OriginalPhone: rawPhone,
		ParsedPhone:   parsed,
		Remaining:     remaining,
		SentAt:        sentAt,
	}, nil
}

// reserveQuota runs the read-decide-conditional-write cycle for one send
// attempt. The conditional PutIf keeps the cycle atomic per phone; on
// interleaving it re-reads and retries a bounded number of times.
func (s *service) reserveQuota(ctx context.Context, phoneNumber string) (int, error) {
	for attempt := 0; attempt < maxReserveAttempts; attempt++ {
		prev, err := s.quotas.Get(ctx, phoneNumber)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return 0, err
		}
		if errors.Is(err, domain.ErrNotFound) {
			prev = nil
		}

		dec := domain.NextQuota(prev, phoneNumber, s.now(), s.dailyLimit, s.quotaWindow, s.storeTTL)
		if !dec.Allowed {
			return 0, fmt.Errorf("maximum %d requests per day, try again tomorrow: %w",
				s.dailyLimit, domain.ErrRateLimitExceeded)
		}

		err = s.quotas.PutIf(ctx, dec.Next, prev)
		if errors.Is(err, domain.ErrConflict) {
			continue
		}
		if err != nil {
			return 0, err
		}
		return dec.Remaining, nil
	}
	return 0, fmt.Errorf("quota reservation kept conflicting: %w", domain.ErrConflict)
}

// Verify checks candidate against the phone's pending code. A correct
// in-window submission consumes the code (conditional delete, so concurrent
// duplicates cannot both succeed) and yields a signed verification token.
// A wrong code leaves the pending code in place for further attempts.
func (s *service) Verify(ctx context.Context, rawPhone, candidate string) (*VerifyResult, error) {
	parsed, err := phone.Normalize(rawPhone)
	if err != nil {
		return nil, err
	}

	pc, err := s.pending.Get(ctx, parsed)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("send a verification code first: %w", domain.ErrNoPendingCode)
		}
		return nil, err
	}

	if s.now().Sub(time.Unix(pc.SentAt, 0)) > s.codeTTL {
		if err := s.pending.DeleteIf(ctx, parsed, pc.Code, pc.SentAt); err != nil && !errors.Is(err, domain.ErrConflict) {
			slog.Warn("failed to clear expired pending code", "phone", parsed, "err", err)
		}
		return nil, fmt.Errorf("code is older than %d seconds: %w",
			int(s.codeTTL.Seconds()), domain.ErrCodeExpired)
	}

	if candidate != pc.Code {
		return nil, fmt.Errorf("submitted code does not match: %w", domain.ErrCodeMismatch)
	}

	if err := s.pending.DeleteIf(ctx, parsed, pc.Code, pc.SentAt); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// A concurrent submission or a newer send got here first.
			return nil, fmt.Errorf("code already consumed or replaced: %w", domain.ErrNoPendingCode)
		}
		return nil, err
	}

	token, expiresAt, err := s.tokens.Issue(parsed)
	if err != nil {
		return nil, err
	}

	slog.Info("phone verified", "phone", parsed)
	return &VerifyResult{
		Token:     token,
		ExpiresAt: expiresAt,
		ExpiresIn: int(s.tokenTTL.Seconds()),
	}, nil
}

// ValidateToken judges a verification token: signature, expiry and purpose.
func (s *service) ValidateToken(token string) (*TokenInfo, error) {
	phoneNumber, expiresAt, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	return &TokenInfo{PhoneNumber: phoneNumber, ExpiresAt: expiresAt}, nil
}
