package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phone-verify-api/internal/application/verification"
	"github.com/phone-verify-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockVerificationSvc struct{ mock.Mock }

func (m *mockVerificationSvc) Send(ctx context.Context, rawPhone string) (*verification.SendResult, error) {
	args := m.Called(ctx, rawPhone)
	if r, _ := args.Get(0).(*verification.SendResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockVerificationSvc) Verify(ctx context.Context, rawPhone, candidate string) (*verification.VerifyResult, error) {
	args := m.Called(ctx, rawPhone, candidate)
	if r, _ := args.Get(0).(*verification.VerifyResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockVerificationSvc) ValidateToken(token string) (*verification.TokenInfo, error) {
	args := m.Called(token)
	if r, _ := args.Get(0).(*verification.TokenInfo); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

// --- helpers ---

func postJSON(t *testing.T, h http.HandlerFunc, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(b))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// --- Send ---

func TestSend_OK(t *testing.T) {
	svc := &mockVerificationSvc{}
	sentAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.On("Send", mock.Anything, "01012345678").Return(&verification.SendResult{
		OriginalPhone: "01012345678",
		ParsedPhone:   "010-1234-5678",
		Remaining:     9,
		SentAt:        sentAt,
	}, nil)
	h := NewVerificationHandler(svc)

	rec := postJSON(t, h.Send, "/verify/send", SendRequest{PhoneNumber: "01012345678"})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "01012345678", body["original_phone"])
	assert.Equal(t, "010-1234-5678", body["parsed_phone"])
	assert.EqualValues(t, 9, body["remaining_requests"])
	assert.Equal(t, "2025-06-01 12:00:00", body["sent_at"])
}

func TestSend_MissingPhone(t *testing.T) {
	h := NewVerificationHandler(&mockVerificationSvc{})
	rec := postJSON(t, h.Send, "/verify/send", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, decodeBody(t, rec)["error"])
}

func TestSend_MalformedBody(t *testing.T) {
	h := NewVerificationHandler(&mockVerificationSvc{})
	req := httptest.NewRequest(http.MethodPost, "/verify/send", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.Send(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSend_InvalidPhoneFormat(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("Send", mock.Anything, "123").
		Return(nil, fmt.Errorf("unrecognized prefix: %w", domain.ErrInvalidPhoneFormat))
	h := NewVerificationHandler(svc)

	rec := postJSON(t, h.Send, "/verify/send", SendRequest{PhoneNumber: "123"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSend_RateLimited(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("Send", mock.Anything, "01012345678").
		Return(nil, fmt.Errorf("maximum 10 requests per day: %w", domain.ErrRateLimitExceeded))
	h := NewVerificationHandler(svc)

	rec := postJSON(t, h.Send, "/verify/send", SendRequest{PhoneNumber: "01012345678"})

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	body := decodeBody(t, rec)
	assert.EqualValues(t, 0, body["remaining_requests"])
	assert.NotEmpty(t, body["error"])
}

func TestSend_DispatchFailure(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("Send", mock.Anything, "01012345678").
		Return(nil, fmt.Errorf("provider: timeout: %w", domain.ErrDispatchFailure))
	h := NewVerificationHandler(svc)

	rec := postJSON(t, h.Send, "/verify/send", SendRequest{PhoneNumber: "01012345678"})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["error"])
	assert.Contains(t, body["details"], "timeout")
}

// --- Check ---

func TestCheck_OK(t *testing.T) {
	svc := &mockVerificationSvc{}
	expiresAt := time.Date(2025, 6, 1, 12, 5, 0, 0, time.UTC)
	svc.On("Verify", mock.Anything, "010-1234-5678", "123456").Return(&verification.VerifyResult{
		Token:     "signed.jwt.token",
		ExpiresAt: expiresAt,
		ExpiresIn: 300,
	}, nil)
	h := NewVerificationHandler(svc)

	rec := postJSON(t, h.Check, "/verify/check", CheckRequest{
		PhoneNumber:      "010-1234-5678",
		VerificationCode: "123456",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "signed.jwt.token", body["verification_token"])
	assert.Equal(t, "2025-06-01 12:05:00", body["expires_at"])
	assert.EqualValues(t, 300, body["expires_in_seconds"])
}

func TestCheck_MissingFields(t *testing.T) {
	h := NewVerificationHandler(&mockVerificationSvc{})
	rec := postJSON(t, h.Check, "/verify/check", map[string]string{"phone_number": "010-1234-5678"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheck_VerificationFailures(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"no pending code", domain.ErrNoPendingCode},
		{"expired", domain.ErrCodeExpired},
		{"mismatch", domain.ErrCodeMismatch},
		{"invalid phone", domain.ErrInvalidPhoneFormat},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockVerificationSvc{}
			svc.On("Verify", mock.Anything, mock.Anything, mock.Anything).
				Return(nil, fmt.Errorf("check: %w", tc.err))
			h := NewVerificationHandler(svc)

			rec := postJSON(t, h.Check, "/verify/check", CheckRequest{
				PhoneNumber:      "010-1234-5678",
				VerificationCode: "000000",
			})

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decodeBody(t, rec)["error"])
		})
	}
}

// --- ValidateToken ---

func TestValidateToken_OK(t *testing.T) {
	svc := &mockVerificationSvc{}
	expiresAt := time.Date(2025, 6, 1, 12, 5, 0, 0, time.UTC)
	svc.On("ValidateToken", "signed.jwt.token").Return(&verification.TokenInfo{
		PhoneNumber: "010-1234-5678",
		ExpiresAt:   expiresAt,
	}, nil)
	h := NewVerificationHandler(svc)

	rec := postJSON(t, h.ValidateToken, "/verify/token", TokenRequest{VerificationToken: "signed.jwt.token"})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["valid"])
	assert.Equal(t, "010-1234-5678", body["phone_number"])
	assert.Equal(t, "2025-06-01 12:05:00", body["expires_at"])
}

func TestValidateToken_Failures(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"expired", domain.ErrTokenExpired},
		{"wrong purpose", domain.ErrInvalidPurpose},
		{"invalid", domain.ErrInvalidToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockVerificationSvc{}
			svc.On("ValidateToken", mock.Anything).Return(nil, fmt.Errorf("validate: %w", tc.err))
			h := NewVerificationHandler(svc)

			rec := postJSON(t, h.ValidateToken, "/verify/token", TokenRequest{VerificationToken: "whatever"})

			require.Equal(t, http.StatusBadRequest, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, false, body["valid"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestValidateToken_MissingToken(t *testing.T) {
	h := NewVerificationHandler(&mockVerificationSvc{})
	rec := postJSON(t, h.ValidateToken, "/verify/token", map[string]string{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["valid"])
}
