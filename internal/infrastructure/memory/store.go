// Package memory provides process-local implementations of the verification
// stores. They honor the same TTL and conditional-write contracts as the
// DynamoDB repos, which makes them a drop-in for single-instance development
// runs and for tests that should not touch AWS.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/phone-verify-api/internal/domain"
)

// PendingCodeStore keeps pending verification codes in a map with lazy TTL
// eviction. All operations take the store mutex, so the compare-and-delete in
// DeleteIf is atomic with respect to concurrent readers and writers.
type PendingCodeStore struct {
	mu    sync.Mutex
	items map[string]domain.PendingCode
	now   func() time.Time
}

func NewPendingCodeStore() *PendingCodeStore {
	return &PendingCodeStore{
		items: make(map[string]domain.PendingCode),
		now:   time.Now,
	}
}

func (s *PendingCodeStore) Put(_ context.Context, pc *domain.PendingCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[pc.PhoneNumber] = *pc
	return nil
}

func (s *PendingCodeStore) Get(_ context.Context, phoneNumber string) (*domain.PendingCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pc, ok := s.items[phoneNumber]
	if !ok || s.expired(pc.ExpiresAt) {
		delete(s.items, phoneNumber)
		return nil, fmt.Errorf("pending code not found: %w", domain.ErrNotFound)
	}
	out := pc
	return &out, nil
}

func (s *PendingCodeStore) DeleteIf(_ context.Context, phoneNumber, code string, sentAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pc, ok := s.items[phoneNumber]
	if !ok || s.expired(pc.ExpiresAt) || pc.Code != code || pc.SentAt != sentAt {
		return fmt.Errorf("pending code changed or gone: %w", domain.ErrConflict)
	}
	delete(s.items, phoneNumber)
	return nil
}

func (s *PendingCodeStore) expired(expiresAt int64) bool {
	return expiresAt <= s.now().Unix()
}

// QuotaStore keeps quota records in a map with lazy TTL eviction. PutIf
// compares the stored record against prev under the mutex, mirroring the
// conditional-put semantics of the DynamoDB repo.
type QuotaStore struct {
	mu    sync.Mutex
	items map[string]domain.QuotaRecord
	now   func() time.Time
}

func NewQuotaStore() *QuotaStore {
	return &QuotaStore{
		items: make(map[string]domain.QuotaRecord),
		now:   time.Now,
	}
}

func (s *QuotaStore) Get(_ context.Context, phoneNumber string) (*domain.QuotaRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.items[phoneNumber]
	if !ok || s.expired(q.ExpiresAt) {
		delete(s.items, phoneNumber)
		return nil, fmt.Errorf("quota record not found: %w", domain.ErrNotFound)
	}
	out := q
	return &out, nil
}

func (s *QuotaStore) PutIf(_ context.Context, next, prev *domain.QuotaRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.items[next.PhoneNumber]
	if ok && s.expired(cur.ExpiresAt) {
		delete(s.items, next.PhoneNumber)
		ok = false
	}
	if prev == nil {
		if ok {
			return fmt.Errorf("quota record already exists: %w", domain.ErrConflict)
		}
	} else {
		if !ok || cur.Count != prev.Count || cur.WindowStart != prev.WindowStart {
			return fmt.Errorf("quota record changed underneath: %w", domain.ErrConflict)
		}
	}
	s.items[next.PhoneNumber] = *next
	return nil
}

func (s *QuotaStore) expired(expiresAt int64) bool {
	return expiresAt <= s.now().Unix()
}
