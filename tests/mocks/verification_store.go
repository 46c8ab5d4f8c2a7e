package mocks

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gitlab.com/nestpass/twofa-backend/internal/domain/twofa"
)

type VerificationStore struct {
	mu        sync.Mutex
	db        map[string]*twofa.Record
	saveErr   error
	getErr    error
	saveCalls int
	getCalls  int
}

func NewVerificationStore() *VerificationStore {
	return &VerificationStore{
		db: make(map[string]*twofa.Record),
	}
}

func (s *VerificationStore) FailSavesWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saveErr = err
}

func (s *VerificationStore) FailGetsWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.getErr = err
}

func (s *VerificationStore) Save(ctx context.Context, rec *twofa.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saveCalls++
	if s.saveErr != nil {
		return s.saveErr
	}
	if rec == nil {
		return errors.New("record cannot be nil")
	}

	s.db[rec.UserID()] = rec
	return nil
}

func (s *VerificationStore) Get(ctx context.Context, userID string) (*twofa.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.getCalls++
	if s.getErr != nil {
		return nil, s.getErr
	}

	rec, exists := s.db[userID]
	if !exists {
		return nil, twofa.ErrCodeNotFound
	}
	return rec, nil
}

func (s *VerificationStore) SeedRecord(t *testing.T, rec *twofa.Record) {
	t.Helper()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.db[rec.UserID()] = rec
}

func (s *VerificationStore) SaveCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saveCalls
}

func (s *VerificationStore) AssertSaveCalls(t *testing.T, expected int) *VerificationStore {
	t.Helper()

	if got := s.SaveCalls(); got != expected {
		t.Errorf("expected %d save calls, but got %d", expected, got)
	}

	return s
}

func (s *VerificationStore) AssertRecordNotExists(t *testing.T, userID string) *VerificationStore {
	t.Helper()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.db[userID]; exists {
		t.Errorf("expected no record for user %q, but one exists", userID)
	}

	return s
}

func (s *VerificationStore) AssertRecordExists(t *testing.T, userID string) *RecordAssertion {
	t.Helper()

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.db[userID]
	if !exists {
		t.Fatalf("expected record for user %q, but none exists", userID)
	}

	return &RecordAssertion{rec: rec}
}

type RecordAssertion struct {
	rec *twofa.Record
}

func (a *RecordAssertion) Record() *twofa.Record {
	return a.rec
}

func (a *RecordAssertion) AssertCodeNotEmpty(t *testing.T) *RecordAssertion {
	t.Helper()

	if a.rec.Code() == "" {
		t.Error("expected record code to not be empty")
	}

	return a
}

func (a *RecordAssertion) AssertCodeLength(t *testing.T, length int) *RecordAssertion {
	t.Helper()

	if len(a.rec.Code()) != length {
		t.Errorf("expected code length %d, but got %d", length, len(a.rec.Code()))
	}

	return a
}

func (a *RecordAssertion) AssertRetries(t *testing.T, retries int8) *RecordAssertion {
	t.Helper()

	if a.rec.Retries() != retries {
		t.Errorf("expected %d retries, but got %d", retries, a.rec.Retries())
	}

	return a
}

func (a *RecordAssertion) AssertUserStatus(t *testing.T, status string) *RecordAssertion {
	t.Helper()

	if a.rec.UserStatus() != status {
		t.Errorf("expected user status %q, but got %q", status, a.rec.UserStatus())
	}

	return a
}
