package mocks

import (
	"context"
	"strings"
	"sync"
	"testing"

	"gitlab.com/nestpass/twofa-backend/internal/domain/valueobject/mails"
)

type MockMailSender struct {
	mu        sync.Mutex
	sentMails []mails.Payload
	sendErr   error
}

func NewMockMailSender() *MockMailSender {
	return &MockMailSender{
		sentMails: make([]mails.Payload, 0),
	}
}

func (m *MockMailSender) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sendErr = err
}

func (m *MockMailSender) SendMail(ctx context.Context, payload mails.Payload) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sendErr != nil {
		return m.sendErr
	}

	m.sentMails = append(m.sentMails, payload)
	return nil
}

func (m *MockMailSender) GetSentMails() []mails.Payload {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]mails.Payload{}, m.sentMails...)
}

func (m *MockMailSender) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sentMails = make([]mails.Payload, 0)
}

func (m *MockMailSender) AssertMailSent(t *testing.T, email, subject string) {
	t.Helper()

	for _, sent := range m.GetSentMails() {
		if sent.To == email && strings.Contains(sent.Subject, subject) {
			return
		}
	}
	t.Errorf("expected mail to %s with subject containing %q not found", email, subject)
}

func (m *MockMailSender) AssertNothingSent(t *testing.T) {
	t.Helper()

	if sent := m.GetSentMails(); len(sent) != 0 {
		t.Errorf("expected no mails sent, but got %d", len(sent))
	}
}
