package twofa

import (
	"gitlab.com/nestpass/twofa-backend/internal/domain/event"
)

const EventStreamName = "events_twofa"

// CodeIssued is recorded after a code is stored and dispatched.
// The code itself never rides on the event.
type CodeIssued struct {
	event.Header
	event.Otel
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	UserStatus string `json:"user_status,omitempty"`
}

func (e CodeIssued) GetStreamName() string {
	return EventStreamName
}
