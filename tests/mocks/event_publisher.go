package mocks

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"gitlab.com/nestpass/twofa-backend/internal/domain/event"
)

type EventPublisher struct {
	events     []event.Event
	eventsMu   sync.Mutex
	publishErr error
}

func NewEventPublisher() *EventPublisher {
	return &EventPublisher{
		events: []event.Event{},
	}
}

func (p *EventPublisher) FailWith(err error) {
	p.eventsMu.Lock()
	defer p.eventsMu.Unlock()

	p.publishErr = err
}

func (p *EventPublisher) Publish(ctx context.Context, e any) error {
	p.eventsMu.Lock()
	defer p.eventsMu.Unlock()

	if p.publishErr != nil {
		return p.publishErr
	}

	ev, ok := e.(event.Event)
	if !ok {
		return fmt.Errorf("published value %T is not an event", e)
	}

	p.events = append(p.events, ev)
	return nil
}

func (p *EventPublisher) Events() []event.Event {
	p.eventsMu.Lock()
	defer p.eventsMu.Unlock()

	eventsCopy := make([]event.Event, len(p.events))
	copy(eventsCopy, p.events)
	return eventsCopy
}

func (p *EventPublisher) AssertEventCount(t *testing.T, expectedCount int) *EventPublisher {
	t.Helper()

	p.eventsMu.Lock()
	defer p.eventsMu.Unlock()

	if len(p.events) != expectedCount {
		t.Errorf("expected %d events, but got %d", expectedCount, len(p.events))
	}

	return p
}

func RequireEventExists[T event.Event](t *testing.T, p *EventPublisher, e T) T {
	t.Helper()

	p.eventsMu.Lock()
	defer p.eventsMu.Unlock()

	tnil := *new(T)

	for _, ev := range p.events {
		if fmt.Sprintf("%T", ev) == fmt.Sprintf("%T", e) {
			header := ev.GetEventHeader()
			assert.NotEmpty(t, header, "event header should not be empty")
			return ev.(T)
		}
	}

	t.Fatalf("event %T not found in publisher", e)

	return tnil
}
