package watermill

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"

	twofaapp "gitlab.com/nestpass/twofa-backend/internal/application/twofa"
	"gitlab.com/nestpass/twofa-backend/pkg/watermillx"
)

type Port struct {
	eventProcessor *cqrs.EventProcessor
}

type AppEventHandlers struct {
	TwoFA twofaapp.Event
}

func NewPort(router *message.Router, pubsub message.Subscriber, wmlogger watermill.LoggerAdapter) (*Port, error) {
	eventProcessor, err := watermillx.NewEventProcessor(router, pubsub, wmlogger)
	if err != nil {
		return nil, err
	}

	return &Port{
		eventProcessor: eventProcessor,
	}, nil
}

func (p *Port) Run(handlers AppEventHandlers) error {
	err := p.eventProcessor.AddHandlers(
		cqrs.NewEventHandler("AuditOnCodeIssued", handlers.TwoFA.CodeIssued.Handle),
	)
	if err != nil {
		return fmt.Errorf("failed to add event handlers: %w", err)
	}

	return nil
}
