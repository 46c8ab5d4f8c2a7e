package sendgrid

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/nestpass/twofa-backend/internal/domain/valueobject/mails"
	"gitlab.com/nestpass/twofa-backend/pkg/errorx"
	"gitlab.com/nestpass/twofa-backend/pkg/logging"
	"gitlab.com/nestpass/twofa-backend/pkg/otelx"
)

var (
	tracer = otel.Tracer("twofa/adapters/services/sendgrid")
	logger = otelslog.NewLogger("twofa/adapters/services/sendgrid")
)

type Client struct {
	tracer trace.Tracer
	logger *slog.Logger
	client *sendgrid.Client
	sender *mail.Email
}

func NewClient(apiKey, sender string) *Client {
	return &Client{
		tracer: tracer,
		logger: logger,
		client: sendgrid.NewSendClient(apiKey),
		sender: mail.NewEmail("", sender),
	}
}

func (c *Client) SendMail(ctx context.Context, payload mails.Payload) error {
	const op = "sendgrid.Client.SendMail"
	ctx, span := c.tracer.Start(ctx, "Client.SendMail")
	defer span.End()

	to := mail.NewEmail("", payload.To)
	message := mail.NewSingleEmail(c.sender, payload.Subject, to, payload.Body, payload.HTMLBody)

	resp, err := c.client.SendWithContext(ctx, message)
	if err != nil {
		otelx.RecordSpanError(span, err, "failed to send email")
		c.logger.ErrorContext(ctx, "failed to send email",
			slog.String("to", logging.RedactEmail(payload.To)),
			slog.Any("error", err),
		)
		return errorx.Wrap(err, op)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		err := fmt.Errorf("sendgrid responded with status %d", resp.StatusCode)
		otelx.RecordSpanError(span, err, "email provider rejected message")
		c.logger.ErrorContext(ctx, "email provider rejected message",
			slog.String("to", logging.RedactEmail(payload.To)),
			slog.Int("status_code", resp.StatusCode),
		)
		return errorx.Wrap(errorx.NewUpstreamServiceError().WithCause(err), op)
	}

	return nil
}
