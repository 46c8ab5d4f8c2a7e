package event

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/nestpass/twofa-backend/internal/domain/twofa"
	"gitlab.com/nestpass/twofa-backend/pkg/logging"
	"gitlab.com/nestpass/twofa-backend/pkg/otelx"
)

var (
	tracer = otel.Tracer("twofa/application/twofa/event")
	logger = otelslog.NewLogger("twofa/application/twofa/event")
)

var codeIssuedObservedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "twofa_code_issued_events_total",
	Help: "CodeIssued events observed on the audit stream",
})

// CodeIssuedHandler writes the audit trail for issued codes.
type CodeIssuedHandler struct {
	tracer trace.Tracer
	logger *slog.Logger
}

type CodeIssuedHandlerArgs struct {
	Tracer trace.Tracer
	Logger *slog.Logger
}

func NewCodeIssuedHandler(args CodeIssuedHandlerArgs) *CodeIssuedHandler {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	return &CodeIssuedHandler{
		tracer: args.Tracer,
		logger: args.Logger,
	}
}

func (h *CodeIssuedHandler) Handle(ctx context.Context, e *twofa.CodeIssued) error {
	if e == nil {
		return nil
	}

	ctx, span := h.tracer.Start(
		ctx,
		"CodeIssuedHandler.Handle",
		trace.WithNewRoot(),
		trace.WithLinks(trace.LinkFromContext(otelx.ContextFromExtractor(e))),
		trace.WithAttributes(
			attribute.String("event.user.id", e.UserID),
			attribute.String("event.user.email", logging.RedactEmail(e.Email)),
		),
	)
	defer span.End()

	codeIssuedObservedTotal.Inc()
	h.logger.InfoContext(ctx, "verification code issued",
		slog.String("event", "CodeIssued"),
		slog.String("user.id", e.UserID),
		slog.String("user.email", logging.RedactEmail(e.Email)),
		slog.String("user.status", e.UserStatus),
	)

	return nil
}
