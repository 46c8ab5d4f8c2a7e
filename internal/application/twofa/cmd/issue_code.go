package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"gitlab.com/nestpass/twofa-backend/internal/domain/twofa"
	"gitlab.com/nestpass/twofa-backend/internal/domain/valueobject/mails"
	"gitlab.com/nestpass/twofa-backend/pkg/errorx"
	"gitlab.com/nestpass/twofa-backend/pkg/logging"
	"gitlab.com/nestpass/twofa-backend/pkg/otelx"
)

var (
	tracer = otel.Tracer("twofa/application/twofa/cmd")
	logger = otelslog.NewLogger("twofa/application/twofa/cmd")
)

var (
	issuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "twofa_codes_issued_total",
		Help: "Verification codes issued successfully",
	})
	issueFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "twofa_code_issue_failures_total",
		Help: "Failed code issuance attempts by stage",
	}, []string{"stage"})
	issueDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "twofa_code_issue_duration_ms",
		Help:    "Latency of code issuance in milliseconds",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})
)

type VerificationStore interface {
	Save(ctx context.Context, rec *twofa.Record) error
}

type MailSender interface {
	SendMail(ctx context.Context, payload mails.Payload) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event any) error
}

type IssueCodeHandler struct {
	tracer      trace.Tracer
	logger      *slog.Logger
	store       VerificationStore
	mailsender  MailSender
	publisher   EventPublisher
	mailEnabled bool
}

type IssueCodeHandlerArgs struct {
	Tracer      trace.Tracer
	Logger      *slog.Logger
	Store       VerificationStore
	Mailsender  MailSender
	Publisher   EventPublisher
	MailEnabled bool
}

func NewIssueCodeHandler(args IssueCodeHandlerArgs) *IssueCodeHandler {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	return &IssueCodeHandler{
		tracer:      args.Tracer,
		logger:      args.Logger,
		store:       args.Store,
		mailsender:  args.Mailsender,
		publisher:   args.Publisher,
		mailEnabled: args.MailEnabled,
	}
}

// Handle issues a fresh verification code: it validates the payload,
// then caches the record and dispatches the email in parallel. Either
// failure fails the whole operation; a code already issued for the
// user is silently replaced.
func (h *IssueCodeHandler) Handle(ctx context.Context, cmd IssueCode) error {
	const op = "cmd.IssueCodeHandler.Handle"
	start := time.Now()
	ctx, span := h.tracer.Start(ctx, "IssueCodeHandler.Handle")
	defer span.End()

	if err := cmd.Validate(); err != nil {
		issueFailuresTotal.WithLabelValues("validation").Inc()
		otelx.RecordSpanError(span, err, "payload validation failed")
		return errorx.Wrap(err, op)
	}

	redactedEmail := logging.RedactEmail(cmd.email())
	l := h.logger.With(slog.String("user.id", cmd.userID()), slog.String("user.email", redactedEmail))
	otelx.SetSpanAttrs(span, map[string]any{
		"user.id":    cmd.userID(),
		"user.email": redactedEmail,
	})

	rec, err := twofa.NewRecord(twofa.NewRecordArgs{
		UserID:     cmd.userID(),
		Email:      cmd.email(),
		UserStatus: cmd.userStatus(),
	})
	if err != nil {
		issueFailuresTotal.WithLabelValues("validation").Inc()
		otelx.RecordSpanError(span, err, "failed to create verification record")
		return errorx.Wrap(err, op)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := h.store.Save(gctx, rec); err != nil {
			issueFailuresTotal.WithLabelValues("store").Inc()
			return errorx.Wrap(err, op)
		}
		return nil
	})
	if h.mailEnabled {
		g.Go(func() error {
			payload := mails.NewAuthCodePayload(rec.Email(), rec.Code())
			if err := h.mailsender.SendMail(gctx, payload); err != nil {
				issueFailuresTotal.WithLabelValues("email").Inc()
				return errorx.Wrap(err, op)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		otelx.RecordSpanError(span, err, "failed to issue verification code")
		l.ErrorContext(ctx, "failed to issue verification code", slog.Any("error", err))
		return err
	}

	h.publishEvents(ctx, rec)

	issuedTotal.Inc()
	issueDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	l.InfoContext(ctx, "verification email sent and auth code cached")

	return nil
}

// publishEvents is best effort: the code is already stored and mailed,
// so a broker hiccup only costs the audit trail.
func (h *IssueCodeHandler) publishEvents(ctx context.Context, rec *twofa.Record) {
	if h.publisher == nil {
		return
	}

	for _, e := range rec.GetUncommittedEvents() {
		if issued, ok := e.(*twofa.CodeIssued); ok {
			issued.Propagate(ctx)
		}
		if err := h.publisher.Publish(ctx, e); err != nil {
			h.logger.WarnContext(ctx, "failed to publish event",
				slog.String("event.stream", e.GetStreamName()),
				slog.Any("error", err),
			)
		}
	}
	rec.MarkEventsAsCommitted()
}
