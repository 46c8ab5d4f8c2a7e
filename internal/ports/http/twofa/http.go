package twofahttp

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	twofaapp "gitlab.com/nestpass/twofa-backend/internal/application/twofa"
	"gitlab.com/nestpass/twofa-backend/internal/application/twofa/cmd"
	"gitlab.com/nestpass/twofa-backend/pkg/env"
	"gitlab.com/nestpass/twofa-backend/pkg/httpx"
	"gitlab.com/nestpass/twofa-backend/pkg/logging"
	"gitlab.com/nestpass/twofa-backend/pkg/otelx"
	"gitlab.com/nestpass/twofa-backend/pkg/sanitizex"
)

var (
	tracer = otel.Tracer("twofa/internal/ports/http/twofa")
	logger = otelslog.NewLogger("twofa/internal/ports/http/twofa")
)

type HTTP struct {
	tracer     trace.Tracer
	logger     *slog.Logger
	cmd        *twofaapp.Command
	query      *twofaapp.Query
	errhandler *httpx.ErrorHandler
}

type Args struct {
	Tracer     trace.Tracer
	Logger     *slog.Logger
	App        *twofaapp.App
	Errhandler *httpx.ErrorHandler
}

func NewHTTP(args Args) *HTTP {
	if args.Tracer == nil {
		args.Tracer = tracer
	}
	if args.Logger == nil {
		args.Logger = logger
	}

	return &HTTP{
		tracer:     args.Tracer,
		logger:     args.Logger,
		cmd:        &args.App.CMD,
		query:      &args.App.Query,
		errhandler: args.Errhandler,
	}
}

func (h *HTTP) Route(r chi.Router) {
	r.Route("/v1/twofa", func(r chi.Router) {
		r.Post("/generate", h.GenerateTwoFACode)
	})

	if env.Current() == env.Dev || env.Current() == env.Local || env.Current() == env.Test {
		r.Get("/dev/twofa/code/{userID}", h.GetCode)
	}
}

type GenerateTwoFACodeRequest struct {
	UserID     *string `json:"userId"`
	Email      *string `json:"email"`
	UserStatus *string `json:"userStatus"`
}

func (r *GenerateTwoFACodeRequest) Sanitized() {
	cleanPtr(r.UserID)
	cleanPtr(r.Email)
	cleanPtr(r.UserStatus)
}

func cleanPtr(s *string) {
	if s != nil {
		*s = sanitizex.CleanSingleLine(*s)
	}
}

func (r *GenerateTwoFACodeRequest) SetSpanAttrs(span trace.Span) {
	attrs := map[string]any{}
	if r.UserID != nil {
		attrs["user.id"] = *r.UserID
	}
	if r.Email != nil {
		attrs["user.email"] = logging.RedactEmail(*r.Email)
	}
	otelx.SetSpanAttrs(span, attrs)
}

func (h *HTTP) GenerateTwoFACode(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GenerateTwoFACode")
	defer span.End()

	var req GenerateTwoFACodeRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to read json")
		return
	}

	req.Sanitized()
	req.SetSpanAttrs(span)

	err := h.cmd.IssueCode.Handle(ctx, cmd.IssueCode{
		UserID:     req.UserID,
		Email:      req.Email,
		UserStatus: req.UserStatus,
	})
	if err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to generate twofa code")
		return
	}

	httpx.Success(w, r, http.StatusAccepted, nil)
}

func (h *HTTP) GetCode(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetCode")
	defer span.End()

	userID := sanitizex.CleanSingleLine(chi.URLParam(r, "userID"))
	if userID == "" {
		httpx.BadRequest(w, r, "userID is required")
		return
	}

	code, err := h.query.GetCode.Handle(ctx, userID)
	if err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to get twofa code")
		return
	}

	httpx.Success(w, r, http.StatusOK, httpx.Envelope{"code": code})
}
