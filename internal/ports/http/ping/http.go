package pinghttp

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"gitlab.com/nestpass/twofa-backend/pkg/httpx"
	"gitlab.com/nestpass/twofa-backend/pkg/sanitizex"
)

var (
	tracer = otel.Tracer("twofa/internal/ports/http/ping")
	logger = otelslog.NewLogger("twofa/internal/ports/http/ping")
)

type HTTP struct {
	tracer     trace.Tracer
	logger     *slog.Logger
	errhandler *httpx.ErrorHandler
}

type Args struct {
	Tracer     trace.Tracer
	Logger     *slog.Logger
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
		errhandler: args.Errhandler,
	}
}

func (h *HTTP) Route(r chi.Router) {
	r.Post("/v1/ping", h.Ping)
}

type PingRequest struct {
	Message string `json:"message"`
}

// Ping echoes the caller's message back, marking where it came from.
func (h *HTTP) Ping(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Ping")
	defer span.End()

	var req PingRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		h.errhandler.HandleError(w, r, span, err, "failed to read json")
		return
	}

	msg := "Origin: " + sanitizex.CleanSingleLine(req.Message) + " - successfull ping"
	h.logger.InfoContext(ctx, msg)

	httpx.Success(w, r, http.StatusOK, httpx.Envelope{"message": msg})
}
