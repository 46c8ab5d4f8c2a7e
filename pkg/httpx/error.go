package httpx

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	validation "github.com/ARUMANDESU/validation"
	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"

	twofabackend "gitlab.com/nestpass/twofa-backend"
	"gitlab.com/nestpass/twofa-backend/pkg/errorx"
	"gitlab.com/nestpass/twofa-backend/pkg/otelx"
)

type ErrorHandler struct {
	bundle *i18n.Bundle
	enloc  *i18n.Localizer
	kkloc  *i18n.Localizer
	ruloc  *i18n.Localizer
}

func NewErrorHandler() *ErrorHandler {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	bundle.LoadMessageFileFS(twofabackend.Locales, "locales/en.toml")
	bundle.LoadMessageFileFS(twofabackend.Locales, "locales/kk.toml")
	bundle.LoadMessageFileFS(twofabackend.Locales, "locales/ru.toml")

	return &ErrorHandler{
		bundle: bundle,
		enloc:  i18n.NewLocalizer(bundle, "en"),
		kkloc:  i18n.NewLocalizer(bundle, "kk"),
		ruloc:  i18n.NewLocalizer(bundle, "ru"),
	}
}

func (h *ErrorHandler) Localizer(lang string) *i18n.Localizer {
	switch lang {
	case "kk":
		return h.kkloc
	case "ru":
		return h.ruloc
	default:
		return h.enloc
	}
}

func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, span trace.Span, err error, msg string) {
	otelx.RecordSpanError(span, err, msg)
	slog.ErrorContext(r.Context(), msg, slog.Any("error", err))

	lang := r.Header.Get("Accept-Language")
	localizer := h.Localizer(lang)

	var appErr *errorx.I18nError
	if errors.As(err, &appErr) {
		writeError(w, r,
			appErr.Code,
			appErr.Localize(localizer),
			appErr.HTTPStatusCode(),
		)
		return
	}

	var valErrs validation.Errors
	if errors.As(err, &valErrs) {
		var sb strings.Builder
		for field, fieldErr := range valErrs {
			sb.WriteString(fmt.Sprintf("%s: %s; ", field, localizeValidationError(localizer, fieldErr)))
		}
		writeError(w, r,
			errorx.CodeValidationFailed,
			sb.String(),
			http.StatusBadRequest,
		)
		return
	}

	var valErr validation.Error
	if errors.As(err, &valErr) {
		writeError(w, r,
			errorx.CodeValidationFailed,
			localizeValidationError(localizer, valErr),
			http.StatusBadRequest,
		)
		return
	}

	internalErr := errorx.NewInternalError().WithCause(err)
	writeError(w, r,
		internalErr.Code,
		internalErr.Localize(localizer),
		internalErr.HTTPStatusCode(),
	)
}

func localizeValidationError(localizer *i18n.Localizer, err error) string {
	valErr, ok := err.(validation.Error)
	if !ok {
		return err.Error()
	}

	msg, lerr := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    valErr.Code(),
		TemplateData: valErr.Params(),
	})
	if lerr != nil {
		return valErr.Error()
	}
	return msg
}

func BadRequest(w http.ResponseWriter, r *http.Request, message string) {
	slog.ErrorContext(r.Context(), "bad request", slog.String("message", message))
	writeError(w, r,
		errorx.CodeInvalid,
		message,
		http.StatusBadRequest,
	)
}

func writeError(w http.ResponseWriter, r *http.Request,
	code errorx.Code,
	message string,
	status int,
) {
	response := Envelope{
		"code":    code,
		"message": message,
		"success": false,
	}

	err := WriteJSON(w, status, response, nil)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to write error response", slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
