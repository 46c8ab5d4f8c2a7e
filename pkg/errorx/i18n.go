package errorx

import (
	"errors"
	"fmt"
	"maps"
	"net/http"

	"github.com/nicksnyder/go-i18n/v2/i18n"

	"gitlab.com/nestpass/twofa-backend/pkg/i18nx"
)

type I18nError struct {
	cause              error
	MessageKey         string
	MessageArgs        map[string]any
	MessagePluralCount any
	HTTPCode           int
	Code               Code
}

func (e *I18nError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("[%s] %s", e.Code, e.MessageKey)
	}

	return fmt.Sprintf("[%s] %s: %s", e.Code, e.MessageKey, e.cause)
}

func (e *I18nError) Unwrap() error {
	return e.cause
}

func (e *I18nError) Localize(localizer *i18n.Localizer) string {
	return localizer.MustLocalize(&i18n.LocalizeConfig{
		MessageID:    e.MessageKey,
		TemplateData: e.MessageArgs,
		PluralCount:  e.MessagePluralCount,
	})
}

func New(messageKey string) *I18nError {
	return &I18nError{
		MessageKey:  messageKey,
		MessageArgs: make(map[string]any),
		Code:        CodeInternal,
		HTTPCode:    http.StatusInternalServerError,
	}
}

func (e *I18nError) HTTPStatusCode() int {
	if e.HTTPCode != 0 {
		return e.HTTPCode
	}

	return HTTPStatusCode(e.Code)
}

func (e *I18nError) WithHTTPCode(code int) *I18nError {
	e.HTTPCode = code
	return e
}

func (e *I18nError) WithCode(code Code) *I18nError {
	e.Code = code
	return e
}

func (e *I18nError) WithArgs(args map[string]any) *I18nError {
	if e.MessageArgs == nil {
		e.MessageArgs = make(map[string]any)
	}

	maps.Copy(e.MessageArgs, args)

	return e
}

func (e *I18nError) WithCause(cause error) *I18nError {
	e.cause = cause
	return e
}

func HTTPStatusCode(code Code) int {
	switch code {
	case CodeInvalid, CodeValidationFailed, CodeMalformedJSON:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	case CodeUpstreamError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func IsCode(err error, code Code) bool {
	if err == nil {
		return false
	}

	var i18nErr *I18nError
	if errors.As(err, &i18nErr) {
		return i18nErr.Code == code
	}

	return false
}

func IsNotFound(err error) bool {
	return IsCode(err, CodeNotFound)
}

func IsInvalid(err error) bool {
	return IsCode(err, CodeInvalid) || IsCode(err, CodeValidationFailed)
}

// Client Errors (4xx)

func NewInvalidRequest() *I18nError {
	return &I18nError{
		MessageKey: i18nx.KeyInvalid,
		Code:       CodeInvalid,
		HTTPCode:   http.StatusBadRequest,
	}
}

func NewValidationFailed() *I18nError {
	return &I18nError{
		MessageKey: i18nx.KeyValidationFailed,
		Code:       CodeValidationFailed,
		HTTPCode:   http.StatusBadRequest,
	}
}

func NewMissingFields(fields string) *I18nError {
	return &I18nError{
		MessageKey:  i18nx.KeyMissingFields,
		MessageArgs: map[string]any{"Fields": fields},
		Code:        CodeInvalid,
		HTTPCode:    http.StatusBadRequest,
	}
}

func NewEmptyFields(fields string) *I18nError {
	return &I18nError{
		MessageKey:  i18nx.KeyEmptyFields,
		MessageArgs: map[string]any{"Fields": fields},
		Code:        CodeInvalid,
		HTTPCode:    http.StatusBadRequest,
	}
}

func NewMalformedJSON() *I18nError {
	return &I18nError{
		MessageKey: i18nx.KeyMalformedJSON,
		Code:       CodeMalformedJSON,
		HTTPCode:   http.StatusBadRequest,
	}
}

func NewNotFound() *I18nError {
	return &I18nError{
		MessageKey: i18nx.KeyNotFound,
		Code:       CodeNotFound,
		HTTPCode:   http.StatusNotFound,
	}
}

func NewResourceNotFound(resourceType string) *I18nError {
	return &I18nError{
		MessageKey:  i18nx.KeyNotFoundWithType,
		MessageArgs: map[string]any{"ResourceType": resourceType},
		Code:        CodeNotFound,
		HTTPCode:    http.StatusNotFound,
	}
}

func NewMethodNotAllowed() *I18nError {
	return &I18nError{
		MessageKey: i18nx.KeyMethodNotAllowed,
		Code:       CodeMethodNotAllowed,
		HTTPCode:   http.StatusMethodNotAllowed,
	}
}

// Server Errors (5xx)

func NewInternalError() *I18nError {
	return &I18nError{
		MessageKey: i18nx.KeyInternalError,
		Code:       CodeInternal,
		HTTPCode:   http.StatusInternalServerError,
	}
}

func NewServiceUnavailable() *I18nError {
	return &I18nError{
		MessageKey: i18nx.KeyServiceUnavailable,
		Code:       CodeServiceUnavailable,
		HTTPCode:   http.StatusServiceUnavailable,
	}
}

func NewUpstreamServiceError() *I18nError {
	return &I18nError{
		MessageKey: i18nx.KeyUpstreamServiceError,
		Code:       CodeUpstreamError,
		HTTPCode:   http.StatusBadGateway,
	}
}
