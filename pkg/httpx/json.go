package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"strings"

	"gitlab.com/nestpass/twofa-backend/pkg/errorx"
)

type Envelope map[string]any

const maxRequestBodySize = 1 << 20 // 1MB

func ReadJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(v)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return malformed(fmt.Errorf("badly-formed JSON (at character %d): %w", syntaxError.Offset, err))
		case errors.Is(err, io.ErrUnexpectedEOF):
			return malformed(fmt.Errorf("body contains badly-formed JSON: %w", err))
		case errors.As(err, &unmarshalTypeError):
			return malformed(fmt.Errorf("body contains invalid JSON (at character %d): %w", unmarshalTypeError.Offset, err))
		case errors.Is(err, io.EOF):
			return malformed(fmt.Errorf("body must not be empty: %w", err))
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return malformed(fmt.Errorf("body contains unknown field %s: %w", fieldName, err))
		case errors.As(err, &maxBytesError):
			return errorx.NewMalformedJSON().
				WithHTTPCode(http.StatusRequestEntityTooLarge).
				WithCause(fmt.Errorf("body must not be larger than %d KB: %w", maxBytesError.Limit/1024, err))
		case errors.As(err, &invalidUnmarshalError):
			return malformed(fmt.Errorf("body contains invalid JSON: %w", err))
		default:
			return malformed(fmt.Errorf("body contains invalid JSON: %w", err))
		}
	}

	// the body must contain only a single JSON value
	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return malformed(fmt.Errorf("body must only contain a single JSON value: %w", err))
	}

	return nil
}

func malformed(err error) error {
	return errorx.NewMalformedJSON().WithCause(err)
}

func WriteJSON(w http.ResponseWriter, status int, data Envelope, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}

	js = append(js, '\n')

	maps.Copy(w.Header(), headers)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	if err != nil {
		return err
	}
	return nil
}

func Success(w http.ResponseWriter, r *http.Request, status int, message Envelope) {
	if message == nil {
		message = make(Envelope, 1)
	}
	message["success"] = true

	err := WriteJSON(w, status, message, nil)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to write success response", "status", status)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
