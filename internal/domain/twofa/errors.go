package twofa

import (
	"net/http"

	"gitlab.com/nestpass/twofa-backend/pkg/errorx"
)

var (
	ErrCodeNotFound     = errorx.New("code_not_found").WithCode(errorx.CodeNotFound).WithHTTPCode(http.StatusNotFound)
	ErrRetriesExhausted = errorx.New("retries_exhausted").WithCode(errorx.CodeInvalid).WithHTTPCode(http.StatusTooManyRequests)
)
