package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies the kind of failure returned to API clients.
type ErrorCode string

const (
	CodeInvalidParameters    ErrorCode = "INVALID_PARAMETERS"
	CodeInvalidCurrencyCode  ErrorCode = "INVALID_CURRENCY_CODE"
	CodeCurrencyNotFound     ErrorCode = "CURRENCY_NOT_FOUND"
	CodeInvalidValue         ErrorCode = "INVALID_VALUE"
	CodeCurrencyServiceError ErrorCode = "CURRENCY_SERVICE_ERROR"
)

// ConversionError is the classified, client-facing outcome of a failed conversion.
type ConversionError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.HTTPStatus, e.Message)
}

func NewBadRequest(code ErrorCode, message string) *ConversionError {
	return &ConversionError{Code: code, Message: message, HTTPStatus: http.StatusBadRequest}
}

func NewServiceError(status int, message string) *ConversionError {
	return &ConversionError{Code: CodeCurrencyServiceError, Message: message, HTTPStatus: status}
}

// Upstream failures, produced by rate provider adapters.
var (
	ErrRateUnavailable     = errors.New("upstream returned no conversion rate")
	ErrUpstreamUnreachable = errors.New("upstream unreachable")
)

// UpstreamStatusError reports a non-2xx response from the rate provider.
type UpstreamStatusError struct {
	StatusCode int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("upstream responded with status %d", e.StatusCode)
}

// UpstreamResultError reports a 2xx response whose result field is not "success".
type UpstreamResultError struct {
	Result    string
	ErrorType string
}

func (e *UpstreamResultError) Error() string {
	if e.ErrorType == "" {
		return fmt.Sprintf("upstream returned result %q", e.Result)
	}
	return fmt.Sprintf("upstream returned result %q: %s", e.Result, e.ErrorType)
}
