package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"fxconvert/internal/domain"
	"fxconvert/internal/metrics"
)

type Validator interface {
	ValidateQuery(q url.Values) (domain.ConversionRequest, error)
	SupportedCodes() []string
}

type Converter interface {
	Convert(ctx context.Context, req domain.ConversionRequest) (float64, error)
}

type Handler struct {
	validator Validator
	converter Converter
	metrics   *metrics.Metrics
}

func NewRateHandler(validator Validator, converter Converter, m *metrics.Metrics) *Handler {
	return &Handler{validator: validator, converter: converter, metrics: m}
}

type errorDetail struct {
	Code    domain.ErrorCode `json:"code" example:"CURRENCY_NOT_FOUND"`
	Message string           `json:"message" example:"currency XXX not found"`
}

type errorResponse struct {
	Detail errorDetail `json:"detail"`
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, convErr *domain.ConversionError) {
	writeJSON(w, convErr.HTTPStatus, errorResponse{
		Detail: errorDetail{Code: convErr.Code, Message: convErr.Message},
	})
}
