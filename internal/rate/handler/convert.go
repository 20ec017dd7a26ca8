package handler

import (
	"errors"
	"net/http"

	"fxconvert/internal/domain"

	"github.com/sirupsen/logrus"
)

type ConvertResponse struct {
	Result float64 `json:"result" example:"92"`
}

// Convert godoc
// @Summary Convert an amount between currencies
// @Description Converts value from one currency to another using the current exchange rate. Results are cached for 300 seconds.
// @Tags Rates
// @Produce json
// @Param from query string true "Source currency code" example(USD)
// @Param to query string true "Target currency code" example(EUR)
// @Param value query number true "Amount to convert" example(100)
// @Success 200 {object} ConvertResponse
// @Failure 400 {object} errorResponse "INVALID_PARAMETERS, INVALID_CURRENCY_CODE, CURRENCY_NOT_FOUND or INVALID_VALUE"
// @Failure 500 {object} errorResponse "CURRENCY_SERVICE_ERROR"
// @Failure 503 {object} errorResponse "CURRENCY_SERVICE_ERROR"
// @Router /rates [get]
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	req, err := h.validator.ValidateQuery(r.URL.Query())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := h.converter.Convert(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ConvertResponse{Result: result})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var convErr *domain.ConversionError
	if !errors.As(err, &convErr) {
		logrus.WithError(err).WithField("handler", "Convert").Error("unclassified conversion failure")
		convErr = domain.NewServiceError(http.StatusInternalServerError, "an unexpected error occurred, please try again later")
	} else if convErr.HTTPStatus == http.StatusBadRequest {
		logrus.WithFields(logrus.Fields{"code": convErr.Code, "message": convErr.Message}).Debug("conversion request rejected")
	}
	// a client that hung up is not a conversion failure
	if r.Context().Err() == nil {
		h.metrics.ConversionError(convErr.Code)
	}
	writeError(w, convErr)
}
