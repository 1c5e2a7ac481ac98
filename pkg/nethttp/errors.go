// Package nethttp holds the Fiber-facing response and error-mapping
// helpers (spec.md §4.H), grounded on
// _examples/LerianStudio-midaz's common/net/http/errors.go and
// httputils.go response-writer idiom.
package nethttp

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/CodAressss/orders-batch-service/pkg/apperr"
	"github.com/CodAressss/orders-batch-service/pkg/constant"
)

// ErrorResponse is the fixed shape every error response takes
// (spec.md §4.H).
type ErrorResponse struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Path      string `json:"path"`
}

// WithError maps err to the status/code table of spec.md §4.H and
// writes the JSON error body.
func WithError(c *fiber.Ctx, err error) error {
	status, code, message := classify(err)

	return c.Status(status).JSON(ErrorResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Status:    status,
		Error:     http.StatusText(status),
		Code:      code,
		Message:   message,
		Path:      c.Path(),
	})
}

//nolint:cyclop
func classify(err error) (status int, code, message string) {
	switch {
	case errors.Is(err, constant.ErrFormatInvalid):
		return fiber.StatusBadRequest, "FORMAT_INVALID", err.Error()
	case errors.Is(err, constant.ErrFieldRequired):
		return fiber.StatusBadRequest, "FIELD_REQUIRED", err.Error()
	case errors.Is(err, constant.ErrAlreadyProcessed):
		return fiber.StatusConflict, "ALREADY_PROCESSED", err.Error()
	case errors.Is(err, constant.ErrBeingProcessed):
		return fiber.StatusConflict, "BEING_PROCESSED", err.Error()
	case errors.Is(err, constant.ErrAlreadyReserved):
		return fiber.StatusConflict, "ALREADY_PROCESSED", err.Error()
	case errors.Is(err, constant.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED", err.Error()
	case errors.Is(err, constant.ErrBatchLoadNotFound):
		return fiber.StatusNotFound, "BATCH_LOAD_NOT_FOUND", err.Error()
	case errors.Is(err, constant.ErrOrderNumberInvalid), errors.Is(err, constant.ErrOrderDuplicate),
		errors.Is(err, constant.ErrClientNotFound), errors.Is(err, constant.ErrZoneNotFound),
		errors.Is(err, constant.ErrColdChainUnsupported), errors.Is(err, constant.ErrDeliveryDatePast),
		errors.Is(err, constant.ErrStatusInvalid):
		return fiber.StatusUnprocessableEntity, rowErrorCode(err), err.Error()
	default:
		internal := apperr.ValidateInternalError(err, "BatchLoad")
		return fiber.StatusInternalServerError, internal.Code, internal.Message
	}
}

func rowErrorCode(err error) string {
	switch {
	case errors.Is(err, constant.ErrOrderNumberInvalid):
		return "ORDER_NUMBER_INVALID"
	case errors.Is(err, constant.ErrOrderDuplicate):
		return "ORDER_DUPLICATE"
	case errors.Is(err, constant.ErrClientNotFound):
		return "CLIENT_NOT_FOUND"
	case errors.Is(err, constant.ErrZoneNotFound):
		return "ZONE_NOT_FOUND"
	case errors.Is(err, constant.ErrColdChainUnsupported):
		return "COLD_CHAIN_UNSUPPORTED"
	case errors.Is(err, constant.ErrDeliveryDatePast):
		return "DELIVERY_DATE_PAST"
	case errors.Is(err, constant.ErrStatusInvalid):
		return "STATUS_INVALID"
	default:
		return "VALIDATION_ERROR"
	}
}
