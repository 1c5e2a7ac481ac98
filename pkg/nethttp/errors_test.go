package nethttp

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/CodAressss/orders-batch-service/pkg/constant"
)

func TestClassify_StatusCodeTable(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"format invalid", constant.ErrFormatInvalid, fiber.StatusBadRequest, "FORMAT_INVALID"},
		{"field required", constant.ErrFieldRequired, fiber.StatusBadRequest, "FIELD_REQUIRED"},
		{"already processed", constant.ErrAlreadyProcessed, fiber.StatusConflict, "ALREADY_PROCESSED"},
		{"being processed", constant.ErrBeingProcessed, fiber.StatusConflict, "BEING_PROCESSED"},
		{"already reserved", constant.ErrAlreadyReserved, fiber.StatusConflict, "ALREADY_PROCESSED"},
		{"unauthorized", constant.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{"batch load not found", constant.ErrBatchLoadNotFound, fiber.StatusNotFound, "BATCH_LOAD_NOT_FOUND"},
		{"order number invalid", constant.ErrOrderNumberInvalid, fiber.StatusUnprocessableEntity, "ORDER_NUMBER_INVALID"},
		{"order duplicate", constant.ErrOrderDuplicate, fiber.StatusUnprocessableEntity, "ORDER_DUPLICATE"},
		{"client not found", constant.ErrClientNotFound, fiber.StatusUnprocessableEntity, "CLIENT_NOT_FOUND"},
		{"zone not found", constant.ErrZoneNotFound, fiber.StatusUnprocessableEntity, "ZONE_NOT_FOUND"},
		{"cold chain unsupported", constant.ErrColdChainUnsupported, fiber.StatusUnprocessableEntity, "COLD_CHAIN_UNSUPPORTED"},
		{"delivery date past", constant.ErrDeliveryDatePast, fiber.StatusUnprocessableEntity, "DELIVERY_DATE_PAST"},
		{"status invalid", constant.ErrStatusInvalid, fiber.StatusUnprocessableEntity, "STATUS_INVALID"},
		{"unknown error", errors.New("boom"), fiber.StatusInternalServerError, ""},
		{"internal sentinel", fmt.Errorf("wrapped: %w", constant.ErrInternal), fiber.StatusInternalServerError, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, code, message := classify(tc.err)

			assert.Equal(t, tc.wantStatus, status)
			assert.NotEmpty(t, message)

			if tc.wantCode != "" {
				assert.Equal(t, tc.wantCode, code)
			}
		})
	}
}

func TestClassify_WrappedErrorStillClassifies(t *testing.T) {
	wrapped := fmt.Errorf("finalize: %w", constant.ErrBatchLoadNotFound)

	status, code, _ := classify(wrapped)

	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "BATCH_LOAD_NOT_FOUND", code)
}
