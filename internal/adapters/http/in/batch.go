// Package in holds the inbound Fiber handlers, grounded on
// _examples/LerianStudio-midaz's components/ledger/internal/ports/http
// handler shape (context extraction, command/query delegation, JSON
// response writing via the net/http helper package), generalized to the
// single multipart upload surface of spec.md §4.H.
package in

import (
	"io"

	"github.com/gofiber/fiber/v2"
	validator "gopkg.in/go-playground/validator.v9"

	"github.com/CodAressss/orders-batch-service/internal/adapters/auth"
	"github.com/CodAressss/orders-batch-service/internal/adapters/mongodb"
	"github.com/CodAressss/orders-batch-service/internal/domain/batchload"
	"github.com/CodAressss/orders-batch-service/internal/ingestion/digest"
	"github.com/CodAressss/orders-batch-service/internal/ingestion/parser"
	"github.com/CodAressss/orders-batch-service/internal/services/command"
	"github.com/CodAressss/orders-batch-service/pkg/constant"
	"github.com/CodAressss/orders-batch-service/pkg/mlog"
	"github.com/CodAressss/orders-batch-service/pkg/nethttp"
)

// idempotencyKeyHeader is the header spec.md §4.H requires non-blank; the
// column it is persisted to is VARCHAR(50) (migrations/000001), so the
// boundary check below rejects an oversized value before it ever reaches
// a repository.
const idempotencyKeyHeader = "Idempotency-Key"

var headerValidator = validator.New()

type headerShape struct {
	IdempotencyKey string `validate:"required,max=50"`
}

// BatchHandler serves POST /api/v1/orders/load and its companion
// diagnostic endpoints. OnAfterLoad, if set, fires best-effort side
// channels after a batch load completes (RabbitMQ event publish, Mongo
// metadata write; the Redis cache is used inside Execute) — none of these may
// influence the HTTP response; failures are logged and swallowed by the
// callback itself (SPEC_FULL.md §4.O-Q Open Question).
type BatchHandler struct {
	UseCase       *command.LoadOrders
	Authenticator auth.Authenticator
	Store         batchload.Store
	Metadata      *mongodb.Repository
	OnAfterLoad   func(summary command.Summary, idempotencyKey, fileDigest, filename, contentType string)
}

// Load handles POST /api/v1/orders/load (spec.md §4.H).
func (h *BatchHandler) Load(c *fiber.Ctx) error {
	ctx := c.UserContext()
	logger := mlog.FromContext(ctx)

	if _, err := h.Authenticator.Authenticate(ctx, c.Get(fiber.HeaderAuthorization)); err != nil {
		return nethttp.WithError(c, constant.ErrUnauthorized)
	}

	idempotencyKey := c.Get(idempotencyKeyHeader)
	if err := headerValidator.Struct(headerShape{IdempotencyKey: idempotencyKey}); err != nil {
		return nethttp.WithError(c, constant.ErrFieldRequired)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil || fileHeader == nil || fileHeader.Size == 0 {
		return nethttp.WithError(c, constant.ErrFieldRequired)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nethttp.WithError(c, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nethttp.WithError(c, err)
	}

	fileDigest := digest.Compute(data)

	rows, err := parser.Parse(data)
	if err != nil {
		return nethttp.WithError(c, err)
	}

	summary, err := h.UseCase.Execute(ctx, idempotencyKey, fileDigest, rows)
	if err != nil {
		logger.Errorf("batch load failed: %v", err)
		return nethttp.WithError(c, err)
	}

	if h.OnAfterLoad != nil {
		contentType := fileHeader.Header.Get(fiber.HeaderContentType)
		h.OnAfterLoad(summary, idempotencyKey, fileDigest, fileHeader.Filename, contentType)
	}

	body := toResponseBody(summary)

	if summary.StoredCount == 0 {
		return nethttp.UnprocessableEntity(c, body)
	}

	return nethttp.Created(c, body)
}

// GetBatchLoad handles GET /api/v1/orders/load/{id} (SPEC_FULL.md §6
// diagnostic endpoint).
func (h *BatchHandler) GetBatchLoad(c *fiber.Ctx) error {
	ctx := c.UserContext()

	bl, found, err := h.Store.Get(ctx, c.Params("id"))
	if err != nil {
		return nethttp.WithError(c, err)
	}

	if !found {
		return nethttp.WithError(c, constant.ErrBatchLoadNotFound)
	}

	return nethttp.OK(c, bl)
}

// GetBatchLoadMetadata handles GET /api/v1/orders/load/{id}/metadata
// (SPEC_FULL.md §4.Q diagnostic endpoint).
func (h *BatchHandler) GetBatchLoadMetadata(c *fiber.Ctx) error {
	ctx := c.UserContext()

	meta, found, err := h.Metadata.Get(ctx, c.Params("id"))
	if err != nil {
		return nethttp.WithError(c, err)
	}

	if !found {
		return nethttp.WithError(c, constant.ErrBatchLoadNotFound)
	}

	return nethttp.OK(c, meta)
}

type errorDetail struct {
	LineNumber int    `json:"lineNumber"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

type responseBody struct {
	BatchLoadID    string         `json:"batchLoadId"`
	TotalProcessed int            `json:"totalProcessed"`
	StoredCount    int            `json:"storedCount"`
	ErrorCount     int            `json:"errorCount"`
	ErrorsByCode   map[string]int `json:"errorsByCode"`
	ErrorDetails   []errorDetail  `json:"errorDetails"`
}

func toResponseBody(summary command.Summary) responseBody {
	errorsByCode := make(map[string]int)
	details := make([]errorDetail, 0, len(summary.Errors))

	for _, e := range summary.Errors {
		errorsByCode[string(e.Code)]++
		details = append(details, errorDetail{
			LineNumber: e.LineNumber,
			Code:       string(e.Code),
			Message:    e.Message,
		})
	}

	return responseBody{
		BatchLoadID:    summary.BatchLoadID,
		TotalProcessed: summary.TotalProcessed,
		StoredCount:    summary.StoredCount,
		ErrorCount:     summary.ErrorCount,
		ErrorsByCode:   errorsByCode,
		ErrorDetails:   details,
	}
}
