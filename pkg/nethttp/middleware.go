package nethttp

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/CodAressss/orders-batch-service/pkg/mlog"
)

// correlationIDHeader is the header carrying (or receiving) the request
// correlation ID, grounded on the teacher's withCorrelationID.go idiom.
const correlationIDHeader = "X-Request-Id"

// WithCorrelationID assigns a correlation ID to the request — the
// inbound header value if present, otherwise a fresh UUID — and makes it
// available both on the response header and in the request-scoped
// logger's fields.
func WithCorrelationID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		correlationID := c.Get(correlationIDHeader)
		if correlationID == "" {
			correlationID = uuid.NewString()
		}

		c.Set(correlationIDHeader, correlationID)
		c.Locals(correlationIDHeader, correlationID)

		return c.Next()
	}
}

// WithLogging injects a per-request logger carrying the correlation ID
// into the request's user context, and logs method/path/status/latency
// once the handler chain completes.
func WithLogging(base mlog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		correlationID, _ := c.Locals(correlationIDHeader).(string)

		logger := base.WithFields("correlation_id", correlationID)
		ctx := mlog.ContextWithLogger(c.UserContext(), logger)
		c.SetUserContext(ctx)

		start := time.Now()
		err := c.Next()

		logger.Infof("%s %s -> %d (%s)", c.Method(), c.Path(), c.Response().StatusCode(), time.Since(start))

		return err
	}
}

// WithCORS mirrors the teacher's permissive default CORS policy,
// sufficient for a service with no browser-facing session cookies.
func WithCORS() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Access-Control-Allow-Origin", "*")
		c.Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Set("Access-Control-Allow-Headers", "Authorization,Idempotency-Key,Content-Type")

		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}

		return c.Next()
	}
}
