// Package http registers the Fiber route table, grounded on
// _examples/LerianStudio-midaz's components/ledger/internal/ports/http/
// routes.go registration shape (middleware chain, then one route per
// handler method), narrowed to the single upload surface plus
// diagnostics of spec.md §4.H.
package http

import (
	"github.com/gofiber/fiber/v2"

	in "github.com/CodAressss/orders-batch-service/internal/adapters/http/in"
	"github.com/CodAressss/orders-batch-service/pkg/mlog"
	"github.com/CodAressss/orders-batch-service/pkg/nethttp"
)

// NewRouter builds the Fiber app and registers every route.
func NewRouter(logger mlog.Logger, handler *in.BatchHandler) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(nethttp.WithCORS())
	app.Use(nethttp.WithCorrelationID())
	app.Use(nethttp.WithLogging(logger))

	app.Get("/health", in.Health)
	app.Get("/version", in.VersionHandler)

	app.Post("/api/v1/orders/load", handler.Load)
	app.Get("/api/v1/orders/load/:id", handler.GetBatchLoad)
	app.Get("/api/v1/orders/load/:id/metadata", handler.GetBatchLoadMetadata)

	return app
}
