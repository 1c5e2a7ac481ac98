package in

import "github.com/gofiber/fiber/v2"

// Version is the value GET /version reports; bootstrap.New sets it from
// Config.ServiceVersion (SERVICE_VERSION) at startup.
var Version = "dev"

// Health handles GET /health.
func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// VersionHandler handles GET /version.
func VersionHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"version": Version})
}
