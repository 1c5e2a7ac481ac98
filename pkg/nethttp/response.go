package nethttp

import "github.com/gofiber/fiber/v2"

// Created writes a 201 JSON body.
func Created(c *fiber.Ctx, body any) error {
	return c.Status(fiber.StatusCreated).JSON(body)
}

// UnprocessableEntity writes a 422 JSON body — used when every row in a
// batch was rejected but the run itself completed (spec.md §4.H).
func UnprocessableEntity(c *fiber.Ctx, body any) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(body)
}

// OK writes a 200 JSON body.
func OK(c *fiber.Ctx, body any) error {
	return c.Status(fiber.StatusOK).JSON(body)
}
