package middleware

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// RequireDataset rejects requests while the sales dataset failed to load.
// loadErr reports the reason, or nil once data is available.
func RequireDataset(loadErr func() error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := loadErr(); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"message": "Data not loaded. Reason: " + err.Error(),
			})
		}
		return c.Next()
	}
}

// ErrorHandler renders errors that escape the handlers in the API's error shape.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		log.Printf("❌ [%s %s] Unhandled error: %v", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}
