package middleware

import (
	"errors"
	"log"
	"strings"

	"teashop/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler turns handler errors into responses. fiber.Error codes are kept;
// anything else is logged and answered with a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Une erreur interne est survenue"

	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
		message = fe.Message
	case errors.Is(err, services.ErrInvalidSortField):
		code = fiber.StatusBadRequest
		message = err.Error()
	}

	if code >= fiber.StatusInternalServerError {
		log.Printf("Error handling %s %s: %v", c.Method(), c.OriginalURL(), err)
	}

	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(code).JSON(fiber.Map{
			"message": message,
		})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(code).SendString(message)
}
