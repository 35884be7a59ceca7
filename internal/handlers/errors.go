package handlers

import (
	"errors"
	"fmt"
	"log"
	"unicode"
	"unicode/utf8"

	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Guards are the middlewares handlers attach to their protected routes.
type Guards struct {
	Auth  fiber.Handler
	Admin fiber.Handler
	// Checkout is optional and wraps order creation.
	Checkout fiber.Handler
}

func (g Guards) user(h ...fiber.Handler) []fiber.Handler {
	return append([]fiber.Handler{g.Auth}, h...)
}

func (g Guards) admin(h ...fiber.Handler) []fiber.Handler {
	return append([]fiber.Handler{g.Auth, g.Admin}, h...)
}

// requestError is a malformed or invalid request body.
type requestError struct {
	message string
	fields  map[string]string
}

func (e *requestError) Error() string { return e.message }

// bind parses the JSON body into out and runs struct validation on it.
func bind(c *fiber.Ctx, validate *validator.Validate, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		log.Printf("Error parsing request body for %s %s: %v", c.Method(), c.Path(), err)
		return &requestError{message: "Invalid request body"}
	}
	if err := validate.Struct(out); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return &requestError{message: err.Error()}
		}
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return &requestError{message: "Validation failed", fields: errorMessages}
	}
	return nil
}

// respondError maps service errors onto HTTP statuses with a {"message": ...} body.
func respondError(c *fiber.Ctx, err error) error {
	var (
		badRequest *requestError
		stock      *services.InsufficientStockError
	)
	switch {
	case errors.As(err, &badRequest):
		body := fiber.Map{"message": badRequest.message}
		if len(badRequest.fields) > 0 {
			body["errors"] = badRequest.fields
		}
		return c.Status(fiber.StatusBadRequest).JSON(body)
	case errors.As(err, &stock):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message":    stock.Error(),
			"product_id": stock.ProductID,
			"requested":  stock.Requested,
			"available":  stock.Available,
		})
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrAlreadyConfirmed),
		errors.Is(err, services.ErrEmptyCart):
		return message(c, fiber.StatusBadRequest, err)
	case errors.Is(err, services.ErrNotFound):
		return message(c, fiber.StatusNotFound, err)
	case errors.Is(err, services.ErrAccessDenied):
		return message(c, fiber.StatusForbidden, err)
	case errors.Is(err, services.ErrInvalidCreds):
		return message(c, fiber.StatusUnauthorized, err)
	case errors.Is(err, services.ErrConflict):
		return message(c, fiber.StatusConflict, err)
	default:
		log.Printf("Error handling %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}
}

func message(c *fiber.Ctx, status int, err error) error {
	return c.Status(status).JSON(fiber.Map{"message": capitalize(err.Error())})
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
