package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/maheshrc27/writer-dashboard/internal/transfer"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func GetUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(string)
	return userID
}

func GetRequestID(c *fiber.Ctx) string {
	requestID, _ := c.Locals("requestid").(string)
	return requestID
}

func errorJSON(c *fiber.Ctx, status int, msg, details string) error {
	return c.Status(status).JSON(transfer.ErrorResponse{
		Success: false,
		Error:   msg,
		Details: details,
	})
}

// ErrorHandler renders errors that escape a handler in the same shape as
// handler errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	slog.Error("unhandled request error", "path", c.Path(), "request_id", GetRequestID(c),
		"status", code, "error", err)
	return errorJSON(c, code, err.Error(), "")
}

func paramInt64(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
