package http

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/pagination"
)

type envelope struct {
	Success bool             `json:"success"`
	Data    any              `json:"data,omitempty"`
	Meta    *pagination.Meta `json:"meta,omitempty"`
	Error   *errorBody       `json:"error,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type messageBody struct {
	Message string `json:"message"`
}

func ok(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(envelope{Success: true, Data: data})
}

func created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(envelope{Success: true, Data: data})
}

func message(c *fiber.Ctx, msg string) error {
	return ok(c, messageBody{Message: msg})
}

func paginated[T any](c *fiber.Ctx, r pagination.Result[T]) error {
	meta := r.Meta
	return c.Status(fiber.StatusOK).JSON(envelope{Success: true, Data: r.Items, Meta: &meta})
}

// errorHandler is the single place where errors become responses. Expected
// failures carry their own status; everything else is a logged 500.
func (s *HTTPServer) errorHandler(c *fiber.Ctx, err error) error {
	status, body := http.StatusInternalServerError, errorBody{Code: "INTERNAL_ERROR", Message: "Internal server error"}

	var fe *fiber.Error
	if appErr, isApp := common.AsAppError(err); isApp {
		status, body = appErr.Status, errorBody{Code: appErr.Code, Message: appErr.Message}
	} else if errors.As(err, &fe) {
		status, body = fe.Code, errorBody{Code: codeForStatus(fe.Code), Message: fe.Message}
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error(c.UserContext(), "Request failed", "method", c.Method(), "path", c.Path(), "error", err.Error())
	}

	return c.Status(status).JSON(envelope{Success: false, Error: &body})
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case http.StatusUnprocessableEntity:
		return "VALIDATION_ERROR"
	case http.StatusTooManyRequests:
		return "TOO_MANY_REQUESTS"
	default:
		if status >= http.StatusInternalServerError {
			return "INTERNAL_ERROR"
		}
		return "ERROR"
	}
}
