package serverutils

import (
	"errors"

	"pregnancy-nutrition-be/pkg/answer"

	"github.com/gofiber/fiber/v2"
)

// ClientError is an error whose message is safe to show to the caller
type ClientError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *ClientError) Error() string {
	return e.Message
}

func NewClientError(code int, message string) *ClientError {
	return &ClientError{Code: code, Message: message}
}

// ErrorHandlerMiddleware turns returned errors into the standard envelope
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code, resp := mapError(err)
		return ctx.Status(code).JSON(resp)
	}
}

func mapError(err error) (int, Response) {
	var clientErr *ClientError
	var fiberErr *fiber.Error
	var validationErr *answer.ValidationError

	switch {
	case errors.As(err, &clientErr):
		resp := ErrorResponse(clientErr.Code, clientErr.Message)
		resp.Data = clientErr.Data
		return clientErr.Code, resp
	case errors.As(err, &validationErr):
		resp := ErrorResponse(fiber.StatusBadRequest, validationErr.Error())
		resp.Data = map[string]string{"field": validationErr.Field}
		return fiber.StatusBadRequest, resp
	case errors.Is(err, answer.ErrMalformedContext), errors.Is(err, answer.ErrEmptyQuestion):
		return fiber.StatusBadRequest, ErrorResponse(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, answer.ErrRateLimited):
		return fiber.StatusTooManyRequests, ErrorResponse(fiber.StatusTooManyRequests, "Too many questions, please wait a minute and try again")
	case errors.As(err, &fiberErr):
		return fiberErr.Code, ErrorResponse(fiberErr.Code, fiberErr.Message)
	}
	return fiber.StatusInternalServerError, ErrorResponse(fiber.StatusInternalServerError, "Internal server error")
}
