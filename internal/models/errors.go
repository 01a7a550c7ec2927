package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried in JSON API responses.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeInternal     = "INTERNAL_ERROR"
)

// AppError is the error type the JSON API surfaces to clients. The HTML
// controllers never use it; they convert failures into flash redirects.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError flags malformed or incomplete client input.
func NewValidationError(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

// NewUnauthorizedError flags a missing or failed authentication.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: message}
}

// NewInternalError wraps an unexpected fault. The wrapped error is kept for
// the response details; the client-facing message stays generic.
func NewInternalError(err error) *AppError {
	return &AppError{Code: CodeInternal, Message: "Internal server error", Err: err}
}

// ErrorResponse is the JSON shape of an API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// RespondWithError writes an error as JSON with the given status.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	resp := ErrorResponse{Error: err.Error()}
	if appErr, ok := err.(*AppError); ok {
		resp.Error = appErr.Message
		resp.Code = appErr.Code
		if appErr.Err != nil {
			resp.Details = appErr.Err.Error()
		}
	}
	return c.Status(status).JSON(resp)
}
