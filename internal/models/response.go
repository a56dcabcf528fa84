package models

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// SuccessResponse is the envelope for every successful API response.
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Code    string       `json:"code,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewPagination computes the page count for total items at limit per page.
func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// Offset returns the row offset of the page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// RespondSuccess writes the success envelope.
func RespondSuccess(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// RespondWithError creates a standardized error response. Internal failures
// never expose their cause.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	response := ErrorResponse{
		Message: "Internal server error",
		Code:    CodeInternal,
	}

	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != CodeInternal {
		response.Message = appErr.Message
		response.Code = appErr.Code
		response.Errors = appErr.Fields
	}

	return c.Status(status).JSON(response)
}
