package models

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes carried by AppError.
const (
	CodeValidation            = "VALIDATION_ERROR"
	CodeLikeNotFound          = "LIKE_NOT_FOUND"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
	CodeForbidden             = "FORBIDDEN"
	CodeSelfDeletionForbidden = "SELF_DELETION_FORBIDDEN"
	CodeAccountBlocked        = "ACCOUNT_BLOCKED"
	CodeNotFound              = "NOT_FOUND"
	CodeConflict              = "CONFLICT"
	CodeDuplicateLike         = "DUPLICATE_LIKE"
	CodeInternal              = "INTERNAL_ERROR"
)

// FieldError is a single per-field validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
	Fields  []FieldError
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

// Predefined error constructors
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewFieldValidationError carries per-field messages alongside the summary.
func NewFieldValidationError(message string, fields []FieldError) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
		Fields:  fields,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewInvalidCredentialsError() *AppError {
	return &AppError{
		Code:    CodeInvalidCredentials,
		Message: "Invalid credentials",
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

func NewSelfDeletionForbiddenError() *AppError {
	return &AppError{
		Code:    CodeSelfDeletionForbidden,
		Message: "You cannot delete your own account from the admin panel",
	}
}

func NewAccountBlockedError(status UserStatus) *AppError {
	return &AppError{
		Code:    CodeAccountBlocked,
		Message: fmt.Sprintf("Account is %s. Please contact support.", status),
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
	}
}

func NewDuplicateLikeError() *AppError {
	return &AppError{
		Code:    CodeDuplicateLike,
		Message: "You have already liked this post",
	}
}

func NewLikeNotFoundError() *AppError {
	return &AppError{
		Code:    CodeLikeNotFound,
		Message: "You have not liked this post",
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// HasCode reports whether err is an AppError carrying code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// StatusFor maps an error to the HTTP status it is rendered with.
func StatusFor(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeValidation, CodeLikeNotFound:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeForbidden, CodeSelfDeletionForbidden, CodeAccountBlocked:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeDuplicateLike:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
