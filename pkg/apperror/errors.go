package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies where an error came from so callers can pick the right
// user-facing message without inspecting error strings.
type Kind string

const (
	KindTransport         Kind = "transport"
	KindMalformedResponse Kind = "malformed_response"
	KindBusiness          Kind = "business"
	KindMissingInput      Kind = "missing_input"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Kind    Kind         `json:"kind,omitempty"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	Err     error        `json:"-"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying cause.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError of the same Kind, so errors.Is(err, ErrTransport)
// holds for every transport failure regardless of its message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok || t.Kind == "" {
		return false
	}
	return t.Kind == e.Kind
}

// Common errors
var (
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrBadRequest     = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrConflict       = &AppError{Code: http.StatusConflict, Message: "Resource already exists"}
	ErrUnprocessable  = &AppError{Code: http.StatusUnprocessableEntity, Message: "Unprocessable entity"}

	ErrTransport         = &AppError{Code: http.StatusBadGateway, Kind: KindTransport, Message: "Ledger service unreachable"}
	ErrMalformedResponse = &AppError{Code: http.StatusBadGateway, Kind: KindMalformedResponse, Message: "Malformed response from ledger service"}
	ErrCustomerRequired  = &AppError{Code: http.StatusBadRequest, Kind: KindMissingInput, Message: "Customer name is required"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewTransportError wraps a failure to reach the remote ledger endpoint.
func NewTransportError(op string, err error) *AppError {
	return &AppError{
		Code:    http.StatusBadGateway,
		Kind:    KindTransport,
		Message: op,
		Err:     err,
	}
}

// NewMalformedResponseError wraps a payload that did not match the expected shape.
func NewMalformedResponseError(op string, err error) *AppError {
	return &AppError{
		Code:    http.StatusBadGateway,
		Kind:    KindMalformedResponse,
		Message: op,
		Err:     err,
	}
}

// NewBusinessError carries a message reported by the remote service itself.
func NewBusinessError(message string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindBusiness,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// Badf is NewBadRequestError with formatting.
func Badf(format string, args ...interface{}) *AppError {
	return NewBadRequestError(fmt.Sprintf(format, args...))
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
