// Package apperror defines the error taxonomy shared by every service in tasklist.
// Services return *AppError values; the transport layers (GraphQL and the plain
// HTTP endpoints) map the Type to a response code without inspecting messages.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType enumerates the categories of application errors.
type ErrorType int

const (
	// UnknownError is for unspecified errors
	UnknownError ErrorType = iota
	// Unauthenticated means the request carries no valid caller identity
	Unauthenticated
	// InvalidCredentials is a login failure. It is deliberately the same for an
	// unknown username and a wrong password.
	InvalidCredentials
	// DuplicateUsername is a signup conflict
	DuplicateUsername
	// NotFound means the referenced todo or user does not exist
	NotFound
	// Forbidden means the caller does not own the resource
	Forbidden
	// StoreUnavailable wraps an unexpected persistence failure
	StoreUnavailable
	// ValidationError represents an input validation error
	ValidationError
	// ConfigError represents an error related to application configuration
	ConfigError
	// MigrationError represents an error during database migrations
	MigrationError
	// InternalError represents a generic internal server error
	InternalError
)

// AppError is the error type returned by services.
// Message is safe to show to API clients; Err is only for logs.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code appropriate for the error type
func (e *AppError) StatusCode() int {
	switch e.Type {
	case Unauthenticated, InvalidCredentials:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case DuplicateUsername:
		return http.StatusConflict
	case ValidationError:
		return http.StatusBadRequest
	case StoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Code returns the machine readable code reported in GraphQL error extensions.
func (e *AppError) Code() string {
	switch e.Type {
	case Unauthenticated:
		return "UNAUTHENTICATED"
	case InvalidCredentials:
		return "INVALID_CREDENTIALS"
	case DuplicateUsername:
		return "DUPLICATE_USERNAME"
	case NotFound:
		return "NOT_FOUND"
	case Forbidden:
		return "FORBIDDEN"
	case ValidationError:
		return "BAD_USER_INPUT"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}

// Internal reports whether the error hides a server-side fault whose details
// must not reach the client.
func (e *AppError) Internal() bool {
	switch e.Type {
	case Unauthenticated, InvalidCredentials, DuplicateUsername, NotFound, Forbidden, ValidationError:
		return false
	default:
		return true
	}
}

// NewAppError creates a new AppError.
func NewAppError(errType ErrorType, message string, underlyingError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     underlyingError,
	}
}

// NewUnauthenticatedError creates a new Unauthenticated error
func NewUnauthenticatedError(message string) *AppError {
	return NewAppError(Unauthenticated, message, nil)
}

// NewInvalidCredentialsError creates a new InvalidCredentials error
func NewInvalidCredentialsError() *AppError {
	return NewAppError(InvalidCredentials, "username or password is wrong", nil)
}

// NewDuplicateUsernameError creates a new DuplicateUsername error
func NewDuplicateUsernameError(underlyingError error) *AppError {
	return NewAppError(DuplicateUsername, "username is already taken", underlyingError)
}

// NewNotFoundError creates a new NotFound error
func NewNotFoundError(message string, underlyingError error) *AppError {
	return NewAppError(NotFound, message, underlyingError)
}

// NewForbiddenError creates a new Forbidden error
func NewForbiddenError(message string) *AppError {
	return NewAppError(Forbidden, message, nil)
}

// NewStoreError creates a new StoreUnavailable error
func NewStoreError(message string, underlyingError error) *AppError {
	return NewAppError(StoreUnavailable, message, underlyingError)
}

// NewValidationError creates a new ValidationError
func NewValidationError(message string, underlyingError error) *AppError {
	return NewAppError(ValidationError, message, underlyingError)
}

// NewConfigError creates a new ConfigError
func NewConfigError(message string, underlyingError error) *AppError {
	return NewAppError(ConfigError, message, underlyingError)
}

// NewMigrationError creates a new MigrationError
func NewMigrationError(message string, underlyingError error) *AppError {
	return NewAppError(MigrationError, message, underlyingError)
}

// NewInternalError creates a new InternalError
func NewInternalError(message string, underlyingError error) *AppError {
	return NewAppError(InternalError, message, underlyingError)
}

// ErrorResponse is the JSON body written for errors on the plain HTTP endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToResponse converts an AppError to an ErrorResponse.
// Only the user-facing Message is included, never the wrapped error.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message, Code: e.Code()}
}

// FromError returns the first *AppError in err's chain.
// Anything else is reported as an InternalError wrapping err.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError("internal server error", err)
}

// Is reports whether err carries an AppError of the given type.
func Is(err error, errType ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == errType
}

// IsNotFound checks if an error is a NotFound error
func IsNotFound(err error) bool {
	return Is(err, NotFound)
}

// IsForbidden checks if an error is a Forbidden error
func IsForbidden(err error) bool {
	return Is(err, Forbidden)
}

// IsUnauthenticated checks if an error is an Unauthenticated error
func IsUnauthenticated(err error) bool {
	return Is(err, Unauthenticated)
}
