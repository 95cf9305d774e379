package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrUserAlreadyExists is returned when registering an email that is taken.
	ErrUserAlreadyExists = errors.New("User already exists")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("Invalid email or password")
	// ErrNoToken is returned when a protected route is called without a bearer token.
	ErrNoToken = errors.New("Not authorized, no token")
	// ErrInvalidToken is returned when a bearer token fails verification or its user is gone.
	ErrInvalidToken = errors.New("Not authorized, token failed")
	// ErrForbidden is matched by every *ForbiddenError.
	ErrForbidden = errors.New("forbidden")
	// ErrJobNotFound is returned when a job id does not resolve.
	ErrJobNotFound = errors.New("Job not found")
	// ErrApplicationNotFound is returned when an application id does not resolve.
	ErrApplicationNotFound = errors.New("Application not found")
	// ErrDuplicateApplication is returned when a student applies to the same job twice.
	ErrDuplicateApplication = errors.New("You have already applied for this job")
)

// ValidationError carries a client-facing description of malformed input.
type ValidationError struct {
	Message string
}

// NewValidationError creates a new validation error.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is lets errors.Is(err, ErrValidation) match any validation error.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ForbiddenError is returned when an authenticated caller lacks the role or
// ownership a route requires.
type ForbiddenError struct {
	Reason string
}

// NewForbiddenError creates a new forbidden error.
func NewForbiddenError(reason string) *ForbiddenError {
	return &ForbiddenError{Reason: reason}
}

func (e *ForbiddenError) Error() string {
	return e.Reason
}

// Is lets errors.Is(err, ErrForbidden) match any forbidden error.
func (e *ForbiddenError) Is(target error) bool {
	return target == ErrForbidden
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Internal   error
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Unwrap returns the error the HTTPError was mapped from.
func (e *HTTPError) Unwrap() error {
	return e.Internal
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Message: e.Message,
		Code:    e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors become a
// 500 that keeps the original error as Internal for logging.
func MapErrorToHTTP(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var mapped *HTTPError
	var validationErr *ValidationError
	var forbiddenErr *ForbiddenError
	switch {
	case errors.As(err, &validationErr):
		mapped = NewHTTPError(http.StatusBadRequest, validationErr.Message, "VALIDATION_ERROR")
	case errors.As(err, &forbiddenErr):
		mapped = NewHTTPError(http.StatusForbidden, forbiddenErr.Reason, "FORBIDDEN")
	case errors.Is(err, ErrUserAlreadyExists):
		mapped = NewHTTPError(http.StatusBadRequest, ErrUserAlreadyExists.Error(), "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrDuplicateApplication):
		mapped = NewHTTPError(http.StatusBadRequest, ErrDuplicateApplication.Error(), "DUPLICATE_APPLICATION")
	case errors.Is(err, ErrInvalidCredentials):
		mapped = NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrNoToken):
		mapped = NewHTTPError(http.StatusUnauthorized, ErrNoToken.Error(), "UNAUTHENTICATED")
	case errors.Is(err, ErrInvalidToken):
		mapped = NewHTTPError(http.StatusUnauthorized, ErrInvalidToken.Error(), "UNAUTHENTICATED")
	case errors.Is(err, ErrJobNotFound):
		mapped = NewHTTPError(http.StatusNotFound, ErrJobNotFound.Error(), "JOB_NOT_FOUND")
	case errors.Is(err, ErrApplicationNotFound):
		mapped = NewHTTPError(http.StatusNotFound, ErrApplicationNotFound.Error(), "APPLICATION_NOT_FOUND")
	default:
		mapped = NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
	mapped.Internal = err
	return mapped
}
