package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/podtracker/internal/model"
)

// FieldError describes one invalid request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError represents an API error response
type APIError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	var verr *model.ValidationError
	if errors.As(err, &verr) {
		fields := make([]FieldError, len(verr.Fields))
		for i, f := range verr.Fields {
			fields[i] = FieldError{Field: f.Field, Message: f.Message}
		}
		return &httpError{http.StatusBadRequest, APIError{CodeValidationFailed, "Validation failed", fields}}
	}

	switch {
	// Entity errors first so the message names the entity
	case errors.Is(err, model.ErrUserNotFound):
		return notFound("User not found")
	case errors.Is(err, model.ErrDeckNotFound):
		return notFound("Deck not found")
	case errors.Is(err, model.ErrPodNotFound):
		return notFound("Pod not found")
	case errors.Is(err, model.ErrGameNotFound):
		return notFound("Game not found")
	case errors.Is(err, model.ErrEmailTaken):
		return conflict("Email already registered")
	case errors.Is(err, model.ErrUsernameTaken):
		return conflict("Username already taken")
	case errors.Is(err, model.ErrPodNameTaken):
		return conflict("Pod name already taken")
	case errors.Is(err, model.ErrUserHasDependents):
		return conflict("Account still owns pods or has recorded games")
	case errors.Is(err, model.ErrNotPodOwner):
		return forbidden("Only the pod owner can do this")
	case errors.Is(err, model.ErrNotPodMember):
		return forbidden("Not a member of this pod")

	// Error kinds
	case errors.Is(err, model.ErrValidation):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeValidationFailed, Message: "Validation failed"}}
	case errors.Is(err, model.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{Code: CodeInvalidCredentials, Message: "Invalid email or password"}}
	case errors.Is(err, model.ErrUnauthenticated):
		return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "Invalid or expired credentials"}}
	case errors.Is(err, model.ErrForbidden):
		return forbidden("Forbidden")
	case errors.Is(err, model.ErrNotFound):
		return notFound("Not found")
	case errors.Is(err, model.ErrConflict):
		return conflict("Conflict")

	default:
		return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
	}
}

func notFound(message string) *httpError {
	return &httpError{http.StatusNotFound, APIError{Code: CodeNotFound, Message: message}}
}

func conflict(message string) *httpError {
	return &httpError{http.StatusConflict, APIError{Code: CodeConflict, Message: message}}
}

func forbidden(message string) *httpError {
	return &httpError{http.StatusForbidden, APIError{Code: CodeForbidden, Message: message}}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "Authentication required"}}
}

// NewNotFoundError creates a not found error for unmatched routes
func NewNotFoundError() error {
	return notFound("Route not found")
}

// NewMethodNotAllowedError creates an error for unsupported methods on a route
func NewMethodNotAllowedError() error {
	return &httpError{http.StatusMethodNotAllowed, APIError{Code: CodeInvalidRequest, Message: "Method not allowed"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
}
