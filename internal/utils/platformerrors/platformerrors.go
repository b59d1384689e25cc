package platformerrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

type contextKey string

// RequestIDKey is the request-scoped context key carrying the request ID.
const RequestIDKey contextKey = "requestID"

// getRequestIDFromContext extracts request ID from context
func getRequestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// ErrorType represents the category of error
type ErrorType string

const (
	ErrorTypeUnauthenticated    ErrorType = "UNAUTHENTICATED"
	ErrorTypeInvalidCredentials ErrorType = "INVALID_CREDENTIALS"
	ErrorTypeForbidden          ErrorType = "FORBIDDEN"
	ErrorTypeNotFound           ErrorType = "NOT_FOUND"
	ErrorTypeValidation         ErrorType = "VALIDATION"
	ErrorTypeConflict           ErrorType = "CONFLICT"
	ErrorTypeUpstream           ErrorType = "UPSTREAM_FAILURE"
	ErrorTypeDatabaseError      ErrorType = "DATABASE_ERROR"
	ErrorTypeInternal           ErrorType = "INTERNAL"
)

// Layer represents the application layer where the error occurred
type Layer string

const (
	LayerRepository     Layer = "repository"
	LayerDomain         Layer = "domain"
	LayerHandler        Layer = "handler"
	LayerRoute          Layer = "route"
	LayerInfrastructure Layer = "infrastructure"
)

// PlatformError represents an error with context and metadata
type PlatformError struct {
	UUID      string
	Type      ErrorType
	Message   string
	Err       error
	Context   map[string]any
	RequestID string
	Layer     Layer
	Timestamp time.Time

	// UpstreamStatus holds the storage node's own HTTP status for
	// ErrorTypeUpstream errors so it can be relayed to the client.
	UpstreamStatus int
}

// Error implements the error interface
func (e *PlatformError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s][%s][%s] %s: %v", e.Layer, e.Type, e.UUID, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s][%s][%s] %s", e.Layer, e.Type, e.UUID, e.Message)
}

// Unwrap returns the underlying error
func (e *PlatformError) Unwrap() error {
	return e.Err
}

// GetErrorType returns the error type
func (e *PlatformError) GetErrorType() ErrorType {
	return e.Type
}

// GetRequestID returns the request ID
func (e *PlatformError) GetRequestID() string {
	return e.RequestID
}

// GetUUID returns the error UUID
func (e *PlatformError) GetUUID() string {
	return e.UUID
}

// HTTPStatus returns the transport status code for this error. Upstream
// errors relay the node's own status where one was recorded.
func (e *PlatformError) HTTPStatus() int {
	if e.Type == ErrorTypeUpstream && e.UpstreamStatus != 0 {
		return e.UpstreamStatus
	}
	return ErrorTypeToHTTPStatus(e.Type)
}

// NewError creates a new PlatformError with the specified parameters
func NewError(ctx context.Context, layer Layer, errorType ErrorType, message string, err error, customUUID string) *PlatformError {
	return &PlatformError{
		UUID:      customUUID,
		Type:      errorType,
		Message:   message,
		Err:       err,
		RequestID: getRequestIDFromContext(ctx),
		Layer:     layer,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamError creates an upstream failure carrying the node's status code.
func NewUpstreamError(ctx context.Context, layer Layer, message string, statusCode int, customUUID string) *PlatformError {
	e := NewError(ctx, layer, ErrorTypeUpstream, message, nil, customUUID)
	e.UpstreamStatus = statusCode
	return e
}

// AsError wraps an error with layer context, preserving the original type.
func AsError(ctx context.Context, layer Layer, err error, message string) *PlatformError {
	if err == nil {
		return nil
	}

	var platformErr *PlatformError
	if errors.As(err, &platformErr) {
		wrapped := NewError(ctx, layer, platformErr.Type, fmt.Sprintf("%s: %s", message, platformErr.Message), platformErr, platformErr.UUID)
		wrapped.UpstreamStatus = platformErr.UpstreamStatus
		return wrapped
	}

	return NewError(ctx, layer, ErrorTypeInternal, message, err, "")
}

// ErrorTypeToHTTPStatus maps error types to HTTP status codes
func ErrorTypeToHTTPStatus(errorType ErrorType) int {
	switch errorType {
	case ErrorTypeUnauthenticated:
		return http.StatusUnauthorized
	case ErrorTypeInvalidCredentials:
		// The gateway has always answered bad credentials with 403.
		return http.StatusForbidden
	case ErrorTypeForbidden:
		return http.StatusForbidden
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeUpstream:
		return http.StatusBadGateway
	case ErrorTypeDatabaseError:
		return http.StatusInternalServerError
	case ErrorTypeInternal:
		fallthrough
	default:
		return http.StatusInternalServerError
	}
}

// IsErrorType checks if an error is a PlatformError with the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	if err == nil {
		return false
	}

	var platformErr *PlatformError
	if errors.As(err, &platformErr) {
		return platformErr.Type == errorType
	}

	return false
}

// LogError logs a platform error with proper structure
func LogError(logger zerolog.Logger, err *PlatformError) {
	if err == nil {
		return
	}

	event := logger.Error().
		Str("error_uuid", err.UUID).
		Str("error_type", string(err.Type)).
		Str("layer", string(err.Layer)).
		Time("timestamp_utc", err.Timestamp)

	if err.RequestID != "" {
		event = event.Str("request_id", err.RequestID)
	}

	for k, v := range err.Context {
		event = event.Interface(k, v)
	}

	if err.Err != nil {
		event = event.Err(err.Err)
	}

	event.Msg(err.Message)
}
