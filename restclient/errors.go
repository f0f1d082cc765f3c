package restclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/kbukum/restbase/codec"
)

// ErrorCode classifies restclient errors.
type ErrorCode int

const (
	// ErrCodeInvalidConfig indicates a client could not be constructed.
	ErrCodeInvalidConfig ErrorCode = iota
	// ErrCodeInvalidRequest indicates the request could not be built (bad path or method).
	ErrCodeInvalidRequest
	// ErrCodeEncode indicates the request content could not be serialized.
	ErrCodeEncode
	// ErrCodeTransport indicates a DNS, connection, or other network failure.
	ErrCodeTransport
	// ErrCodeTimeout indicates the configured timeout or a context deadline elapsed.
	ErrCodeTimeout
	// ErrCodeCanceled indicates the caller canceled the context.
	ErrCodeCanceled
	// ErrCodeDecode indicates a body that is empty, malformed, or of the wrong shape.
	ErrCodeDecode
	// ErrCodeNoBody indicates decoding was attempted with no response or body.
	ErrCodeNoBody
	// ErrCodeStatus indicates a non-2xx status where success was required.
	ErrCodeStatus
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeInvalidConfig:
		return "invalid_config"
	case ErrCodeInvalidRequest:
		return "invalid_request"
	case ErrCodeEncode:
		return "encode"
	case ErrCodeTransport:
		return "transport"
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeCanceled:
		return "canceled"
	case ErrCodeDecode:
		return "decode"
	case ErrCodeNoBody:
		return "no_body"
	case ErrCodeStatus:
		return "status"
	default:
		return "unknown"
	}
}

// Error is the structured error returned by every restclient operation.
type Error struct {
	// Code classifies the error.
	Code ErrorCode
	// Message describes the error.
	Message string
	// StatusCode is the HTTP status, 0 when no response was received.
	StatusCode int
	// Body holds a prefix of the response body for ErrCodeStatus errors.
	Body []byte
	// Err is the underlying error, surfaced unchanged.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("restclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("restclient: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether repeating the call could succeed. The client
// never retries on its own.
func (e *Error) Retryable() bool {
	switch e.Code {
	case ErrCodeTimeout, ErrCodeTransport:
		return true
	case ErrCodeStatus:
		return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
	default:
		return false
	}
}

func newError(code ErrorCode, err error) *Error {
	return &Error{Code: code, Message: err.Error(), Err: err}
}

func configError(format string, args ...any) *Error {
	err := fmt.Errorf(format, args...)
	return &Error{Code: ErrCodeInvalidConfig, Message: err.Error(), Err: err}
}

// transportError classifies a failure returned by the transport.
func transportError(err error) *Error {
	var ne net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return newError(ErrCodeTimeout, err)
	case errors.Is(err, context.Canceled):
		return newError(ErrCodeCanceled, err)
	case errors.As(err, &ne) && ne.Timeout():
		return newError(ErrCodeTimeout, err)
	default:
		return newError(ErrCodeTransport, err)
	}
}

// decodeError classifies a failure while reading or decoding a body. A
// deadline that fires mid-body is still reported as a timeout.
func decodeError(err error) *Error {
	switch {
	case errors.Is(err, codec.ErrNilStream):
		return newError(ErrCodeNoBody, err)
	case errors.Is(err, context.DeadlineExceeded):
		return newError(ErrCodeTimeout, err)
	case errors.Is(err, context.Canceled):
		return newError(ErrCodeCanceled, err)
	default:
		return newError(ErrCodeDecode, err)
	}
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// IsInvalidConfig checks if an error is a construction error.
func IsInvalidConfig(err error) bool { return hasCode(err, ErrCodeInvalidConfig) }

// IsTransport checks if an error is a transport error.
func IsTransport(err error) bool { return hasCode(err, ErrCodeTransport) }

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool { return hasCode(err, ErrCodeTimeout) }

// IsCanceled checks if an error is a caller cancellation.
func IsCanceled(err error) bool { return hasCode(err, ErrCodeCanceled) }

// IsDecode checks if an error is a decode error.
func IsDecode(err error) bool { return hasCode(err, ErrCodeDecode) }

// IsNoBody checks if an error is a null-stream error.
func IsNoBody(err error) bool { return hasCode(err, ErrCodeNoBody) }

// IsStatus checks if an error is an unexpected-status error.
func IsStatus(err error) bool { return hasCode(err, ErrCodeStatus) }

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable()
}
