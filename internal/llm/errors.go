package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/Veraticus/payee-classifier/internal/common"
)

// ErrorKind categorizes provider failures.
type ErrorKind string

// Provider failure kinds.
const (
	ErrorKindAuth    ErrorKind = "auth"
	ErrorKindQuota   ErrorKind = "quota"
	ErrorKindNetwork ErrorKind = "network"
	ErrorKindTimeout ErrorKind = "timeout"
	ErrorKindParse   ErrorKind = "parse"
	ErrorKindUnknown ErrorKind = "unknown"
)

// Error is a categorized provider failure.
type Error struct {
	Err        error
	Kind       ErrorKind
	StatusCode int
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("llm %s error (status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("llm %s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure may succeed on another attempt.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case ErrorKindNetwork, ErrorKindTimeout, ErrorKindQuota:
		return true
	default:
		return false
	}
}

// KindOf returns the failure kind of err, or ErrorKindUnknown.
func KindOf(err error) ErrorKind {
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorKindTimeout
	}
	return ErrorKindUnknown
}

func statusError(provider string, status int, body []byte) error {
	detail := fmt.Errorf("%s API error: %s", provider, string(body))

	kind := ErrorKindUnknown
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = ErrorKindAuth
	case status == http.StatusTooManyRequests || status == http.StatusPaymentRequired:
		kind = ErrorKindQuota
		detail = fmt.Errorf("%w: %w", common.ErrRateLimit, detail)
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		kind = ErrorKindTimeout
	case status >= http.StatusInternalServerError:
		kind = ErrorKindNetwork
	}

	return &Error{Kind: kind, StatusCode: status, Err: detail}
}

func transportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: ErrorKindTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: ErrorKindTimeout, Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return &Error{Kind: ErrorKindNetwork, Err: err}
}

func parseError(err error) error {
	return &Error{Kind: ErrorKindParse, Err: err}
}
