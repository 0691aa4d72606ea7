package quote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"
)

// FailureKind classifies why an attempt ended in the Failed state.
type FailureKind string

const (
	FailureNone       FailureKind = ""
	FailureNetwork    FailureKind = "network"
	FailureTimeout    FailureKind = "timeout"
	FailureCanceled   FailureKind = "canceled"
	FailureServer     FailureKind = "server"
	FailureUnexpected FailureKind = "unexpected"
)

const (
	msgNetwork    = "Network connection error. Please check your internet connection and try again."
	msgTimeout    = "Request timed out. Please try again."
	msgCanceled   = "Submission was interrupted before it finished. Please try again."
	msgUnexpected = "An unexpected error occurred."
)

// TransportError wraps failures that happened before any HTTP response arrived.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("relay transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerError is a response from the relay that did not report success.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("relay responded %d: %s", e.StatusCode, e.Message)
}

// classify maps a Send error to its kind and the message shown to the customer.
func classify(err error, supportEmail string) (FailureKind, string) {
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return FailureServer, withContactHint(serverErr.Message, supportEmail)
	}

	switch kind := transportKind(err); kind {
	case FailureNetwork:
		return kind, msgNetwork
	case FailureTimeout:
		return kind, msgTimeout
	case FailureCanceled:
		return kind, msgCanceled
	}
	return FailureUnexpected, withContactHint(msgUnexpected, supportEmail)
}

func transportKind(err error) FailureKind {
	if err == nil {
		return FailureNone
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTimeout
	}
	if errors.Is(err, context.Canceled) {
		return FailureCanceled
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	switch {
	case errors.As(err, &dnsErr),
		errors.As(err, &opErr),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ENETUNREACH),
		errors.Is(err, syscall.EHOSTUNREACH),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF):
		return FailureNetwork
	}
	return FailureUnexpected
}

func withContactHint(message, supportEmail string) string {
	message = strings.TrimSpace(message)
	if message == "" {
		message = msgUnexpected
	}
	if supportEmail == "" {
		return message + " Please try again."
	}
	return fmt.Sprintf("%s Please try again or contact us directly at %s", message, supportEmail)
}
