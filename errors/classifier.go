package errors

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrorKind is the closed failure taxonomy surfaced to callers. Anything not
// matched stays Unknown and keeps the underlying message intact.
type ErrorKind string

const (
	UserRejected         ErrorKind = "UserRejected"
	InsufficientGasFunds ErrorKind = "InsufficientGasFunds"
	SlippageExceeded     ErrorKind = "SlippageExceeded"
	UnsupportedToken     ErrorKind = "UnsupportedToken"
	SignerMismatch       ErrorKind = "SignerMismatch"
	DeadlineExpired      ErrorKind = "DeadlineExpired"
	Unknown              ErrorKind = "Unknown"
)

// SwapError pairs a classified kind with the raw underlying error.
type SwapError struct {
	Kind ErrorKind
	Err  error
}

func (e *SwapError) Error() string {
	return fmt.Sprintf("%s : %v", e.Kind, e.Err)
}

func (e *SwapError) Unwrap() error {
	return e.Err
}

// WithKind tags an error with an explicit kind, bypassing substring matching.
func WithKind(kind ErrorKind, err error) *SwapError {
	return &SwapError{Kind: kind, Err: err}
}

// KindOf extracts the classified kind from an error chain, Unknown otherwise.
func KindOf(err error) ErrorKind {
	var swapErr *SwapError
	if errors.As(err, &swapErr) {
		return swapErr.Kind
	}
	return Unknown
}

// Provider error code 4001, a user rejecting the signature prompt
// (EIP-1193). Matched only as a code field, a bare 4001 inside amounts or
// gas figures must not classify as a rejection.
var userRejectedCodePattern = regexp.MustCompile(`code"?\s*[:=]\s*"?4001\b`)

// Classify maps a raw provider or revert error onto the taxonomy. Matching is
// by well known codes and revert reason substrings. Errors already tagged
// with a kind pass through unchanged.
func Classify(err error) *SwapError {
	var swapErr *SwapError
	if errors.As(err, &swapErr) {
		return swapErr
	}

	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "user rejected"),
		strings.Contains(msg, "user denied"),
		userRejectedCodePattern.MatchString(msg):
		return WithKind(UserRejected, err)
	case strings.Contains(msg, "insufficient funds"),
		strings.Contains(msg, "insufficient balance for transfer"):
		return WithKind(InsufficientGasFunds, err)
	case strings.Contains(msg, "slippage"),
		strings.Contains(msg, "too little received"),
		strings.Contains(msg, "insufficient output amount"):
		return WithKind(SlippageExceeded, err)
	case strings.Contains(msg, "expired"),
		strings.Contains(msg, "deadline"):
		return WithKind(DeadlineExpired, err)
	case strings.Contains(msg, "not supported"),
		strings.Contains(msg, "unsupported token"):
		return WithKind(UnsupportedToken, err)
	default:
		return WithKind(Unknown, err)
	}
}
