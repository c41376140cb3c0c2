// Package faults classifies poll-cycle failures so the scheduler can log
// what went wrong without inspecting error strings.
package faults

import (
	"errors"
	"fmt"
)

// Kind is the failure class of a poll cycle.
type Kind string

const (
	KindAuth      Kind = "auth"
	KindTransport Kind = "transport"
	KindStorage   Kind = "storage"
	KindUnknown   Kind = "unknown"
)

// AuthError means the client-credentials exchange failed.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string { return fmt.Sprintf("auth: %s: %v", e.Op, e.Err) }
func (e *AuthError) Unwrap() error { return e.Err }

// TransportError covers network failures, non-2xx responses and malformed
// response bodies from the remote API. StatusCode is 0 when no response
// was received.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport: %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StorageError is a local persistence failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage: %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

func Auth(op string, err error) error {
	return &AuthError{Op: op, Err: err}
}

func Transport(op string, status int, err error) error {
	return &TransportError{Op: op, StatusCode: status, Err: err}
}

// Storage wraps err as a StorageError. A nil err stays nil so callers can
// wrap unconditionally.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// Classify returns the Kind of the outermost classified error in err's chain.
func Classify(err error) Kind {
	var (
		authErr      *AuthError
		transportErr *TransportError
		storageErr   *StorageError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &authErr):
		return KindAuth
	case errors.As(err, &transportErr):
		return KindTransport
	case errors.As(err, &storageErr):
		return KindStorage
	default:
		return KindUnknown
	}
}
