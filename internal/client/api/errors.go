package api

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials maps 401 Unauthorized on auth endpoints.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrMalformedInput maps 400 Bad Request.
	ErrMalformedInput = errors.New("malformed input")

	// ErrDuplicateAccount maps 409 Conflict on registration.
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrParse marks a 2xx response whose body is missing expected fields
	// or cannot be decoded.
	ErrParse = errors.New("unexpected response format")
)

// ServerError is any other non-2xx status.
type ServerError struct {
	Status int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: status %d", e.Status)
}

// ConnectionError wraps transport-level failures (refused connections,
// timeouts, DNS errors).
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }
