// internal/db/errors.go
package db

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuery is returned by Execute for blank input
	ErrEmptyQuery = errors.New("query is empty")
	// ErrNotConnected is returned when a driver is used before Connect
	ErrNotConnected = errors.New("not connected")
	// ErrUnknownDriver is returned by NewDriver for unsupported types
	ErrUnknownDriver = errors.New("unknown driver type")
)

// ConnectionError wraps database connection failures
type ConnectionError struct {
	Underlying error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection failed: %v", e.Underlying)
}

func (e *ConnectionError) Unwrap() error {
	return e.Underlying
}

// QueryError wraps query execution failures
type QueryError struct {
	Underlying error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %v", e.Underlying)
}

func (e *QueryError) Unwrap() error {
	return e.Underlying
}

// WrapConnectionError creates a ConnectionError from underlying error
func WrapConnectionError(err error) error {
	if err == nil {
		return nil
	}
	return &ConnectionError{Underlying: err}
}

// WrapQueryError creates a QueryError from underlying error
func WrapQueryError(err error) error {
	if err == nil {
		return nil
	}
	return &QueryError{Underlying: err}
}
