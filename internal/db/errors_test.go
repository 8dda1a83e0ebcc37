package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_Unwrap(t *testing.T) {
	cause := context.DeadlineExceeded

	err := WrapConnectionError(cause)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "connection failed: context deadline exceeded", err.Error())

	err = WrapQueryError(cause)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	var ce *ConnectionError
	assert.False(t, errors.As(err, &ce))

	assert.NoError(t, WrapQueryError(nil))
	assert.NoError(t, WrapConnectionError(nil))
}

func TestNewDriver(t *testing.T) {
	for _, dt := range []DriverType{SQLServer, Postgres, MySQL, SQLite} {
		d, err := NewDriver(dt)
		assert.NoError(t, err)
		assert.Equal(t, dt, d.Type())
	}

	_, err := NewDriver("oracle")
	assert.ErrorIs(t, err, ErrUnknownDriver)
}
