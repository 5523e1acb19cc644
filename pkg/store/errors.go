package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrStorageUnavailable = errors.New("storage unavailable")

	ErrNotConfigured = errors.New("storage connection string not set")

	ErrInvalidLimit = errors.New("limit must be a positive integer")

	ErrInvalidFilter = errors.New("filter must map field names to plain values")

	ErrEmptyCollection = errors.New("collection name cannot be empty")
)

// QueryError is a failure of one specific store operation, as opposed to the
// store being unreachable.
type QueryError struct {
	Op         string
	Collection string
	Err        error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

func IsQueryError(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe)
}

// isUnreachable reports whether err means the store could not be reached at
// all, rather than having rejected the operation.
func isUnreachable(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrStorageUnavailable) ||
		errors.Is(err, mongo.ErrClientDisconnected) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		mongo.IsNetworkError(err) ||
		mongo.IsTimeout(err)
}

// isTransient reports whether a write may succeed if attempted again.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if isUnreachable(err) {
		return true
	}
	var se mongo.ServerError
	if errors.As(err, &se) {
		return se.HasErrorLabel("RetryableWriteError") || se.HasErrorLabel("TransientTransactionError")
	}
	return false
}
