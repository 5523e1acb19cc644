package errors

import "errors"

var (
	ErrInvalidBody = errors.New("request body must be a JSON object")

	ErrEmptyBody = errors.New("request body is empty")
)
