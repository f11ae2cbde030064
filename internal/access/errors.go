package access

import "errors"

var (
	ErrNotFound     = errors.New("access: not found")
	ErrInvalidInput = errors.New("access: invalid input")
	ErrUnauthorized = errors.New("access: unauthorized")
)
