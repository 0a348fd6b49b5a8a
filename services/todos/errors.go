package todos

import "errors"

// this file errors.go contains custom todo related errors

var (
	ErrTodoNotFound       = errors.New("todo not found")
	ErrMissingDescription = errors.New("description is required")
	ErrInvalidTodoID      = errors.New("invalid todo id")
)
