package users

import "errors"

// this file errors.go contains custom user related errors

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailTaken       = errors.New("email is already registered")
	ErrInvalidPassword  = errors.New("current password is incorrect")
	ErrPasswordMismatch = errors.New("new passwords do not match")
	ErrMissingEmail     = errors.New("email is required")
	ErrMissingPassword  = errors.New("password is required")
	ErrInvalidUserID    = errors.New("invalid user id")
)
