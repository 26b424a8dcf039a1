package model

import "errors"

var (
	// User related errors
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")

	// Token related errors
	ErrTokenInvalid    = errors.New("token is invalid")
	ErrTokenExpired    = errors.New("token expired")
	ErrSessionConflict = errors.New("session was rotated concurrently")

	// Note related errors
	ErrNoteNotFound = errors.New("note not found")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")
)
