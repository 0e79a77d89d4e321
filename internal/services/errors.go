package services

import "errors"

var (
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrDuplicateUsername  = errors.New("username already registered")
	ErrNotFound           = errors.New("message not found")
)
