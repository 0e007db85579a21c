package middleware

import "errors"

var (
	ErrInvalidConfig      = errors.New("invalid middleware configuration")
	ErrBodyTooLarge       = errors.New("request body too large")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
