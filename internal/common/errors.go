// Package common defines shared constants and sentinel errors used across
// the client and server halves of healthsync. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Transport / availability errors.
	ErrNetworkUnavailable = errors.New("network unavailable")

	// Auth errors (bad credentials, rejected or expired session).
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")

	// Request classification errors.
	ErrNotFound = errors.New("not found")
	ErrServer   = errors.New("server error")
	ErrRequest  = errors.New("request error")

	// Client-side form validation errors (never reach the network).
	ErrValidation = errors.New("validation error")

	// User/account errors.
	ErrUsernameTaken = errors.New("username already taken")

	// Generic internal failure.
	ErrInternal = errors.New("internal error")
)
