// Package models holds the server-side persistence types.
package models

import (
	"encoding/json"
	"time"
)

// User is an account holder. PasswordHash is an encoded argon2id string,
// never the raw password.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Record is a stored health-data document. Fields stays opaque raw JSON so
// the server never needs to understand the payload shape. The server does
// not enforce one record per account; the client collapses duplicates on
// save.
type Record struct {
	ID        string
	AccountID string
	CreatedAt time.Time
	UpdatedAt time.Time
	Fields    json.RawMessage
}
