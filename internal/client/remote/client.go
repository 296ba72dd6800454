// Package remote is the request layer over the backend REST surface. Every
// call classifies failures uniformly: transport problems become
// common.ErrNetworkUnavailable, non-2xx responses map by status family to
// common.ErrUnauthorized (401), common.ErrNotFound (404), common.ErrServer
// (5xx) and common.ErrRequest (other 4xx). The layer never retries;
// retrying is the sync engine's call.
package remote

import "context"

// Client is the backend surface the engine and app depend on.
type Client interface {
	// Ping checks backend reachability without credentials.
	Ping(ctx context.Context) error

	// SignUp creates an account and establishes a session.
	SignUp(ctx context.Context, username, password string) (*Account, error)

	// Login authenticates and establishes a session.
	Login(ctx context.Context, username, password string) (*Account, error)

	// CurrentAccount validates the held session token.
	CurrentAccount(ctx context.Context) (*Account, error)

	// SetSessionToken installs a session credential (restored sessions).
	SetSessionToken(token string)

	// QueryRecords lists all records stored for an account.
	QueryRecords(ctx context.Context, accountID string) ([]*Record, error)

	// CreateRecord stores a new record.
	CreateRecord(ctx context.Context, accountID string, fields Fields) (*Record, error)

	// UpdateRecord replaces the fields of an existing record.
	UpdateRecord(ctx context.Context, recordID string, fields Fields) (*Record, error)

	// DeleteRecord removes a record.
	DeleteRecord(ctx context.Context, recordID string) error

	// SaveRecord runs the dedup/merge save path (see save.go).
	SaveRecord(ctx context.Context, accountID string, partial Fields) (*Record, error)

	// LoadRecord returns the newest record for an account, or nil when the
	// account has none.
	LoadRecord(ctx context.Context, accountID string) (*Record, error)
}
