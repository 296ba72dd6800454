// Package users stores account credentials.
package users

import (
	"context"

	"github.com/avasiljevs/healthsync/internal/server/models"
)

// Repository is the account store. Create returns
// common.ErrUsernameTaken when the username exists; lookups return
// common.ErrNotFound for unknown accounts.
type Repository interface {
	Create(ctx context.Context, username, passwordHash string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
