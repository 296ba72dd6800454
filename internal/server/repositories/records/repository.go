// Package records stores health-data documents. Every operation is scoped
// to the owning account: a record id belonging to another account behaves
// exactly like a missing one.
package records

import (
	"context"
	"encoding/json"

	"github.com/avasiljevs/healthsync/internal/server/models"
)

// Repository is the record store. The server intentionally permits any
// number of records per account; collapsing duplicates is the client's
// responsibility.
type Repository interface {
	Create(ctx context.Context, accountID string, fields json.RawMessage) (*models.Record, error)
	Update(ctx context.Context, accountID, recordID string, fields json.RawMessage) (*models.Record, error)
	Delete(ctx context.Context, accountID, recordID string) error
	ListByAccount(ctx context.Context, accountID string) ([]*models.Record, error)
}
