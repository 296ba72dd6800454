// Package repomanager groups the per-entity repositories behind a single
// factory so the REST layer does not care which backend it runs on.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/avasiljevs/healthsync/internal/dbx"
	"github.com/avasiljevs/healthsync/internal/server/repositories/records"
	"github.com/avasiljevs/healthsync/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Records(db dbx.DBTX) records.Repository
}
