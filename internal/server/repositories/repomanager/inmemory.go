package repomanager

import (
	"context"
	"database/sql"

	"github.com/avasiljevs/healthsync/internal/dbx"
	"github.com/avasiljevs/healthsync/internal/server/repositories/records"
	"github.com/avasiljevs/healthsync/internal/server/repositories/users"
)

// InMemoryRepositoryManager serves development runs without a database.
// The db arguments are ignored.
type InMemoryRepositoryManager struct {
	users   *users.InMemoryRepository
	records *records.InMemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users:   users.NewInMemoryRepository(),
		records: records.NewInMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) Records(db dbx.DBTX) records.Repository {
	return m.records
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}
