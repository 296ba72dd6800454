package records

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avasiljevs/healthsync/internal/common"
	"github.com/avasiljevs/healthsync/internal/server/models"
)

// InMemoryRepository keeps records in a map. Used for development runs
// without a database and in handler tests.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records map[string]*models.Record
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{records: make(map[string]*models.Record)}
}

func cloneRecord(rec *models.Record) *models.Record {
	out := *rec
	out.Fields = append(json.RawMessage(nil), rec.Fields...)
	return &out
}

func (r *InMemoryRepository) Create(ctx context.Context, accountID string, fields json.RawMessage) (*models.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	rec := &models.Record{
		ID:        uuid.NewString(),
		AccountID: accountID,
		CreatedAt: now,
		UpdatedAt: now,
		Fields:    append(json.RawMessage(nil), fields...),
	}
	r.records[rec.ID] = rec

	return cloneRecord(rec), nil
}

func (r *InMemoryRepository) Update(ctx context.Context, accountID, recordID string, fields json.RawMessage) (*models.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[recordID]
	if !ok || rec.AccountID != accountID {
		return nil, common.ErrNotFound
	}

	rec.Fields = append(json.RawMessage(nil), fields...)
	rec.UpdatedAt = time.Now()

	return cloneRecord(rec), nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, accountID, recordID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[recordID]
	if !ok || rec.AccountID != accountID {
		return common.ErrNotFound
	}
	delete(r.records, recordID)
	return nil
}

func (r *InMemoryRepository) ListByAccount(ctx context.Context, accountID string) ([]*models.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var recs []*models.Record
	for _, rec := range r.records {
		if rec.AccountID == accountID {
			recs = append(recs, cloneRecord(rec))
		}
	}
	return recs, nil
}
