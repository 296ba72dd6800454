package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/avasiljevs/healthsync/internal/common"
	"github.com/avasiljevs/healthsync/internal/dbx"
	"github.com/avasiljevs/healthsync/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, accountID string, fields json.RawMessage) (*models.Record, error) {
	query :=
		`INSERT INTO records (account_id, fields)
		 VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`

	rec := &models.Record{AccountID: accountID, Fields: fields}
	err := r.db.QueryRowContext(ctx, query, accountID, fields).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return rec, nil
}

func (r *PostgresRepository) Update(ctx context.Context, accountID, recordID string, fields json.RawMessage) (*models.Record, error) {
	query :=
		`UPDATE records SET fields = $1, updated_at = now()
		 WHERE id = $2 AND account_id = $3
		 RETURNING id, account_id, created_at, updated_at, fields`

	rec := &models.Record{}
	err := r.db.QueryRowContext(ctx, query, fields, recordID, accountID).
		Scan(&rec.ID, &rec.AccountID, &rec.CreatedAt, &rec.UpdatedAt, &rec.Fields)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return rec, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, accountID, recordID string) error {
	query := `DELETE FROM records WHERE id = $1 AND account_id = $2`

	res, err := r.db.ExecContext(ctx, query, recordID, accountID)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) ListByAccount(ctx context.Context, accountID string) ([]*models.Record, error) {
	query :=
		`SELECT id, account_id, created_at, updated_at, fields FROM records
		 WHERE account_id = $1
		 ORDER BY updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var recs []*models.Record
	for rows.Next() {
		rec := &models.Record{}
		if err := rows.Scan(&rec.ID, &rec.AccountID, &rec.CreatedAt, &rec.UpdatedAt, &rec.Fields); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}

	return recs, rows.Err()
}
