package records

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avasiljevs/healthsync/internal/common"
)

func TestInMemory_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	created, err := repo.Create(ctx, "acc1", json.RawMessage(`{"a":1}`))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.False(t, created.UpdatedAt.IsZero())

	updated, err := repo.Update(ctx, "acc1", created.ID, json.RawMessage(`{"a":2}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(updated.Fields))

	list, err := repo.ListByAccount(ctx, "acc1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, "acc1", created.ID))

	list, err = repo.ListByAccount(ctx, "acc1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestInMemory_AccountScoping(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	created, err := repo.Create(ctx, "acc1", json.RawMessage(`{}`))
	require.NoError(t, err)

	// another account's record id behaves like a missing one
	_, err = repo.Update(ctx, "acc2", created.ID, json.RawMessage(`{}`))
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = repo.Delete(ctx, "acc2", created.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	list, err := repo.ListByAccount(ctx, "acc2")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestInMemory_AllowsMultipleRecordsPerAccount(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	_, err := repo.Create(ctx, "acc1", json.RawMessage(`{"n":1}`))
	require.NoError(t, err)
	_, err = repo.Create(ctx, "acc1", json.RawMessage(`{"n":2}`))
	require.NoError(t, err)

	list, err := repo.ListByAccount(ctx, "acc1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestInMemory_ClonesOnReturn(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	created, err := repo.Create(ctx, "acc1", json.RawMessage(`{"a":1}`))
	require.NoError(t, err)

	created.Fields[2] = 'x'

	list, err := repo.ListByAccount(ctx, "acc1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(list[0].Fields))
}
