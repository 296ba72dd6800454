package identity

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/avasiljevs/healthsync/internal/client/repositories/metadata"
)

func setupManager(t *testing.T) *Manager {
	t.Helper()
	db, err := sql.Open("sqlite", "file:identity_"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB NOT NULL);`)
	require.NoError(t, err)

	return NewManager(metadata.NewSQLiteRepository(db))
}

func TestManager_SessionRoundtrip(t *testing.T) {
	m := setupManager(t)
	ctx := context.Background()

	s, err := m.LoadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)

	require.NoError(t, m.SaveSession(ctx, Session{AccountID: "u1", Token: "tok", Username: "anna"}))

	s, err = m.LoadSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "u1", s.AccountID)
	assert.Equal(t, "tok", s.Token)
	assert.Equal(t, "anna", s.Username)

	require.NoError(t, m.ClearSession(ctx))
	s, err = m.LoadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestManager_DeviceIDIsStable(t *testing.T) {
	m := setupManager(t)
	ctx := context.Background()

	first, err := m.DeviceID(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first, "device_"))

	second, err := m.DeviceID(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestManager_DeviceIDSurvivesLogout(t *testing.T) {
	m := setupManager(t)
	ctx := context.Background()

	id, err := m.DeviceID(ctx)
	require.NoError(t, err)

	require.NoError(t, m.SaveSession(ctx, Session{AccountID: "u1", Token: "tok"}))
	require.NoError(t, m.ClearSession(ctx))

	after, err := m.DeviceID(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, after)
}

func TestManager_CheckVersion(t *testing.T) {
	tests := []struct {
		name            string
		stored          string
		running         string
		wantRelogin     bool
		wantSessionGone bool
	}{
		{name: "first run stores marker", stored: "", running: "v1.2"},
		{name: "same version keeps session", stored: "v1.2", running: "v1.2"},
		{name: "stored newer keeps session", stored: "v1.3", running: "v1.2"},
		{name: "upgrade forces relogin", stored: "v1.1", running: "v1.2", wantRelogin: true, wantSessionGone: true},
		{name: "major upgrade forces relogin", stored: "v1.9", running: "v2.0", wantRelogin: true, wantSessionGone: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := setupManager(t)
			ctx := context.Background()

			require.NoError(t, m.SaveSession(ctx, Session{AccountID: "u1", Token: "tok"}))
			if tc.stored != "" {
				require.NoError(t, m.repo.Set(ctx, keyAppVersion, []byte(tc.stored)))
			}

			mustRelogin, err := m.CheckVersion(ctx, tc.running)
			require.NoError(t, err)
			assert.Equal(t, tc.wantRelogin, mustRelogin)

			s, err := m.LoadSession(ctx)
			require.NoError(t, err)
			if tc.wantSessionGone {
				assert.Nil(t, s)
			} else {
				assert.NotNil(t, s)
			}

			// marker always advances to the running version
			stored, err := m.repo.Get(ctx, keyAppVersion)
			require.NoError(t, err)
			assert.Equal(t, tc.running, string(stored))
		})
	}
}
