// Package identity owns the persisted client identity: the authenticated
// session, the per-installation device id, and the last-seen app version
// used by the startup version gate.
package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/avasiljevs/healthsync/internal/client/repositories/metadata"
	"github.com/avasiljevs/healthsync/internal/versionx"
)

// Metadata keys. Stable across releases; the version gate is the only
// schema-versioning mechanism this store has.
const (
	keyAccountID    = "account_id"
	keySessionToken = "session_token"
	keyUsername     = "username"
	keyDeviceID     = "device_id"
	keyAppVersion   = "app_version"
)

// Session is the persisted authenticated identity.
type Session struct {
	AccountID string
	Token     string
	Username  string
}

// Manager reads and writes identity state through the metadata repository.
type Manager struct {
	repo metadata.Repository
}

func NewManager(repo metadata.Repository) *Manager {
	return &Manager{repo: repo}
}

// SaveSession persists the session so restarts skip the login prompt.
func (m *Manager) SaveSession(ctx context.Context, s Session) error {
	if err := m.repo.Set(ctx, keyAccountID, []byte(s.AccountID)); err != nil {
		return err
	}
	if err := m.repo.Set(ctx, keySessionToken, []byte(s.Token)); err != nil {
		return err
	}
	return m.repo.Set(ctx, keyUsername, []byte(s.Username))
}

// LoadSession returns the persisted session, or nil when none is stored.
// Validity is not checked here; the first pull decides whether the token
// still works.
func (m *Manager) LoadSession(ctx context.Context) (*Session, error) {
	accountID, err := m.repo.Get(ctx, keyAccountID)
	if err != nil {
		return nil, err
	}
	token, err := m.repo.Get(ctx, keySessionToken)
	if err != nil {
		return nil, err
	}
	if len(accountID) == 0 || len(token) == 0 {
		return nil, nil
	}
	username, err := m.repo.Get(ctx, keyUsername)
	if err != nil {
		return nil, err
	}
	return &Session{
		AccountID: string(accountID),
		Token:     string(token),
		Username:  string(username),
	}, nil
}

// ClearSession removes the persisted identity. The device id and version
// marker survive; they belong to the installation, not the account.
func (m *Manager) ClearSession(ctx context.Context) error {
	if err := m.repo.Delete(ctx, keyAccountID); err != nil {
		return err
	}
	if err := m.repo.Delete(ctx, keySessionToken); err != nil {
		return err
	}
	return m.repo.Delete(ctx, keyUsername)
}

// DeviceID returns the stable per-installation identifier, generating and
// persisting one on first use. It is never rotated and is used only as a
// diagnostic marker on remote records, never for authorization.
func (m *Manager) DeviceID(ctx context.Context) (string, error) {
	stored, err := m.repo.Get(ctx, keyDeviceID)
	if err != nil {
		return "", err
	}
	if len(stored) > 0 {
		return string(stored), nil
	}

	id := "device_" + uuid.NewString()
	if err := m.repo.Set(ctx, keyDeviceID, []byte(id)); err != nil {
		return "", fmt.Errorf("failed to persist device id: %w", err)
	}
	return id, nil
}

// CheckVersion runs the startup version gate. When the running client is
// newer than the version that last wrote the session, the persisted session
// is cleared and mustRelogin is true: stale credentials must not be replayed
// against a schema the new client no longer understands. Equal or
// locally-older stored versions leave the session alone. The stored marker
// is always advanced to the running version.
func (m *Manager) CheckVersion(ctx context.Context, running string) (mustRelogin bool, err error) {
	stored, err := m.repo.Get(ctx, keyAppVersion)
	if err != nil {
		return false, err
	}

	if len(stored) > 0 && string(stored) != running {
		if versionx.Compare(running, string(stored)) > 0 {
			if err := m.ClearSession(ctx); err != nil {
				return false, err
			}
			mustRelogin = true
		}
	}

	if err := m.repo.Set(ctx, keyAppVersion, []byte(running)); err != nil {
		return mustRelogin, err
	}
	return mustRelogin, nil
}
