package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avasiljevs/healthsync/internal/client/config"
	"github.com/avasiljevs/healthsync/internal/client/database"
	"github.com/avasiljevs/healthsync/internal/client/identity"
	"github.com/avasiljevs/healthsync/internal/client/remote"
	"github.com/avasiljevs/healthsync/internal/client/repositories/metadata"
	"github.com/avasiljevs/healthsync/internal/client/store"
	syncengine "github.com/avasiljevs/healthsync/internal/client/sync"
	"github.com/avasiljevs/healthsync/internal/common"
	"github.com/avasiljevs/healthsync/internal/logging"
)

// fakeRemote is a stateful in-memory backend. It mirrors the real save
// semantics closely enough for lifecycle tests: at most one record, merged
// field groups, session token required for record access.
type fakeRemote struct {
	offline     bool
	token       string
	account     *remote.Account
	rec         *remote.Record
	rejectToken bool

	loginCalls  int
	signupCalls int
}

func (f *fakeRemote) Ping(ctx context.Context) error {
	if f.offline {
		return common.ErrNetworkUnavailable
	}
	return nil
}

func (f *fakeRemote) SignUp(ctx context.Context, username, password string) (*remote.Account, error) {
	f.signupCalls++
	f.account = &remote.Account{ID: "acc1", Username: username, SessionToken: "tok1"}
	return f.account, nil
}

func (f *fakeRemote) Login(ctx context.Context, username, password string) (*remote.Account, error) {
	f.loginCalls++
	if f.account == nil || f.account.Username != username {
		return nil, fmt.Errorf("%w: invalid credentials", common.ErrUnauthorized)
	}
	return f.account, nil
}

func (f *fakeRemote) CurrentAccount(ctx context.Context) (*remote.Account, error) {
	if f.rejectToken || f.account == nil {
		return nil, common.ErrUnauthorized
	}
	return f.account, nil
}

func (f *fakeRemote) SetSessionToken(token string) { f.token = token }

func (f *fakeRemote) QueryRecords(ctx context.Context, accountID string) ([]*remote.Record, error) {
	if f.rec == nil {
		return nil, nil
	}
	return []*remote.Record{f.rec}, nil
}

func (f *fakeRemote) CreateRecord(ctx context.Context, accountID string, fields remote.Fields) (*remote.Record, error) {
	f.rec = &remote.Record{ID: "rec1", AccountID: accountID, CreatedAt: time.Now(), UpdatedAt: time.Now(), Fields: fields.Clone()}
	return f.rec, nil
}

func (f *fakeRemote) UpdateRecord(ctx context.Context, recordID string, fields remote.Fields) (*remote.Record, error) {
	f.rec.Fields = fields.Clone()
	f.rec.UpdatedAt = time.Now()
	return f.rec, nil
}

func (f *fakeRemote) DeleteRecord(ctx context.Context, recordID string) error {
	f.rec = nil
	return nil
}

func (f *fakeRemote) SaveRecord(ctx context.Context, accountID string, partial remote.Fields) (*remote.Record, error) {
	if f.rejectToken {
		return nil, common.ErrUnauthorized
	}
	if f.rec == nil {
		return f.CreateRecord(ctx, accountID, partial)
	}
	merged := f.rec.Fields.Clone()
	for k, v := range partial {
		merged[k] = v
	}
	return f.UpdateRecord(ctx, f.rec.ID, merged)
}

func (f *fakeRemote) LoadRecord(ctx context.Context, accountID string) (*remote.Record, error) {
	if f.rejectToken {
		return nil, common.ErrUnauthorized
	}
	return f.rec, nil
}

var _ remote.Client = (*fakeRemote)(nil)

func testApp(t *testing.T, rc remote.Client) (*App, *sql.DB) {
	t.Helper()
	ctx := context.Background()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := database.Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	cfg.LoadDefaults()
	a, err := newApp(ctx, cfg, logging.NewJSON(io.Discard), rc, db)
	require.NoError(t, err)
	return a, db
}

func seededMembersFields(t *testing.T) remote.Fields {
	t.Helper()
	members, err := json.Marshal([]store.Member{{ID: "m1", Name: "Alice", Relation: "self"}})
	require.NoError(t, err)
	active, err := json.Marshal("m1")
	require.NoError(t, err)
	return remote.Fields{
		remote.FieldMembers:      members,
		remote.FieldActiveMember: active,
	}
}

func TestSignUp_ValidationBeforeNetwork(t *testing.T) {
	ctx := context.Background()
	rc := &fakeRemote{}
	a, _ := testApp(t, rc)

	tests := []struct {
		name     string
		username string
		password string
		confirm  string
	}{
		{"empty username", "", "secret1", "secret1"},
		{"empty password", "alice", "", ""},
		{"short password", "alice", "abc", "abc"},
		{"mismatch", "alice", "secret1", "secret2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := a.SignUp(ctx, tt.username, tt.password, tt.confirm)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
	assert.Equal(t, 0, rc.signupCalls)
}

func TestSignUp_SeedsEmptyAccount(t *testing.T) {
	ctx := context.Background()
	rc := &fakeRemote{}
	a, _ := testApp(t, rc)

	require.NoError(t, a.SignUp(ctx, "alice", "secret1", "secret1"))

	require.NotNil(t, a.Session())
	assert.Equal(t, "tok1", rc.token)

	// the pull found no record and seeded defaults both locally and remotely
	assert.True(t, a.Store().Loaded())
	active, ok := a.Store().ActiveMember()
	require.True(t, ok)
	assert.Equal(t, store.DefaultMemberID, active.ID)
	require.NotNil(t, rc.rec)
	assert.Contains(t, rc.rec.Fields, remote.FieldMembers)
}

func TestLogin_PullsRemoteState(t *testing.T) {
	ctx := context.Background()
	rc := &fakeRemote{
		account: &remote.Account{ID: "acc1", Username: "alice", SessionToken: "tok1"},
		rec:     &remote.Record{ID: "rec1", AccountID: "acc1", UpdatedAt: time.Now(), Fields: nil},
	}
	rc.rec.Fields = seededMembersFields(t)
	a, db := testApp(t, rc)

	require.NoError(t, a.Login(ctx, "alice", "secret1"))

	members := a.Store().Members()
	require.Len(t, members, 1)
	assert.Equal(t, "Alice", members[0].Name)
	assert.Equal(t, syncengine.StatusSynced, a.Engine().Status())

	// the session survived to disk
	sess, err := identity.NewManager(metadata.NewSQLiteRepository(db)).LoadSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "acc1", sess.AccountID)
}

func TestLogin_Validation(t *testing.T) {
	ctx := context.Background()
	rc := &fakeRemote{}
	a, _ := testApp(t, rc)

	assert.ErrorIs(t, a.Login(ctx, "", "x"), common.ErrValidation)
	assert.ErrorIs(t, a.Login(ctx, "alice", ""), common.ErrValidation)
	assert.Equal(t, 0, rc.loginCalls)
}

func TestLogin_Offline(t *testing.T) {
	ctx := context.Background()
	rc := &fakeRemote{offline: true}
	a, _ := testApp(t, rc)

	err := a.Login(ctx, "alice", "secret1")
	assert.ErrorIs(t, err, common.ErrNetworkUnavailable)
	assert.Equal(t, 0, rc.loginCalls)
}

func TestBootstrap_RestoresSession(t *testing.T) {
	ctx := context.Background()
	rc := &fakeRemote{
		account: &remote.Account{ID: "acc1", Username: "alice", SessionToken: "tok1"},
		rec:     &remote.Record{ID: "rec1", AccountID: "acc1", UpdatedAt: time.Now()},
	}
	rc.rec.Fields = seededMembersFields(t)
	a, db := testApp(t, rc)

	mgr := identity.NewManager(metadata.NewSQLiteRepository(db))
	require.NoError(t, mgr.SaveSession(ctx, identity.Session{AccountID: "acc1", Token: "tok1", Username: "alice"}))

	require.NoError(t, a.Bootstrap(ctx))

	require.NotNil(t, a.Session())
	assert.Equal(t, "alice", a.Session().Username)
	assert.True(t, a.Store().Loaded())
	assert.False(t, a.MustRelogin())
}

func TestBootstrap_RejectedSessionCleared(t *testing.T) {
	ctx := context.Background()
	rc := &fakeRemote{rejectToken: true}
	a, db := testApp(t, rc)

	mgr := identity.NewManager(metadata.NewSQLiteRepository(db))
	require.NoError(t, mgr.SaveSession(ctx, identity.Session{AccountID: "acc1", Token: "stale", Username: "alice"}))

	require.NoError(t, a.Bootstrap(ctx))

	assert.Nil(t, a.Session())
	sess, err := mgr.LoadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestBootstrap_VersionGateForcesRelogin(t *testing.T) {
	ctx := context.Background()
	rc := &fakeRemote{account: &remote.Account{ID: "acc1", Username: "alice", SessionToken: "tok1"}}
	a, db := testApp(t, rc)

	repo := metadata.NewSQLiteRepository(db)
	mgr := identity.NewManager(repo)
	require.NoError(t, mgr.SaveSession(ctx, identity.Session{AccountID: "acc1", Token: "tok1", Username: "alice"}))
	require.NoError(t, repo.Set(ctx, "app_version", []byte("v1.1")))

	require.NoError(t, a.Bootstrap(ctx))

	assert.True(t, a.MustRelogin())
	assert.Nil(t, a.Session())
	sess, err := mgr.LoadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestBootstrap_Offline(t *testing.T) {
	ctx := context.Background()
	a, _ := testApp(t, &fakeRemote{offline: true})

	assert.ErrorIs(t, a.Bootstrap(ctx), common.ErrNetworkUnavailable)
	assert.False(t, a.IsOnline())
}

func TestLogout_ClearsEverything(t *testing.T) {
	ctx := context.Background()
	rc := &fakeRemote{}
	a, db := testApp(t, rc)

	require.NoError(t, a.SignUp(ctx, "alice", "secret1", "secret1"))
	recBefore := rc.rec

	require.NoError(t, a.Logout(ctx))

	assert.Nil(t, a.Session())
	assert.False(t, a.Store().Loaded())
	assert.Equal(t, syncengine.StatusIdle, a.Engine().Status())
	// logout never pushes, the remote record is untouched
	assert.Equal(t, recBefore, rc.rec)

	sess, err := identity.NewManager(metadata.NewSQLiteRepository(db)).LoadSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestSyncNow_RequiresOnlineAndSession(t *testing.T) {
	ctx := context.Background()
	rc := &fakeRemote{}
	a, _ := testApp(t, rc)

	assert.ErrorIs(t, a.SyncNow(ctx), common.ErrNetworkUnavailable)

	a.CheckOnline(ctx)
	assert.ErrorIs(t, a.SyncNow(ctx), common.ErrUnauthorized)

	require.NoError(t, a.SignUp(ctx, "alice", "secret1", "secret1"))
	assert.NoError(t, a.SyncNow(ctx))
}
