// Package app wires the client together and owns the account lifecycle:
// startup sequencing (connectivity check, version gate, session restore,
// initial pull), login/signup/logout, and the online status watcher.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

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

// MinPasswordLength is enforced client-side on signup, before any network
// call.
const MinPasswordLength = 6

// App is the client application core shared by the CLI commands.
type App struct {
	cfg      *config.Config
	log      logging.Logger
	db       *sql.DB
	store    *store.Store
	remote   remote.Client
	identity *identity.Manager
	engine   *syncengine.Engine

	online atomic.Bool

	mu          sync.Mutex
	session     *identity.Session
	mustRelogin bool
}

// NewApp opens the local database and builds the full client stack.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := database.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("database init error: %w", err)
	}

	rc := remote.NewRESTClient(cfg.ServerEndpointAddr, log)
	return newApp(ctx, cfg, log, rc, db)
}

// newApp finishes construction with injectable collaborators; tests use it
// with a fake remote and an in-memory database.
func newApp(ctx context.Context, cfg *config.Config, log logging.Logger, rc remote.Client, db *sql.DB) (*App, error) {
	a := &App{
		cfg:      cfg,
		log:      log,
		db:       db,
		store:    store.New(),
		remote:   rc,
		identity: identity.NewManager(metadata.NewSQLiteRepository(db)),
	}

	deviceID, err := a.identity.DeviceID(ctx)
	if err != nil {
		return nil, fmt.Errorf("device id error: %w", err)
	}

	a.engine = syncengine.NewEngine(rc, a.store, log, syncengine.Options{
		DeviceID: deviceID,
		Debounce: cfg.DebounceInterval,
		Online:   a.IsOnline,
		Session:  a.Session,
	})
	a.store.SetOnChange(a.engine.NotifyChange)

	return a, nil
}

// Store exposes the local dataset to the UI layer.
func (a *App) Store() *store.Store { return a.store }

// Engine exposes sync status and manual sync to the UI layer.
func (a *App) Engine() *syncengine.Engine { return a.engine }

// Session returns the current authenticated session, or nil.
func (a *App) Session() *identity.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

// IsOnline reports the last observed connectivity state.
func (a *App) IsOnline() bool { return a.online.Load() }

// MustRelogin reports whether the version gate invalidated the stored
// session on startup.
func (a *App) MustRelogin() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mustRelogin
}

func (a *App) setSession(s *identity.Session) {
	a.mu.Lock()
	a.session = s
	a.mu.Unlock()
	if s != nil {
		a.remote.SetSessionToken(s.Token)
	} else {
		a.remote.SetSessionToken("")
	}
}

// CheckOnline probes the backend once and records the result.
func (a *App) CheckOnline(ctx context.Context) bool {
	err := a.remote.Ping(ctx)
	a.online.Store(err == nil)
	return err == nil
}

// Bootstrap runs the startup sequence: connectivity check, version gate,
// session restore, initial pull. A restored session whose token the server
// rejects is discarded; everything else leaves the app ready for login.
func (a *App) Bootstrap(ctx context.Context) error {
	if !a.CheckOnline(ctx) {
		a.log.Warn(ctx, "backend unreachable on startup")
		return common.ErrNetworkUnavailable
	}

	mustRelogin, err := a.identity.CheckVersion(ctx, common.AppVersion)
	if err != nil {
		return fmt.Errorf("version gate error: %w", err)
	}
	if mustRelogin {
		a.mu.Lock()
		a.mustRelogin = true
		a.mu.Unlock()
		a.log.Info(ctx, "client upgraded, session invalidated", "version", common.AppVersion)
		return nil
	}

	sess, err := a.identity.LoadSession(ctx)
	if err != nil {
		return fmt.Errorf("session restore error: %w", err)
	}
	if sess == nil {
		return nil
	}

	// validity of the restored token is decided by the first pull
	a.setSession(sess)
	if err := a.engine.Pull(ctx); err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			a.log.Info(ctx, "stored session rejected, clearing")
			return a.Logout(ctx)
		}
		return err
	}

	if err := a.engine.PushPresence(ctx); err != nil {
		a.log.Warn(ctx, "presence push failed", "error", err)
	}
	return nil
}

// Login authenticates, persists the session, pulls remote state and marks
// this device active.
func (a *App) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", common.ErrValidation)
	}
	if !a.IsOnline() && !a.CheckOnline(ctx) {
		return common.ErrNetworkUnavailable
	}

	acc, err := a.remote.Login(ctx, username, password)
	if err != nil {
		return err
	}

	sess := identity.Session{AccountID: acc.ID, Token: acc.SessionToken, Username: acc.Username}
	if err := a.identity.SaveSession(ctx, sess); err != nil {
		return fmt.Errorf("session save error: %w", err)
	}
	a.setSession(&sess)
	a.mu.Lock()
	a.mustRelogin = false
	a.mu.Unlock()

	if err := a.engine.Pull(ctx); err != nil {
		// roll the identity back so a half-logged-in state never persists
		_ = a.Logout(ctx)
		return err
	}
	if err := a.engine.PushPresence(ctx); err != nil {
		a.log.Warn(ctx, "presence push failed", "error", err)
	}
	return nil
}

// SignUp validates the form client-side, creates the account and brings it
// to the same state Login ends in. The empty account is seeded with
// defaults by the pull.
func (a *App) SignUp(ctx context.Context, username, password, confirm string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", common.ErrValidation)
	}
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrValidation, MinPasswordLength)
	}
	if password != confirm {
		return fmt.Errorf("%w: passwords do not match", common.ErrValidation)
	}
	if !a.IsOnline() && !a.CheckOnline(ctx) {
		return common.ErrNetworkUnavailable
	}

	acc, err := a.remote.SignUp(ctx, username, password)
	if err != nil {
		return err
	}

	sess := identity.Session{AccountID: acc.ID, Token: acc.SessionToken, Username: acc.Username}
	if err := a.identity.SaveSession(ctx, sess); err != nil {
		return fmt.Errorf("session save error: %w", err)
	}
	a.setSession(&sess)

	if err := a.engine.Pull(ctx); err != nil {
		_ = a.Logout(ctx)
		return err
	}
	if err := a.engine.PushPresence(ctx); err != nil {
		a.log.Warn(ctx, "presence push failed", "error", err)
	}
	return nil
}

// Logout clears the persisted identity, the in-memory session and the
// local store, and resets sync status to idle. It deliberately does not
// push first: unsynced local edits at logout time are discarded.
func (a *App) Logout(ctx context.Context) error {
	a.engine.StopAutoPush()
	if err := a.identity.ClearSession(ctx); err != nil {
		return fmt.Errorf("session clear error: %w", err)
	}
	a.setSession(nil)
	a.store.Reset()
	a.engine.ResetStatus()
	return nil
}

// SyncNow pushes the current snapshot immediately, for an explicit user
// action. Unlike the debounced background path, errors surface to the
// caller.
func (a *App) SyncNow(ctx context.Context) error {
	if !a.IsOnline() {
		return common.ErrNetworkUnavailable
	}
	if a.Session() == nil {
		return common.ErrUnauthorized
	}
	return a.engine.PushSnapshot(ctx)
}

// StartOnlineWatcher periodically probes the backend and records
// reachability until ctx is cancelled.
func (a *App) StartOnlineWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			was := a.IsOnline()
			now := a.CheckOnline(pingCtx)
			cancel()

			if was != now {
				if now {
					a.log.Info(ctx, "back online")
				} else {
					a.log.Warn(ctx, "went offline")
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

// Close releases the engine timer and the local database.
func (a *App) Close() error {
	a.engine.StopAutoPush()
	return a.db.Close()
}
