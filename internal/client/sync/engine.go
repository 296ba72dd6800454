// Package sync orchestrates movement between the local store and the
// remote record: pull-on-login, debounced push-on-mutation, a single-flight
// guard that drops overlapping pushes, and process-wide status reporting.
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/avasiljevs/healthsync/internal/client/identity"
	"github.com/avasiljevs/healthsync/internal/client/remote"
	"github.com/avasiljevs/healthsync/internal/client/store"
	"github.com/avasiljevs/healthsync/internal/common"
	"github.com/avasiljevs/healthsync/internal/logging"
)

// Status is the process-wide sync state observed by the UI. Transitions
// happen only inside the engine: idle → syncing → synced|error, and error
// is always escapable by the next successful attempt.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusSyncing Status = "syncing"
	StatusSynced  Status = "synced"
	StatusError   Status = "error"
)

// GuardState is the explicit single-flight state. The guard is not a
// queue: a push attempted while another is in flight is dropped, relying
// on the debounce timer to schedule a later attempt.
type GuardState int

const (
	GuardIdle GuardState = iota
	GuardInFlight
)

// DefaultDebounce is the quiet period after a mutation before the
// auto-push fires.
const DefaultDebounce = 3 * time.Second

// Options configures an Engine. Device identity and environment probes are
// passed in explicitly so the engine is testable without ambient globals.
type Options struct {
	// DeviceID marks presence pushes; never used for authorization.
	DeviceID string
	// Debounce overrides DefaultDebounce when positive.
	Debounce time.Duration
	// Online reports current connectivity. Nil means always online.
	Online func() bool
	// Session returns the authenticated session, or nil when logged out.
	Session func() *identity.Session
	// OnStatusChange observes every status transition. Optional.
	OnStatusChange func(Status)
}

// PushOptions tunes a single push call.
type PushOptions struct {
	// Bypass lets the call run regardless of the single-flight guard.
	// It exists for the lightweight device-presence ping, which must not
	// be starved by a full-data push nor itself block one.
	Bypass bool
}

// Engine coordinates the store, the remote client and the session state.
type Engine struct {
	remote remote.Client
	store  *store.Store
	log    logging.Logger
	opts   Options

	mu           sync.Mutex
	status       Status
	guard        GuardState
	lastSyncedAt time.Time
	timer        *time.Timer
}

// NewEngine builds an engine. The caller wires store change notifications
// to NotifyChange.
func NewEngine(rc remote.Client, st *store.Store, log logging.Logger, opts Options) *Engine {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	return &Engine{
		remote: rc,
		store:  st,
		log:    log,
		opts:   opts,
		status: StatusIdle,
	}
}

// Status returns the current sync status.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Guard returns the single-flight state.
func (e *Engine) Guard() GuardState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.guard
}

// LastSyncedAt returns the time of the last successful sync, zero if none.
func (e *Engine) LastSyncedAt() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastSyncedAt
}

func (e *Engine) setStatus(s Status) {
	e.mu.Lock()
	changed := e.status != s
	e.status = s
	fn := e.opts.OnStatusChange
	e.mu.Unlock()
	if changed && fn != nil {
		fn(s)
	}
}

// ResetStatus returns the engine to idle. Used on logout.
func (e *Engine) ResetStatus() {
	e.StopAutoPush()
	e.setStatus(StatusIdle)
}

func (e *Engine) online() bool {
	return e.opts.Online == nil || e.opts.Online()
}

func (e *Engine) session() *identity.Session {
	if e.opts.Session == nil {
		return nil
	}
	return e.opts.Session()
}

// Push saves a partial payload to the remote record. It is a silent no-op
// when offline or unauthenticated (status is left untouched), and is
// dropped entirely, not queued, when another push is in flight and
// opts.Bypass is false. Failed pushes are not retried here; the next
// mutation's debounce or a manual sync is the retry path.
func (e *Engine) Push(ctx context.Context, fields remote.Fields, opts PushOptions) error {
	sess := e.session()
	if sess == nil || !e.online() {
		return nil
	}

	e.mu.Lock()
	if e.guard == GuardInFlight && !opts.Bypass {
		e.mu.Unlock()
		e.log.Debug(ctx, "push dropped, another push in flight")
		return nil
	}
	if !opts.Bypass {
		e.guard = GuardInFlight
	}
	e.mu.Unlock()

	if !opts.Bypass {
		// the guard must never stay wedged, whatever the save does
		defer func() {
			e.mu.Lock()
			e.guard = GuardIdle
			e.mu.Unlock()
		}()
	}

	e.setStatus(StatusSyncing)

	if _, err := e.remote.SaveRecord(ctx, sess.AccountID, fields); err != nil {
		e.setStatus(StatusError)
		return fmt.Errorf("push failed: %w", err)
	}

	e.mu.Lock()
	e.lastSyncedAt = time.Now()
	e.mu.Unlock()
	e.setStatus(StatusSynced)
	return nil
}

// PushSnapshot pushes the full local state as a partial update of the data
// field groups, leaving presence fields untouched.
func (e *Engine) PushSnapshot(ctx context.Context) error {
	fields, err := snapshotFields(e.store.Snapshot())
	if err != nil {
		return err
	}
	return e.Push(ctx, fields, PushOptions{})
}

// PushPresence records which device is currently active. It bypasses the
// guard so a long full-data push cannot starve it.
func (e *Engine) PushPresence(ctx context.Context) error {
	fields, err := presenceFields(e.opts.DeviceID)
	if err != nil {
		return err
	}
	return e.Push(ctx, fields, PushOptions{Bypass: true})
}

// Pull replaces the local store with the remote record. Unlike push, pull
// is a full snapshot load, not a field-level merge. For an account with no
// record yet, defaults are seeded locally and pushed to materialize a
// first record.
func (e *Engine) Pull(ctx context.Context) error {
	if !e.online() {
		return common.ErrNetworkUnavailable
	}
	sess := e.session()
	if sess == nil {
		return common.ErrUnauthorized
	}

	e.setStatus(StatusSyncing)

	rec, err := e.remote.LoadRecord(ctx, sess.AccountID)
	if err != nil {
		e.setStatus(StatusError)
		return fmt.Errorf("pull failed: %w", err)
	}

	if rec == nil {
		e.log.Info(ctx, "no remote data, seeding defaults", "account_id", sess.AccountID)
		e.store.LoadDefaults()
		return e.PushSnapshot(ctx)
	}

	st, err := stateFromFields(rec.Fields)
	if err != nil {
		e.setStatus(StatusError)
		return fmt.Errorf("pull failed: %w", err)
	}
	e.store.ReplaceAll(st)

	e.mu.Lock()
	e.lastSyncedAt = time.Now()
	e.mu.Unlock()
	e.setStatus(StatusSynced)
	return nil
}

// NotifyChange restarts the debounce timer. Only the trailing edge after a
// quiet period pushes, so a burst of mutations coalesces into one push.
// Changes made while logged out, offline, or before the first load are
// ignored.
func (e *Engine) NotifyChange() {
	if e.session() == nil || !e.online() || !e.store.Loaded() {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.opts.Debounce, func() {
		ctx := context.Background()
		if err := e.PushSnapshot(ctx); err != nil {
			// background pushes fail into error status only
			e.log.Error(ctx, "auto push failed", "error", err)
		}
	})
}

// StopAutoPush cancels any pending debounced push.
func (e *Engine) StopAutoPush() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// snapshotFields converts local state into the record's data field groups.
func snapshotFields(st *store.State) (remote.Fields, error) {
	fields := remote.Fields{}
	for key, v := range map[string]any{
		remote.FieldMembers:      st.Members,
		remote.FieldActiveMember: st.ActiveMemberID,
		remote.FieldDatasets:     st.Datasets,
		remote.FieldDictionaries: st.Dictionary,
		remote.FieldLastUpdated:  time.Now().UTC().Format(time.RFC3339),
	} {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", key, err)
		}
		fields[key] = b
	}
	return fields, nil
}

// presenceFields builds the lightweight device-activity payload.
func presenceFields(deviceID string) (remote.Fields, error) {
	fields := remote.Fields{}
	for key, v := range map[string]any{
		remote.FieldDeviceID:     deviceID,
		remote.FieldLastActiveAt: time.Now().UTC().Format(time.RFC3339),
	} {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", key, err)
		}
		fields[key] = b
	}
	return fields, nil
}

// stateFromFields decodes the data field groups of a remote record.
// Missing groups stay zero; the store fills gaps with defaults.
func stateFromFields(fields remote.Fields) (*store.State, error) {
	st := &store.State{}
	for key, dst := range map[string]any{
		remote.FieldMembers:      &st.Members,
		remote.FieldActiveMember: &st.ActiveMemberID,
		remote.FieldDatasets:     &st.Datasets,
		remote.FieldDictionaries: &st.Dictionary,
	} {
		raw, ok := fields[key]
		if !ok || len(raw) == 0 {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", key, err)
		}
	}
	return st, nil
}
