package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/RaymondAhuren/swedru-konnect/internal/domain"
	"github.com/RaymondAhuren/swedru-konnect/internal/observability"
)

// State is the session lifecycle state
type State string

const (
	StateUnknown        State = "unknown"
	StateAuthenticating State = "authenticating"
	StateAuthenticated  State = "authenticated"
	StateAnonymous      State = "anonymous"
)

const (
	defaultRefreshInterval = 14 * time.Minute
	defaultMaxInactivity   = 60 * time.Minute
)

// Snapshot is the published, read-only view of the session
type Snapshot struct {
	State        State        `json:"state"`
	User         *domain.User `json:"user"`
	Loading      bool         `json:"loading"`
	Error        string       `json:"error,omitempty"`
	LastActivity time.Time    `json:"lastActivity"`
	CheckedOnce  bool         `json:"checkedOnce"`
}

// Authenticated reports whether the snapshot holds a user
func (s Snapshot) Authenticated() bool {
	return s.User != nil
}

// RequestFunc is one backend call run through the retry wrapper
type RequestFunc func(ctx context.Context) error

// Manager owns the authenticated-user identity and its lifecycle: login,
// logout, silent token refresh, activity tracking, and the retry-once
// wrapper for calls that fail on an expired session. It is the only
// component allowed to set the user; everything else reads snapshots.
type Manager struct {
	api domain.AuthAPI

	mu           sync.Mutex
	state        State
	user         *domain.User
	loading      bool
	lastErr      string
	lastActivity time.Time
	checkedOnce  bool
	refreshing   bool
	checkSeq     uint64

	subs    map[uint64]chan Snapshot
	nextSub uint64
	closed  chan struct{}

	// injected for tests
	now             func() time.Time
	refreshInterval time.Duration
	maxInactivity   time.Duration
}

// NewManager creates the session manager. One instance lives for the
// application's lifetime. Zero durations fall back to the defaults
// (14 min refresh, 60 min inactivity cutoff).
func NewManager(api domain.AuthAPI, refreshInterval, maxInactivity time.Duration) *Manager {
	if refreshInterval <= 0 {
		refreshInterval = defaultRefreshInterval
	}
	if maxInactivity <= 0 {
		maxInactivity = defaultMaxInactivity
	}

	m := &Manager{
		api:             api,
		state:           StateUnknown,
		subs:            make(map[uint64]chan Snapshot),
		closed:          make(chan struct{}),
		now:             time.Now,
		refreshInterval: refreshInterval,
		maxInactivity:   maxInactivity,
	}
	m.lastActivity = m.now()
	return m
}

// Snapshot returns a copy of the current session state
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:        m.state,
		Loading:      m.loading,
		Error:        m.lastErr,
		LastActivity: m.lastActivity,
		CheckedOnce:  m.checkedOnce,
	}
	if m.user != nil {
		u := *m.user
		snap.User = &u
	}
	return snap
}

// Subscribe returns a channel receiving a snapshot on every state change,
// plus a cancel func. Slow consumers miss intermediate snapshots rather
// than blocking the manager.
func (m *Manager) Subscribe() (<-chan Snapshot, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSub
	m.nextSub++
	ch := make(chan Snapshot, 16)
	m.subs[id] = ch

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (m *Manager) publishLocked() {
	snap := m.snapshotLocked()
	for _, ch := range m.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

func (m *Manager) setUserLocked(u *domain.User) {
	m.user = u
	if u != nil {
		m.state = StateAuthenticated
		observability.SessionAuthenticated.Set(1)
	} else {
		m.state = StateAnonymous
		observability.SessionAuthenticated.Set(0)
	}
}

// Touch records user activity. The gateway calls it on every view intent.
func (m *Manager) Touch() {
	m.mu.Lock()
	m.lastActivity = m.now()
	m.mu.Unlock()
}

// Login authenticates with the backend and loads the full user record.
// Empty credentials are rejected before any network call. The returned
// error distinguishes wrong credentials from transport failure.
func (m *Manager) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}

	m.mu.Lock()
	m.state = StateAuthenticating
	m.lastErr = ""
	m.publishLocked()
	m.mu.Unlock()

	err := m.do(ctx, func(ctx context.Context) error {
		return m.api.Login(ctx, email, password)
	}, true)
	if err != nil {
		return nil, m.failLogin(ctx, err)
	}

	user, err := m.api.CurrentUser(ctx)
	if err != nil {
		return nil, m.failLogin(ctx, err)
	}
	if user == nil {
		return nil, m.failLogin(ctx, domain.ErrInvalidCredentials)
	}

	m.mu.Lock()
	m.setUserLocked(user)
	m.lastErr = ""
	m.lastActivity = m.now()
	m.publishLocked()
	m.mu.Unlock()

	observability.FromContext(ctx).Info("login succeeded",
		slog.String("user_id", user.ID),
		slog.String("role", user.Role))
	return user, nil
}

// loginError carries the backend's rejection reason while matching
// ErrInvalidCredentials for errors.Is.
type loginError struct {
	msg string
}

func (e *loginError) Error() string          { return e.msg }
func (e *loginError) Unwrap() error          { return domain.ErrInvalidCredentials }
func (e *loginError) BackendMessage() string { return e.msg }

// failLogin records the failure reason, reverts to anonymous, and maps
// a credential rejection onto ErrInvalidCredentials for the caller.
func (m *Manager) failLogin(ctx context.Context, err error) error {
	msg := domain.ErrorMessage(err, "Failed to login")

	m.mu.Lock()
	m.setUserLocked(nil)
	m.lastErr = msg
	m.publishLocked()
	m.mu.Unlock()

	observability.FromContext(ctx).Warn("login failed", slog.String("reason", msg))
	if domain.IsAuthExpired(err) {
		return &loginError{msg: msg}
	}
	return err
}

// Logout invalidates the backend session. Local state is forced to
// anonymous even when the backend call fails; the server cookie's fate
// is the backend's problem.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.do(ctx, func(ctx context.Context) error {
		return m.api.Logout(ctx)
	}, false); err != nil {
		observability.FromContext(ctx).Warn("logout call failed",
			slog.String("error", err.Error()))
	}

	m.mu.Lock()
	m.setUserLocked(nil)
	m.lastErr = ""
	m.publishLocked()
	m.mu.Unlock()
}

// CheckAuth resolves the current identity from the backend. On failure it
// performs exactly one silent refresh and one retry before settling on
// anonymous. The loading flag and the initial-check latch only move when
// initial is true, so later checks never flash a loading state.
func (m *Manager) CheckAuth(ctx context.Context, initial bool) {
	m.mu.Lock()
	if initial {
		m.loading = true
	}
	m.lastErr = ""
	if m.state == StateUnknown {
		m.state = StateAuthenticating
	}
	m.checkSeq++
	seq := m.checkSeq
	m.publishLocked()
	m.mu.Unlock()

	user, err := m.api.CurrentUser(ctx)
	if err != nil {
		m.silentRefresh(ctx)
		user, err = m.api.CurrentUser(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if initial {
		m.loading = false
		m.checkedOnce = true
	}
	// Only the latest issued check may decide the user; a slower earlier
	// check resolving now would otherwise overwrite fresher state.
	if seq == m.checkSeq {
		if err != nil {
			m.setUserLocked(nil)
		} else {
			m.setUserLocked(user)
		}
	}
	m.publishLocked()
}

// Recheck re-runs the auth check silently. Views call this when the tab
// becomes visible again; it is a no-op until the initial check completed.
func (m *Manager) Recheck(ctx context.Context) {
	m.mu.Lock()
	done := m.checkedOnce
	m.mu.Unlock()
	if !done {
		return
	}
	m.CheckAuth(ctx, false)
}

// silentRefresh renews the session cookie and re-resolves the user.
// Concurrent calls coalesce into a no-op while one is in flight. It never
// surfaces an error: any failure settles the session on anonymous.
func (m *Manager) silentRefresh(ctx context.Context) {
	m.mu.Lock()
	if m.refreshing {
		m.mu.Unlock()
		return
	}
	m.refreshing = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.refreshing = false
		m.mu.Unlock()
	}()

	if err := m.api.RefreshToken(ctx); err != nil {
		observability.TokenRefreshesTotal.WithLabelValues("error").Inc()
		m.mu.Lock()
		m.setUserLocked(nil)
		m.publishLocked()
		m.mu.Unlock()
		return
	}

	user, err := m.api.CurrentUser(ctx)
	if err != nil {
		observability.TokenRefreshesTotal.WithLabelValues("error").Inc()
		user = nil
	} else {
		observability.TokenRefreshesTotal.WithLabelValues("ok").Inc()
	}

	m.mu.Lock()
	m.setUserLocked(user)
	m.publishLocked()
	m.mu.Unlock()
}

// Do runs fn through the refresh-and-retry policy: an auth-expired failure
// triggers one silent refresh and exactly one retry. Any final failure
// clears the user.
func (m *Manager) Do(ctx context.Context, fn RequestFunc) error {
	return m.do(ctx, fn, false)
}

func (m *Manager) do(ctx context.Context, fn RequestFunc, isLogin bool) error {
	err := fn(ctx)
	if err != nil && domain.IsAuthExpired(err) {
		m.silentRefresh(ctx)
		err = fn(ctx)
	}
	// A failed login must not evict an already-authenticated session
	if err != nil && !isLogin {
		m.mu.Lock()
		m.setUserLocked(nil)
		m.publishLocked()
		m.mu.Unlock()
	}
	return err
}

// StartAutoRefresh runs the background refresh loop until ctx is done or
// the manager is closed.
func (m *Manager) StartAutoRefresh(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(m.refreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-m.closed:
				return
			case <-ticker.C:
				m.refreshTick(ctx)
			}
		}
	}()
}

// refreshTick is one firing of the periodic refresh timer. The refresh is
// skipped when there is no user or when the user has been inactive past
// the cutoff, letting an abandoned session lapse naturally.
func (m *Manager) refreshTick(ctx context.Context) bool {
	m.mu.Lock()
	authenticated := m.user != nil
	idle := m.now().Sub(m.lastActivity) > m.maxInactivity
	m.mu.Unlock()

	if !authenticated || idle {
		return false
	}
	m.silentRefresh(ctx)
	return true
}

// Close tears the manager down and drops all subscribers
func (m *Manager) Close() {
	select {
	case <-m.closed:
		return
	default:
		close(m.closed)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, ch := range m.subs {
		delete(m.subs, id)
		close(ch)
	}
}
