// Package session holds the authenticated principal and drives the
// login/logout state machine. The manager is an explicit object handed to
// the views that need it; persisted and in-memory state are kept consistent
// at the end of every mutating operation.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/Logesh-Devops/caconnect-clientui/pkg/api"
	"github.com/Logesh-Devops/caconnect-clientui/pkg/logging"
	"github.com/Logesh-Devops/caconnect-clientui/pkg/models"
)

// State is the top-level authentication state.
type State int

const (
	// StateLoading means a previously persisted session is still being read.
	StateLoading State = iota
	// StateUnauthenticated means no valid session exists.
	StateUnauthenticated
	// StateAuthenticated means a principal is logged in.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Service is the remote surface the manager needs; *api.Client implements it.
type Service interface {
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
	GetProfile(ctx context.Context) (*models.Principal, error)
	GetEntities(ctx context.Context) ([]models.Entity, error)
	Verify2FA(ctx context.Context, otp string) error
	UpdateName(ctx context.Context, firstName, lastName string) error
	UpdatePassword(ctx context.Context, current, newPassword, confirm string) error
	Toggle2FA(ctx context.Context, enable bool) error
	SetAuthToken(token string)
}

// ErrNotAuthenticated is returned by operations that require a session.
var ErrNotAuthenticated = fmt.Errorf("not authenticated")

// ErrNoPendingLogin is returned by VerifyOTP without a held login payload.
var ErrNoPendingLogin = fmt.Errorf("no login awaiting verification")

// Manager owns the session state machine.
type Manager struct {
	svc   Service
	store Store

	mu      sync.RWMutex
	state   State
	session *models.Session
	pending *models.Session // held login payload awaiting OTP verification
}

// NewManager creates a manager in the Loading state.
func NewManager(svc Service, store Store) *Manager {
	return &Manager{svc: svc, store: store, state: StateLoading}
}

// Load reads and validates any persisted session, transitioning to
// Authenticated or Unauthenticated. It is called once at startup.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, err := m.store.Load()
	if err != nil || sess == nil || !tokenUsable(sess.AccessToken) {
		if err != nil {
			logging.Warn("discarding persisted session", zap.Error(err))
		}
		m.state = StateUnauthenticated
		m.session = nil
		m.store.Clear()
		return nil
	}

	m.session = sess
	m.state = StateAuthenticated
	m.svc.SetAuthToken(sess.AccessToken)
	return nil
}

// tokenUsable reports whether a persisted token parses and has not expired.
// The signature is not verified; the server remains the authority.
func tokenUsable(token string) bool {
	if token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return false
	}
	return exp == nil || exp.After(time.Now())
}

// State returns the current state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Session returns a copy of the current session, or nil.
func (m *Manager) Session() *models.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return nil
	}
	cp := *m.session
	return &cp
}

// Login performs the two-step login protocol. When the profile requires
// two-factor authentication it returns pending=true and holds the payload
// until VerifyOTP; nothing is persisted in that case.
func (m *Manager) Login(ctx context.Context, email, password string) (pending bool, err error) {
	resp, err := m.svc.Login(ctx, email, password)
	if err != nil {
		return false, err
	}
	if resp.Role != models.RoleClientUser {
		return false, api.ErrPermissionDenied
	}

	m.svc.SetAuthToken(resp.AccessToken)

	profile, err := m.svc.GetProfile(ctx)
	if err != nil {
		m.svc.SetAuthToken("")
		return false, err
	}
	entities, err := m.svc.GetEntities(ctx)
	if err != nil {
		m.svc.SetAuthToken("")
		return false, err
	}

	sess := &models.Session{
		Principal:   *profile,
		AccessToken: resp.AccessToken,
		Entities:    entities,
	}
	sess.Role = resp.Role

	m.mu.Lock()
	defer m.mu.Unlock()

	if profile.Is2FAEnabled {
		m.pending = sess
		return true, nil
	}
	return false, m.finishLogin(sess)
}

// VerifyOTP completes a login held for two-factor verification.
func (m *Manager) VerifyOTP(ctx context.Context, otp string) error {
	m.mu.RLock()
	pending := m.pending
	m.mu.RUnlock()
	if pending == nil {
		return ErrNoPendingLogin
	}

	if err := m.svc.Verify2FA(ctx, otp); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = nil
	return m.finishLogin(pending)
}

// finishLogin transitions to Authenticated and persists. Callers hold m.mu.
func (m *Manager) finishLogin(sess *models.Session) error {
	m.session = sess
	m.state = StateAuthenticated
	if err := m.store.Save(sess); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	logging.Info("logged in",
		zap.String("sub", sess.Sub),
		zap.Int("entities", len(sess.Entities)))
	return nil
}

// Logout clears all in-memory and persisted session state.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = nil
	m.pending = nil
	m.state = StateUnauthenticated
	m.svc.SetAuthToken("")
	return m.store.Clear()
}

// UpdateName changes the profile name and re-persists the session.
func (m *Manager) UpdateName(ctx context.Context, firstName, lastName string) error {
	if m.State() != StateAuthenticated {
		return ErrNotAuthenticated
	}
	if err := m.svc.UpdateName(ctx, firstName, lastName); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.Name = firstName + " " + lastName
	return m.store.Save(m.session)
}

// UpdatePassword changes the account password. The session record does not
// carry the password, so nothing is re-persisted.
func (m *Manager) UpdatePassword(ctx context.Context, current, newPassword, confirm string) error {
	if m.State() != StateAuthenticated {
		return ErrNotAuthenticated
	}
	return m.svc.UpdatePassword(ctx, current, newPassword, confirm)
}

// SetTwoFactor toggles two-factor authentication and re-persists.
func (m *Manager) SetTwoFactor(ctx context.Context, enable bool) error {
	if m.State() != StateAuthenticated {
		return ErrNotAuthenticated
	}
	if err := m.svc.Toggle2FA(ctx, enable); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.session.Is2FAEnabled = enable
	return m.store.Save(m.session)
}
