package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/taskdesk/taskdesk/internal/core/domain"
	"github.com/taskdesk/taskdesk/internal/core/ports"
)

// SessionSnapshot is a consistent copy of the manager's state.
type SessionSnapshot struct {
	State    domain.AuthState
	Route    domain.Route
	Session  *domain.Session
	Identity *domain.User
}

// SessionManagerOption configures a SessionManager.
type SessionManagerOption func(*SessionManager)

// WithRouteObserver registers fn to be called after every route decision.
// fn runs outside the manager's lock and may read the manager.
func WithRouteObserver(fn func(domain.Route)) SessionManagerOption {
	return func(m *SessionManager) { m.onRoute = fn }
}

// SessionManager owns the identity of one running client. It is created
// once per process and handed to whatever needs to know "who am I"; there is
// no package-level instance.
//
// State moves Unauthenticated -> Authenticating -> Authenticated and back.
// A deactivated identity is never left holding a live session.
type SessionManager struct {
	gateway    ports.AuthGateway
	identities ports.IdentityReader
	log        zerolog.Logger
	onRoute    func(domain.Route)

	// op serialises Bootstrap/SignIn/SignOut; mu guards the fields below.
	op       sync.Mutex
	mu       sync.RWMutex
	state    domain.AuthState
	route    domain.Route
	session  *domain.Session
	identity *domain.User
}

func NewSessionManager(gateway ports.AuthGateway, identities ports.IdentityReader, log zerolog.Logger, opts ...SessionManagerOption) *SessionManager {
	m := &SessionManager{
		gateway:    gateway,
		identities: identities,
		log:        log,
		state:      domain.StateUnauthenticated,
		route:      domain.RouteEntry,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Bootstrap restores a stored session at process start. A session whose
// identity cannot be loaded is treated as "not logged in" and signed out;
// there is no retry. An inactive identity is signed out and reported with
// ErrAccountDeactivated. Errors from the session lookup itself leave the
// state unchanged.
func (m *SessionManager) Bootstrap(ctx context.Context) error {
	m.op.Lock()
	defer m.op.Unlock()

	session, err := m.gateway.CurrentSession(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", domain.ErrCancelled, ctx.Err())
		}
		return err
	}
	if session == nil {
		m.clear()
		return nil
	}

	user, err := m.identities.FetchIdentity(ctx, session)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", domain.ErrCancelled, ctx.Err())
		}
		m.log.Warn().Err(err).Msg("stored session has no readable identity, signing out")
		m.forceSignOut(ctx, session)
		m.clear()
		return nil
	}

	if !user.Active {
		m.log.Warn().Str("user_id", user.ID).Msg("stored session belongs to a deactivated account, signing out")
		m.forceSignOut(ctx, session)
		m.clear()
		return domain.ErrAccountDeactivated
	}

	m.authenticate(session, user)
	return nil
}

// SignIn authenticates against the gateway and loads the identity. On any
// failure the previous state is restored. A session created for an identity
// that cannot be read or is inactive is revoked before the error returns.
// On success the session it replaces is revoked, so at most one stays live.
func (m *SessionManager) SignIn(ctx context.Context, email, password string) error {
	m.op.Lock()
	defer m.op.Unlock()

	prev := m.Snapshot()
	m.setState(domain.StateAuthenticating)

	session, err := m.gateway.SignIn(ctx, email, password)
	if err != nil {
		m.restore(prev)
		return err
	}

	user, err := m.identities.FetchIdentity(ctx, session)
	if err != nil {
		revokeErr := m.revoke(ctx, session)
		m.restore(prev)
		return errors.Join(fmt.Errorf("%w: %w", domain.ErrDataFetch, err), revokeErr)
	}

	if !user.Active {
		revokeErr := m.revoke(ctx, session)
		m.restore(prev)
		m.log.Warn().Str("user_id", user.ID).Msg("sign-in refused for deactivated account")
		return errors.Join(domain.ErrAccountDeactivated, revokeErr)
	}

	m.authenticate(session, user)
	if prev.Session != nil && prev.Session.ID != session.ID {
		// The new session stands even if the old one cannot be revoked.
		_ = m.revoke(ctx, prev.Session)
	}
	m.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("signed in")
	return nil
}

// SignOut revokes the current session and returns to the entry route. It is
// a no-op when nothing is signed in. If the gateway fails the state is kept.
func (m *SessionManager) SignOut(ctx context.Context) error {
	m.op.Lock()
	defer m.op.Unlock()

	m.mu.RLock()
	session := m.session
	m.mu.RUnlock()

	if session == nil {
		m.clear()
		return nil
	}

	if err := m.gateway.SignOut(ctx, session); err != nil {
		return err
	}

	m.clear()
	m.log.Info().Str("user_id", session.UserID).Msg("signed out")
	return nil
}

func (m *SessionManager) State() domain.AuthState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *SessionManager) Route() domain.Route {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.route
}

// Identity returns a copy of the signed-in user, or nil.
func (m *SessionManager) Identity() *domain.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.identity == nil {
		return nil
	}
	u := *m.identity
	return &u
}

// Session returns a copy of the live session, or nil.
func (m *SessionManager) Session() *domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return nil
	}
	s := *m.session
	return &s
}

func (m *SessionManager) IsAdmin() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identity.IsAdmin()
}

func (m *SessionManager) IsManager() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identity.IsManager()
}

func (m *SessionManager) Snapshot() SessionSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return SessionSnapshot{
		State:    m.state,
		Route:    m.route,
		Session:  m.session,
		Identity: m.identity,
	}
}

// RequireRoute fails unless the manager is authenticated into route r.
func (m *SessionManager) RequireRoute(r domain.Route) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state != domain.StateAuthenticated {
		return domain.ErrSessionNotFound
	}
	if m.route != r {
		return domain.ErrForbidden
	}
	return nil
}

func (m *SessionManager) authenticate(session *domain.Session, user *domain.User) {
	route := domain.RouteFor(user.Role)
	m.mu.Lock()
	m.state = domain.StateAuthenticated
	m.session = session
	m.identity = user
	m.route = route
	m.mu.Unlock()
	m.notifyRoute(route)
}

func (m *SessionManager) clear() {
	m.mu.Lock()
	changed := m.route != domain.RouteEntry || m.session != nil
	m.state = domain.StateUnauthenticated
	m.session = nil
	m.identity = nil
	m.route = domain.RouteEntry
	m.mu.Unlock()
	if changed {
		m.notifyRoute(domain.RouteEntry)
	}
}

func (m *SessionManager) setState(s domain.AuthState) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

func (m *SessionManager) restore(s SessionSnapshot) {
	m.mu.Lock()
	m.state = s.State
	m.route = s.Route
	m.session = s.Session
	m.identity = s.Identity
	m.mu.Unlock()
}

// revoke signs out a session that was never exposed to callers. It ignores
// ctx cancellation so a half-finished sign-in cannot leak a live session.
func (m *SessionManager) revoke(ctx context.Context, session *domain.Session) error {
	if err := m.gateway.SignOut(context.WithoutCancel(ctx), session); err != nil {
		m.log.Error().Err(err).Str("session_id", session.ID).Msg("failed to revoke session")
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (m *SessionManager) forceSignOut(ctx context.Context, session *domain.Session) {
	_ = m.revoke(ctx, session)
}

func (m *SessionManager) notifyRoute(r domain.Route) {
	if m.onRoute != nil {
		m.onRoute(r)
	}
}
