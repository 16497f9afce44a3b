package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskdesk/taskdesk/internal/core/domain"
)

type stubGateway struct {
	signInFn  func(ctx context.Context, email, password string) (*domain.Session, error)
	signOutFn func(ctx context.Context, s *domain.Session) error
	currentFn func(ctx context.Context) (*domain.Session, error)

	signIns  int
	signOuts int
	live     map[string]bool
}

func newStubGateway() *stubGateway {
	return &stubGateway{live: make(map[string]bool)}
}

func (g *stubGateway) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	g.signIns++
	if g.signInFn != nil {
		return g.signInFn(ctx, email, password)
	}
	s := &domain.Session{ID: "sess-" + email, Token: "tok", UserID: email, ExpiresAt: time.Now().Add(time.Hour)}
	g.live[s.ID] = true
	return s, nil
}

func (g *stubGateway) SignOut(ctx context.Context, s *domain.Session) error {
	g.signOuts++
	if g.signOutFn != nil {
		return g.signOutFn(ctx, s)
	}
	delete(g.live, s.ID)
	return nil
}

func (g *stubGateway) CurrentSession(ctx context.Context) (*domain.Session, error) {
	if g.currentFn != nil {
		return g.currentFn(ctx)
	}
	return nil, nil
}

type stubIdentities struct {
	users map[string]*domain.User
	err   error
}

func (r *stubIdentities) FetchIdentity(_ context.Context, s *domain.Session) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[s.UserID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func identities(users ...*domain.User) *stubIdentities {
	r := &stubIdentities{users: make(map[string]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func TestSessionManager_SignIn_RoutesByRole(t *testing.T) {
	cases := []struct {
		role domain.Role
		want domain.Route
	}{
		{domain.RoleAdmin, domain.RouteAdmin},
		{domain.RoleManager, domain.RouteStandard},
		{domain.RoleUser, domain.RouteStandard},
	}

	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			var routes []domain.Route
			gw := newStubGateway()
			ids := identities(&domain.User{ID: "u@x.io", Role: tc.role, Active: true})
			m := NewSessionManager(gw, ids, zerolog.Nop(), WithRouteObserver(func(r domain.Route) { routes = append(routes, r) }))

			if err := m.SignIn(context.Background(), "u@x.io", "pw"); err != nil {
				t.Fatalf("sign in failed: %v", err)
			}
			if m.State() != domain.StateAuthenticated {
				t.Fatalf("expected authenticated, got %s", m.State())
			}
			if m.Route() != tc.want {
				t.Fatalf("expected route %s, got %s", tc.want, m.Route())
			}
			if len(routes) != 1 || routes[0] != tc.want {
				t.Fatalf("expected one route notification %s, got %v", tc.want, routes)
			}
			if m.IsAdmin() != (tc.role == domain.RoleAdmin) || m.IsManager() != (tc.role == domain.RoleManager) {
				t.Fatalf("role flags do not match role %s", tc.role)
			}
		})
	}
}

func TestRouteFor_IsTotal(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleManager, domain.RoleUser, "", "SUPERVISOR"} {
		if r := domain.RouteFor(role); r != domain.RouteAdmin && r != domain.RouteStandard {
			t.Fatalf("role %q left unrouted: %q", role, r)
		}
	}
}

func TestSessionManager_SignIn_DeactivatedRevokesSession(t *testing.T) {
	gw := newStubGateway()
	ids := identities(&domain.User{ID: "off@x.io", Role: domain.RoleUser, Active: false})
	m := NewSessionManager(gw, ids, zerolog.Nop())

	err := m.SignIn(context.Background(), "off@x.io", "pw")
	if !errors.Is(err, domain.ErrAccountDeactivated) {
		t.Fatalf("expected ErrAccountDeactivated, got %v", err)
	}
	if len(gw.live) != 0 {
		t.Fatalf("expected no live session, got %v", gw.live)
	}
	if gw.signOuts != 1 {
		t.Fatalf("expected the session to be revoked once, got %d", gw.signOuts)
	}
	if m.State() != domain.StateUnauthenticated || m.Session() != nil || m.Identity() != nil {
		t.Fatalf("expected unauthenticated with no identity, got %+v", m.Snapshot())
	}
}

func TestSessionManager_SignIn_RevokesBeforeReturning(t *testing.T) {
	gw := newStubGateway()
	var stateDuringRevoke domain.AuthState
	var m *SessionManager
	gw.signOutFn = func(_ context.Context, s *domain.Session) error {
		stateDuringRevoke = m.State()
		delete(gw.live, s.ID)
		return nil
	}
	ids := identities(&domain.User{ID: "off@x.io", Active: false})
	m = NewSessionManager(gw, ids, zerolog.Nop())

	_ = m.SignIn(context.Background(), "off@x.io", "pw")
	if stateDuringRevoke != domain.StateAuthenticating {
		t.Fatalf("expected revoke during authenticating, got %s", stateDuringRevoke)
	}
}

func TestSessionManager_SignIn_RevokeFailureIsReported(t *testing.T) {
	gw := newStubGateway()
	gw.signOutFn = func(context.Context, *domain.Session) error { return errors.New("network down") }
	ids := identities(&domain.User{ID: "off@x.io", Active: false})
	m := NewSessionManager(gw, ids, zerolog.Nop())

	err := m.SignIn(context.Background(), "off@x.io", "pw")
	if !errors.Is(err, domain.ErrAccountDeactivated) {
		t.Fatalf("expected ErrAccountDeactivated, got %v", err)
	}
	if err.Error() == domain.ErrAccountDeactivated.Error() {
		t.Fatalf("expected the revoke failure to be joined into %v", err)
	}
}

func TestSessionManager_SignIn_InvalidCredentials(t *testing.T) {
	gw := newStubGateway()
	gw.signInFn = func(context.Context, string, string) (*domain.Session, error) {
		return nil, domain.ErrInvalidCredentials
	}
	m := NewSessionManager(gw, identities(), zerolog.Nop())

	if err := m.SignIn(context.Background(), "a@x.io", "bad"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if m.State() != domain.StateUnauthenticated || m.Route() != domain.RouteEntry {
		t.Fatalf("unexpected state after failure: %+v", m.Snapshot())
	}
}

func TestSessionManager_SignIn_IdentityFetchFails(t *testing.T) {
	gw := newStubGateway()
	ids := &stubIdentities{err: errors.New("row unreadable")}
	m := NewSessionManager(gw, ids, zerolog.Nop())

	err := m.SignIn(context.Background(), "a@x.io", "pw")
	if !errors.Is(err, domain.ErrDataFetch) {
		t.Fatalf("expected ErrDataFetch, got %v", err)
	}
	if len(gw.live) != 0 {
		t.Fatalf("expected the session to be revoked")
	}
	if m.State() != domain.StateUnauthenticated {
		t.Fatalf("expected unauthenticated, got %s", m.State())
	}
}

func TestSessionManager_SignIn_BackendDownKeepsPriorIdentity(t *testing.T) {
	gw := newStubGateway()
	ids := identities(&domain.User{ID: "a@x.io", Role: domain.RoleManager, Active: true})
	m := NewSessionManager(gw, ids, zerolog.Nop())
	if err := m.SignIn(context.Background(), "a@x.io", "pw"); err != nil {
		t.Fatalf("sign in failed: %v", err)
	}

	gw.signInFn = func(context.Context, string, string) (*domain.Session, error) {
		return nil, domain.ErrBackendUnavailable
	}
	if err := m.SignIn(context.Background(), "b@x.io", "pw"); err != domain.ErrBackendUnavailable {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
	if m.State() != domain.StateAuthenticated || m.Identity().ID != "a@x.io" {
		t.Fatalf("expected prior identity to be kept, got %+v", m.Snapshot())
	}
}

func TestSessionManager_SignIn_ReplacesPreviousSession(t *testing.T) {
	gw := newStubGateway()
	ids := identities(
		&domain.User{ID: "a@x.io", Role: domain.RoleUser, Active: true},
		&domain.User{ID: "b@x.io", Role: domain.RoleAdmin, Active: true},
	)
	m := NewSessionManager(gw, ids, zerolog.Nop())

	if err := m.SignIn(context.Background(), "a@x.io", "pw"); err != nil {
		t.Fatalf("first sign in failed: %v", err)
	}
	if err := m.SignIn(context.Background(), "b@x.io", "pw"); err != nil {
		t.Fatalf("second sign in failed: %v", err)
	}

	if len(gw.live) != 1 || !gw.live["sess-b@x.io"] {
		t.Fatalf("expected only the new session to be live, got %v", gw.live)
	}
	if m.Session().ID != "sess-b@x.io" || m.Route() != domain.RouteAdmin {
		t.Fatalf("unexpected state: %+v", m.Snapshot())
	}
}

func TestSessionManager_SignIn_FailureKeepsPreviousSessionLive(t *testing.T) {
	gw := newStubGateway()
	ids := identities(&domain.User{ID: "a@x.io", Role: domain.RoleUser, Active: true})
	m := NewSessionManager(gw, ids, zerolog.Nop())
	if err := m.SignIn(context.Background(), "a@x.io", "pw"); err != nil {
		t.Fatalf("sign in failed: %v", err)
	}

	// b@x.io has no readable identity.
	if err := m.SignIn(context.Background(), "b@x.io", "pw"); !errors.Is(err, domain.ErrDataFetch) {
		t.Fatalf("expected ErrDataFetch, got %v", err)
	}
	if len(gw.live) != 1 || !gw.live["sess-a@x.io"] {
		t.Fatalf("expected the previous session to stay live, got %v", gw.live)
	}
	if m.Session().ID != "sess-a@x.io" {
		t.Fatalf("expected previous session restored, got %+v", m.Snapshot())
	}
}

func TestSessionManager_Bootstrap(t *testing.T) {
	stored := &domain.Session{ID: "s1", UserID: "u1"}

	t.Run("no stored session", func(t *testing.T) {
		m := NewSessionManager(newStubGateway(), identities(), zerolog.Nop())
		if err := m.Bootstrap(context.Background()); err != nil {
			t.Fatalf("bootstrap failed: %v", err)
		}
		if m.State() != domain.StateUnauthenticated || m.Route() != domain.RouteEntry {
			t.Fatalf("unexpected state: %+v", m.Snapshot())
		}
	})

	t.Run("active identity", func(t *testing.T) {
		gw := newStubGateway()
		gw.currentFn = func(context.Context) (*domain.Session, error) { return stored, nil }
		m := NewSessionManager(gw, identities(&domain.User{ID: "u1", Role: domain.RoleAdmin, Active: true}), zerolog.Nop())

		if err := m.Bootstrap(context.Background()); err != nil {
			t.Fatalf("bootstrap failed: %v", err)
		}
		if m.State() != domain.StateAuthenticated || m.Route() != domain.RouteAdmin {
			t.Fatalf("unexpected state: %+v", m.Snapshot())
		}
	})

	t.Run("inactive identity", func(t *testing.T) {
		gw := newStubGateway()
		gw.currentFn = func(context.Context) (*domain.Session, error) { return stored, nil }
		m := NewSessionManager(gw, identities(&domain.User{ID: "u1", Active: false}), zerolog.Nop())

		if err := m.Bootstrap(context.Background()); err != domain.ErrAccountDeactivated {
			t.Fatalf("expected ErrAccountDeactivated, got %v", err)
		}
		if m.State() != domain.StateUnauthenticated {
			t.Fatalf("expected unauthenticated, got %s", m.State())
		}
		if gw.signOuts != 1 {
			t.Fatalf("expected forced sign-out, got %d sign-outs", gw.signOuts)
		}
	})

	t.Run("identity fetch fails", func(t *testing.T) {
		gw := newStubGateway()
		gw.currentFn = func(context.Context) (*domain.Session, error) { return stored, nil }
		m := NewSessionManager(gw, &stubIdentities{err: errors.New("boom")}, zerolog.Nop())

		if err := m.Bootstrap(context.Background()); err != nil {
			t.Fatalf("failed fetch should read as logged out, got %v", err)
		}
		if m.State() != domain.StateUnauthenticated || gw.signOuts != 1 {
			t.Fatalf("expected forced sign-out, got %+v (%d sign-outs)", m.Snapshot(), gw.signOuts)
		}
	})

	t.Run("session lookup fails", func(t *testing.T) {
		gw := newStubGateway()
		gw.currentFn = func(context.Context) (*domain.Session, error) { return nil, domain.ErrBackendUnavailable }
		m := NewSessionManager(gw, identities(), zerolog.Nop())

		if err := m.Bootstrap(context.Background()); err != domain.ErrBackendUnavailable {
			t.Fatalf("expected ErrBackendUnavailable, got %v", err)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		gw := newStubGateway()
		gw.currentFn = func(context.Context) (*domain.Session, error) {
			cancel()
			return nil, context.Canceled
		}
		m := NewSessionManager(gw, identities(), zerolog.Nop())

		if err := m.Bootstrap(ctx); !errors.Is(err, domain.ErrCancelled) {
			t.Fatalf("expected ErrCancelled, got %v", err)
		}
	})
}

func TestSessionManager_SignOut_Idempotent(t *testing.T) {
	gw := newStubGateway()
	var routes []domain.Route
	m := NewSessionManager(gw, identities(), zerolog.Nop(), WithRouteObserver(func(r domain.Route) { routes = append(routes, r) }))

	for i := 0; i < 2; i++ {
		if err := m.SignOut(context.Background()); err != nil {
			t.Fatalf("sign out #%d failed: %v", i, err)
		}
	}
	if gw.signOuts != 0 {
		t.Fatalf("expected no gateway calls, got %d", gw.signOuts)
	}
	if m.State() != domain.StateUnauthenticated || len(routes) != 0 {
		t.Fatalf("expected unchanged state, got %+v routes=%v", m.Snapshot(), routes)
	}
}

func TestSessionManager_SignOut(t *testing.T) {
	gw := newStubGateway()
	m := NewSessionManager(gw, identities(&domain.User{ID: "a@x.io", Active: true}), zerolog.Nop())
	_ = m.SignIn(context.Background(), "a@x.io", "pw")

	gw.signOutFn = func(context.Context, *domain.Session) error { return domain.ErrBackendUnavailable }
	if err := m.SignOut(context.Background()); err != domain.ErrBackendUnavailable {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
	if m.State() != domain.StateAuthenticated {
		t.Fatalf("failed sign-out must keep state, got %s", m.State())
	}

	gw.signOutFn = nil
	if err := m.SignOut(context.Background()); err != nil {
		t.Fatalf("sign out failed: %v", err)
	}
	if m.State() != domain.StateUnauthenticated || m.Route() != domain.RouteEntry || m.Identity() != nil {
		t.Fatalf("unexpected state after sign-out: %+v", m.Snapshot())
	}
}

func TestSessionManager_RequireRoute(t *testing.T) {
	gw := newStubGateway()
	m := NewSessionManager(gw, identities(&domain.User{ID: "a@x.io", Role: domain.RoleUser, Active: true}), zerolog.Nop())

	if err := m.RequireRoute(domain.RouteStandard); err != domain.ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	_ = m.SignIn(context.Background(), "a@x.io", "pw")
	if err := m.RequireRoute(domain.RouteAdmin); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := m.RequireRoute(domain.RouteStandard); err != nil {
		t.Fatalf("expected access to standard route, got %v", err)
	}
}
