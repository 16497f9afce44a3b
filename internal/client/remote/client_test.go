package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdesk/taskdesk/internal/core/domain"
	"github.com/taskdesk/taskdesk/internal/core/service"
)

// fakeAPI serves the auth and identity endpoints for a single account.
type fakeAPI struct {
	active  bool
	role    domain.Role
	revoked bool
	expires time.Time
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
			return
		}
		if !f.active {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "account deactivated"})
			return
		}
		f.revoked = false
		writeJSON(w, http.StatusOK, map[string]any{
			"session_id": "s1",
			"token":      "tok",
			"expires_at": f.expires,
			"user":       map[string]any{"id": "u1", "role": f.role, "is_active": true},
		})
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		if f.revoked || r.Header.Get("Authorization") != "Bearer tok" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "session expired or revoked"})
			return
		}
		f.revoked = true
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /v1/me", func(w http.ResponseWriter, r *http.Request) {
		if f.revoked || r.Header.Get("Authorization") != "Bearer tok" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "session expired or revoked"})
			return
		}
		if !f.active {
			f.revoked = true
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "account deactivated"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": "u1", "role": f.role, "is_active": true, "full_name": "Ada"})
	})
	mux.HandleFunc("GET /v1/dashboard", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "service temporarily unavailable"})
	})
	mux.HandleFunc("POST /v1/requests", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "validation failed", "fields": []string{"title is required"}})
	})
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newFixture(t *testing.T, api *fakeAPI) (*Client, *FileTokenStore) {
	t.Helper()
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)
	store := NewFileTokenStore(filepath.Join(t.TempDir(), "session.json"))
	return New(srv.URL, store, srv.Client()), store
}

func TestClient_SignInStoresSession(t *testing.T) {
	api := &fakeAPI{active: true, role: domain.RoleUser, expires: time.Now().Add(time.Hour).UTC()}
	c, store := newFixture(t, api)

	session, err := c.SignIn(context.Background(), "ada@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "s1", session.ID)
	assert.Equal(t, "u1", session.UserID)

	stored, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "tok", stored.Token)

	current, err := c.CurrentSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "s1", current.ID)
}

func TestClient_SignInErrors(t *testing.T) {
	c, store := newFixture(t, &fakeAPI{active: true})
	_, err := c.SignIn(context.Background(), "ada@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	c, _ = newFixture(t, &fakeAPI{active: false})
	_, err = c.SignIn(context.Background(), "ada@example.com", "secret")
	assert.ErrorIs(t, err, domain.ErrAccountDeactivated)

	stored, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestClient_CurrentSession_DropsExpired(t *testing.T) {
	c, store := newFixture(t, &fakeAPI{})
	require.NoError(t, store.Save(&domain.Session{ID: "old", Token: "tok", ExpiresAt: time.Now().Add(-time.Minute)}))

	session, err := c.CurrentSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, session)

	stored, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, stored, "expired session should be cleared")
}

func TestClient_SignOut_Idempotent(t *testing.T) {
	api := &fakeAPI{active: true, role: domain.RoleUser, expires: time.Now().Add(time.Hour)}
	c, store := newFixture(t, api)

	session, err := c.SignIn(context.Background(), "ada@example.com", "secret")
	require.NoError(t, err)

	require.NoError(t, c.SignOut(context.Background(), session))
	require.NoError(t, c.SignOut(context.Background(), session), "already revoked session counts as signed out")

	stored, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestClient_SignOutDisplacedKeepsNewSession(t *testing.T) {
	api := &fakeAPI{active: true, role: domain.RoleUser, expires: time.Now().Add(time.Hour)}
	c, store := newFixture(t, api)
	old := &domain.Session{ID: "old", Token: "old-tok", UserID: "u0", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, store.Save(old))

	_, err := c.SignIn(context.Background(), "ada@example.com", "secret")
	require.NoError(t, err)
	require.NoError(t, c.SignOut(context.Background(), old))

	stored, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "s1", stored.ID)
}

func TestClient_SignOutNewSessionRestoresDisplaced(t *testing.T) {
	api := &fakeAPI{active: true, role: domain.RoleUser, expires: time.Now().Add(time.Hour)}
	c, store := newFixture(t, api)
	old := &domain.Session{ID: "old", Token: "old-tok", UserID: "u0", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, store.Save(old))

	session, err := c.SignIn(context.Background(), "ada@example.com", "secret")
	require.NoError(t, err)
	require.NoError(t, c.SignOut(context.Background(), session))

	stored, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "old", stored.ID)
}

func TestClient_ErrorMapping(t *testing.T) {
	c, _ := newFixture(t, &fakeAPI{})
	session := &domain.Session{Token: "tok"}

	_, err := c.Dashboard(context.Background(), session)
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)

	_, err = c.CreateRequest(context.Background(), session, "u2", "", "body")
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"title is required"}, ve.Fields)
}

func TestClient_BackendDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := New(srv.URL, NewFileTokenStore(filepath.Join(t.TempDir(), "s.json")), nil)

	_, err := c.SignIn(context.Background(), "ada@example.com", "secret")
	assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
}

func TestSessionManager_OverRemoteGateway(t *testing.T) {
	api := &fakeAPI{active: true, role: domain.RoleAdmin, expires: time.Now().Add(time.Hour)}
	c, _ := newFixture(t, api)

	var routes []domain.Route
	m := service.NewSessionManager(c, c, zerolog.Nop(), service.WithRouteObserver(func(r domain.Route) {
		routes = append(routes, r)
	}))

	require.NoError(t, m.SignIn(context.Background(), "ada@example.com", "secret"))
	assert.Equal(t, domain.RouteAdmin, m.Route())
	assert.True(t, m.IsAdmin())

	// A fresh process restores the stored session.
	restarted := service.NewSessionManager(c, c, zerolog.Nop())
	require.NoError(t, restarted.Bootstrap(context.Background()))
	assert.Equal(t, domain.StateAuthenticated, restarted.State())

	// The account is deactivated server-side before the next start.
	api.active = false
	again := service.NewSessionManager(c, c, zerolog.Nop())
	assert.ErrorIs(t, again.Bootstrap(context.Background()), domain.ErrAccountDeactivated)
	assert.Equal(t, domain.StateUnauthenticated, again.State())
	assert.Nil(t, again.Session())

	current, err := c.CurrentSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, current, "deactivated session must not stay on disk")
	assert.NotEmpty(t, routes)
}
