// Package remote talks to the taskdesk HTTP API on behalf of a command-line
// client. Client implements the authentication gateway and identity reader a
// SessionManager needs, plus the calls behind taskctl's commands.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/taskdesk/taskdesk/internal/core/domain"
	"github.com/taskdesk/taskdesk/internal/core/ports"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
)

// TokenStore persists the signed-in session between runs.
type TokenStore interface {
	Load() (*domain.Session, error)
	Save(session *domain.Session) error
	Clear() error
}

// APIError is a non-2xx reply that maps to no domain error.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Client is an HTTP client for the taskdesk API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
	now     func() time.Time

	// displaced is the stored session a SignIn overwrote. It goes back on
	// disk if the new session is signed out before the old one.
	mu        sync.Mutex
	displaced *domain.Session
}

var (
	_ ports.AuthGateway    = (*Client)(nil)
	_ ports.IdentityReader = (*Client)(nil)
)

// New returns a Client for the API at baseURL. A nil httpClient gets a
// default one with a 10s timeout.
func New(baseURL string, tokens TokenStore, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
		now:     time.Now,
	}
}

type loginReply struct {
	SessionID string       `json:"session_id"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

// SignIn opens a session and stores it in place of any stored one.
func (c *Client) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	// An unreadable session file is simply overwritten.
	prev, _ := c.tokens.Load()

	var reply loginReply
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &reply); err != nil {
		return nil, err
	}
	if reply.Token == "" || reply.User == nil {
		return nil, fmt.Errorf("%w: login reply without a session", domain.ErrBackendUnavailable)
	}

	session := &domain.Session{
		ID:        reply.SessionID,
		Token:     reply.Token,
		UserID:    reply.User.ID,
		IssuedAt:  c.now().UTC(),
		ExpiresAt: reply.ExpiresAt,
	}
	if err := c.tokens.Save(session); err != nil {
		_ = c.do(context.WithoutCancel(ctx), http.MethodPost, "/auth/logout", session, nil, nil)
		return nil, err
	}

	c.mu.Lock()
	c.displaced = nil
	if prev != nil && prev.ID != session.ID {
		c.displaced = prev
	}
	c.mu.Unlock()
	return session, nil
}

// SignOut revokes session on the server and forgets it locally. A session
// the server no longer knows counts as signed out.
func (c *Client) SignOut(ctx context.Context, session *domain.Session) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", session, nil, nil)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) && !errors.Is(err, domain.ErrAccountDeactivated) {
		return err
	}
	return c.forget(session)
}

// forget drops session from the token store. Only the stored session is
// removed; signing out the session a SignIn just displaced leaves the new
// one in place, and signing out that new one puts the displaced one back.
func (c *Client) forget(session *domain.Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.displaced != nil && c.displaced.ID == session.ID {
		c.displaced = nil
		return nil
	}

	stored, err := c.tokens.Load()
	if err == nil && stored != nil && stored.ID != session.ID {
		return nil
	}

	if prev := c.displaced; prev != nil {
		c.displaced = nil
		return c.tokens.Save(prev)
	}
	return c.tokens.Clear()
}

// CurrentSession returns the stored session, or nil when none is stored or
// it has expired.
func (c *Client) CurrentSession(context.Context) (*domain.Session, error) {
	session, err := c.tokens.Load()
	if err != nil || session == nil {
		return nil, err
	}
	if session.Expired(c.now()) {
		return nil, c.tokens.Clear()
	}
	return session, nil
}

// FetchIdentity loads the user row behind session. The API refuses
// deactivated accounts outright; that refusal is reported as an inactive
// identity so the caller takes its deactivation path.
func (c *Client) FetchIdentity(ctx context.Context, session *domain.Session) (*domain.User, error) {
	var user domain.User
	err := c.do(ctx, http.MethodGet, "/v1/me", session, nil, &user)
	if errors.Is(err, domain.ErrAccountDeactivated) {
		return &domain.User{ID: session.UserID, Active: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// --- API calls ---

func (c *Client) Tasks(ctx context.Context, session *domain.Session, q url.Values) ([]domain.Task, error) {
	var out []domain.Task
	return out, c.do(ctx, http.MethodGet, withQuery("/v1/tasks", q), session, nil, &out)
}

func (c *Client) MyAssignments(ctx context.Context, session *domain.Session, q url.Values) ([]domain.AssignmentView, error) {
	var out []domain.AssignmentView
	return out, c.do(ctx, http.MethodGet, withQuery("/v1/me/assignments", q), session, nil, &out)
}

func (c *Client) CompleteAssignment(ctx context.Context, session *domain.Session, id string, hours float64, narration string) error {
	body := map[string]any{"hours": hours, "narration": narration}
	return c.do(ctx, http.MethodPost, "/v1/assignments/"+url.PathEscape(id)+"/complete", session, body, nil)
}

// Requests lists requests addressed to the caller (box "inbox") or sent by
// them (box "outbox").
func (c *Client) Requests(ctx context.Context, session *domain.Session, box string, q url.Values) ([]domain.RequestView, error) {
	var out []domain.RequestView
	return out, c.do(ctx, http.MethodGet, withQuery("/v1/requests/"+box, q), session, nil, &out)
}

func (c *Client) CreateRequest(ctx context.Context, session *domain.Session, assignee, title, description string) (*domain.Request, error) {
	var out domain.Request
	body := map[string]string{"assigned_to": assignee, "title": title, "description": description}
	if err := c.do(ctx, http.MethodPost, "/v1/requests", session, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateRequestStatus(ctx context.Context, session *domain.Session, id, status, narration string) (*domain.Request, error) {
	var out domain.Request
	body := map[string]string{"status": status, "narration": narration}
	if err := c.do(ctx, http.MethodPatch, "/v1/requests/"+url.PathEscape(id)+"/status", session, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Directory(ctx context.Context, session *domain.Session) ([]domain.DirectoryEntry, error) {
	var out []domain.DirectoryEntry
	return out, c.do(ctx, http.MethodGet, "/v1/directory", session, nil, &out)
}

func (c *Client) Users(ctx context.Context, session *domain.Session) ([]domain.User, error) {
	var out []domain.User
	return out, c.do(ctx, http.MethodGet, "/v1/users", session, nil, &out)
}

func (c *Client) SetUserActive(ctx context.Context, session *domain.Session, id string, active bool) error {
	body := map[string]bool{"is_active": active}
	return c.do(ctx, http.MethodPatch, "/v1/users/"+url.PathEscape(id)+"/active", session, body, nil)
}

func (c *Client) Dashboard(ctx context.Context, session *domain.Session) (*ports.DashboardStats, error) {
	var out ports.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/v1/dashboard", session, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- transport ---

type errorReply struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

func (c *Client) do(ctx context.Context, method, path string, session *domain.Session, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != nil {
		req.Header.Set("Authorization", "Bearer "+session.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", domain.ErrCancelled, ctx.Err())
		}
		return fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read reply: %w", domain.ErrBackendUnavailable, err)
	}

	if resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode reply: %w", domain.ErrBackendUnavailable, err)
	}
	return nil
}

// statusError maps an error reply back onto the domain sentinels the API
// derived it from.
func statusError(status int, raw []byte) error {
	var reply errorReply
	_ = json.Unmarshal(raw, &reply)

	switch status {
	case http.StatusUnauthorized:
		if reply.Error == "invalid credentials" {
			return domain.ErrInvalidCredentials
		}
		return domain.ErrSessionNotFound
	case http.StatusForbidden:
		if reply.Error == "account deactivated" {
			return domain.ErrAccountDeactivated
		}
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrUserExists
	case http.StatusUnprocessableEntity:
		if len(reply.Fields) > 0 {
			return domain.NewValidationError(reply.Fields...)
		}
		return domain.NewValidationError(reply.Error)
	}
	if status >= 500 || status == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %d %s", domain.ErrBackendUnavailable, status, reply.Error)
	}
	return &APIError{Status: status, Message: reply.Error}
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
